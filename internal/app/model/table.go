package model

// Table is a dine-in table reachable through its /m{number} QR link.
type Table struct {
	ID          uint `gorm:"primarykey" json:"id"`
	TableNumber int  `gorm:"uniqueIndex;not null" json:"table_number"`
	Active      bool `gorm:"not null;index" json:"active"`
}

func (Table) TableName() string {
	return "tables"
}
