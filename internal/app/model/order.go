package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderType string

const (
	OrderTypeInternal OrderType = "internal" // table order
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeInternal, OrderTypePickup, OrderTypeDelivery:
		return true
	}
	return false
}

type Order struct {
	ID                 string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderType          OrderType       `gorm:"type:varchar(20);not null" json:"order_type"`
	TableID            *uint           `gorm:"index" json:"table_id,omitempty"`
	TableNumber        *int            `json:"table_number,omitempty"`
	CustomerName       *string         `gorm:"type:varchar(150)" json:"customer_name,omitempty"`
	CustomerPhone      *string         `gorm:"type:varchar(40)" json:"customer_phone,omitempty"`
	CustomerAddress    *string         `gorm:"type:text" json:"customer_address,omitempty"`
	CustomerPostalCode *string         `gorm:"type:varchar(20)" json:"customer_postal_code,omitempty"`
	DeliveryFee        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Total              decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	PaymentMethod      *string         `gorm:"type:varchar(40)" json:"payment_method,omitempty"`
	Notes              *string         `gorm:"type:text" json:"notes,omitempty"`
	Status             OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt          int64           `gorm:"autoCreateTime;index" json:"created_at"` // epoch seconds
	UpdatedAt          int64           `gorm:"autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// AddonList is stored as a JSON array on the order item row.
type AddonList []AddonSelection

// OrderItem is a snapshot of the catalog at submission time.
type OrderItem struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	OrderID     string          `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(150);not null" json:"product_name"`
	SizeName    *string         `gorm:"type:varchar(100)" json:"size_name,omitempty"`
	FlavorName  *string         `gorm:"type:varchar(100)" json:"flavor_name,omitempty"`
	Addons      AddonList       `gorm:"type:text;serializer:json" json:"addons"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
