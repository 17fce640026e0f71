package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as a JSON number.
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	Name     string    `gorm:"type:varchar(100);not null" json:"name"`
	Position int       `gorm:"not null;default:0" json:"position"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

type Product struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	CategoryID   uint            `gorm:"not null;index" json:"category_id"`
	Name         string          `gorm:"type:varchar(150);not null" json:"name"`
	Slug         string          `gorm:"type:varchar(150);uniqueIndex;not null" json:"slug"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	ServesPeople int             `gorm:"not null;default:1" json:"serves_people"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	ImageURL     string          `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	Position     int             `gorm:"not null;default:0" json:"position"`
	Active       bool            `gorm:"not null;index" json:"active"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`

	Category *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Sizes    []ProductSize   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes"`
	Flavors  []ProductFlavor `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"flavors"`
	Addons   []ProductAddon  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"addons"`
}

func (Product) TableName() string {
	return "products"
}

// ProductSummary is the list projection served by the menu endpoint.
type ProductSummary struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	ServesPeople int             `json:"serves_people"`
	BasePrice    decimal.Decimal `json:"base_price"`
	ImageURL     string          `json:"image_url"`
	CategoryName string          `json:"category_name"`
}
