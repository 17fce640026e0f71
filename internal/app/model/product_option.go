package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductSize replaces the product base price when selected.
type ProductSize struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Position  int             `gorm:"not null;default:0" json:"position"`
}

func (ProductSize) TableName() string {
	return "product_sizes"
}

// ProductFlavor adds ExtraPrice on top of the base or size price.
type ProductFlavor struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	ProductID  uint            `gorm:"not null;index" json:"product_id"`
	Name       string          `gorm:"type:varchar(100);not null" json:"name"`
	ExtraPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"extra_price"`
	Position   int             `gorm:"not null;default:0" json:"position"`
}

func (ProductFlavor) TableName() string {
	return "product_flavors"
}

type ProductAddon struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Position  int             `gorm:"not null;default:0" json:"position"`
}

func (ProductAddon) TableName() string {
	return "product_addons"
}

// FindSize looks an option up by name, ignoring case and surrounding spaces.
func (p *Product) FindSize(name string) (*ProductSize, bool) {
	for i := range p.Sizes {
		if sameOption(p.Sizes[i].Name, name) {
			return &p.Sizes[i], true
		}
	}
	return nil, false
}

func (p *Product) FindFlavor(name string) (*ProductFlavor, bool) {
	for i := range p.Flavors {
		if sameOption(p.Flavors[i].Name, name) {
			return &p.Flavors[i], true
		}
	}
	return nil, false
}

func (p *Product) FindAddon(name string) (*ProductAddon, bool) {
	for i := range p.Addons {
		if sameOption(p.Addons[i].Name, name) {
			return &p.Addons[i], true
		}
	}
	return nil, false
}

func sameOption(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
