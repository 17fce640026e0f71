package model

import "github.com/shopspring/decimal"

type SizeSelection struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type FlavorSelection struct {
	Name       string          `json:"name"`
	ExtraPrice decimal.Decimal `json:"extraPrice"`
}

type AddonSelection struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CartItem is one configured product waiting for checkout. It is never
// written to the relational store.
type CartItem struct {
	ID           string           `json:"id"`
	ProductID    uint             `json:"productId"`
	ProductName  string           `json:"productName"`
	ProductImage string           `json:"productImage,omitempty"`
	Size         *SizeSelection   `json:"size,omitempty"`
	Flavor       *FlavorSelection `json:"flavor,omitempty"`
	Addons       []AddonSelection `json:"addons"`
	Quantity     int              `json:"quantity"`
	UnitPrice    decimal.Decimal  `json:"unitPrice"`
	TotalPrice   decimal.Decimal  `json:"totalPrice"`
}

type Cart struct {
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

func EmptyCart() *Cart {
	return &Cart{Items: []CartItem{}, Subtotal: decimal.Zero}
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
