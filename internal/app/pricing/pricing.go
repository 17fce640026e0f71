// Package pricing derives line, cart and checkout amounts. All arithmetic is
// exact decimal; nothing here touches storage.
package pricing

import (
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// DefaultDeliveryFee applies to external delivery orders unless configured.
var DefaultDeliveryFee = decimal.RequireFromString("8.00")

const minQuantity = 1

// Selection is a configured product before a quantity is attached.
type Selection struct {
	Size   *model.SizeSelection
	Flavor *model.FlavorSelection
	Addons []model.AddonSelection
}

// UnitPrice returns size price (or base price) plus flavor extra plus every addon.
func UnitPrice(base decimal.Decimal, sel Selection) decimal.Decimal {
	price := base
	if sel.Size != nil {
		price = sel.Size.Price
	}
	if sel.Flavor != nil {
		price = price.Add(sel.Flavor.ExtraPrice)
	}
	for _, addon := range sel.Addons {
		price = price.Add(addon.Price)
	}
	return price
}

// LineTotal is unit price times the floored quantity.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(ClampQuantity(quantity))))
}

func ClampQuantity(q int) int {
	if q < minQuantity {
		return minQuantity
	}
	return q
}

// NewLine builds a cart item for product with the given selection.
func NewLine(id string, product *model.Product, sel Selection, quantity int) model.CartItem {
	addons := sel.Addons
	if addons == nil {
		addons = []model.AddonSelection{}
	}
	item := model.CartItem{
		ID:           id,
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductImage: product.ImageURL,
		Size:         sel.Size,
		Flavor:       sel.Flavor,
		Addons:       addons,
		UnitPrice:    UnitPrice(product.BasePrice, sel),
	}
	SetQuantity(&item, quantity)
	return item
}

// SetQuantity floors q at 1 and refreshes the line total.
func SetQuantity(item *model.CartItem, q int) {
	item.Quantity = ClampQuantity(q)
	item.TotalPrice = LineTotal(item.UnitPrice, item.Quantity)
}

// AdjustQuantity applies delta; going below 1 leaves the quantity at 1.
func AdjustQuantity(item *model.CartItem, delta int) {
	SetQuantity(item, item.Quantity+delta)
}

// CalculateTotals recomputes subtotal and item count from scratch.
func CalculateTotals(items []model.CartItem) *model.Cart {
	if items == nil {
		items = []model.CartItem{}
	}
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
		count += item.Quantity
	}
	return &model.Cart{Items: items, Subtotal: subtotal, ItemCount: count}
}

// DeliveryFee is charged only to external customers choosing delivery.
func DeliveryFee(origin model.Origin, orderType model.OrderType, fee decimal.Decimal) decimal.Decimal {
	if origin.IsInternal() || orderType != model.OrderTypeDelivery {
		return decimal.Zero
	}
	return fee
}

// Totals is the checkout summary of an order.
type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

func CheckoutTotals(subtotal decimal.Decimal, origin model.Origin, orderType model.OrderType, fee decimal.Decimal) Totals {
	delivery := DeliveryFee(origin, orderType, fee)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: delivery,
		Total:       subtotal.Add(delivery),
	}
}

// DefaultSelection picks the first size and flavor, no addons.
func DefaultSelection(product *model.Product) Selection {
	var sel Selection
	if len(product.Sizes) > 0 {
		s := product.Sizes[0]
		sel.Size = &model.SizeSelection{Name: s.Name, Price: s.Price}
	}
	if len(product.Flavors) > 0 {
		f := product.Flavors[0]
		sel.Flavor = &model.FlavorSelection{Name: f.Name, ExtraPrice: f.ExtraPrice}
	}
	return sel
}

// Format renders an amount with exactly two decimals.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
