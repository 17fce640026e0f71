// Package cartstore keeps each browsing session's cart behind a small
// get/set/clear interface so the backend can be swapped.
package cartstore

import (
	"context"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/pricing"
)

type Store interface {
	// Get returns the session's cart, or an empty cart if none is stored.
	Get(ctx context.Context, sessionID string) (*model.Cart, error)
	// Set replaces the session's cart. Totals are recomputed before storing.
	Set(ctx context.Context, sessionID string, cart *model.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// recompute returns a deep copy of cart with totals rebuilt from its items.
// Nothing in the result aliases the input.
func recompute(cart *model.Cart) *model.Cart {
	if cart == nil {
		return model.EmptyCart()
	}
	items := make([]model.CartItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = cloneItem(item)
	}
	return pricing.CalculateTotals(items)
}

func cloneItem(item model.CartItem) model.CartItem {
	if item.Size != nil {
		size := *item.Size
		item.Size = &size
	}
	if item.Flavor != nil {
		flavor := *item.Flavor
		item.Flavor = &flavor
	}
	if item.Addons != nil {
		addons := make([]model.AddonSelection, len(item.Addons))
		copy(addons, item.Addons)
		item.Addons = addons
	}
	return item
}
