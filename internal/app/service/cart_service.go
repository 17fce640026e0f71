package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/imperiopizzas/imperio-backend/internal/app/cartstore"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/pricing"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

// AddCartItemInput identifies the product by id or, when ProductID is zero,
// by slug.
type AddCartItemInput struct {
	ProductID uint
	Slug      string
	Options   OptionChoice
	Quantity  int
}

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*model.Cart, error)
	AddItem(ctx context.Context, sessionID string, input AddCartItemInput) (*model.Cart, error)
	// UpdateQuantity applies delta to the item; quantities never drop below 1.
	UpdateQuantity(ctx context.Context, sessionID, itemID string, delta int) (*model.Cart, error)
	SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*model.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type cartService struct {
	store       cartstore.Store
	productRepo repository.ProductRepository
}

func NewCartService(store cartstore.Store, productRepo repository.ProductRepository) CartService {
	return &cartService{
		store:       store,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*model.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to load cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, sessionID string, input AddCartItemInput) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": input.ProductID,
		"slug":       input.Slug,
		"quantity":   input.Quantity,
	})

	product, err := s.findProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	sel, err := ResolveSelection(product, input.Options)
	if err != nil {
		logger.Warn("Cannot add to cart: invalid option", map[string]interface{}{
			"session_id": sessionID,
			"product_id": product.ID,
			"error":      err.Error(),
		})
		return nil, err
	}

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := pricing.NewLine(uuid.NewString(), product, sel, input.Quantity)
	cart.Items = append(cart.Items, line)
	return s.save(ctx, sessionID, cart)
}

func (s *cartService) findProduct(ctx context.Context, input AddCartItemInput) (*model.Product, error) {
	if input.ProductID == 0 {
		product, err := s.productRepo.FindActiveBySlug(ctx, input.Slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		return product, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, []uint{input.ProductID})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 || !products[0].Active {
		logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
			"product_id": input.ProductID,
		})
		return nil, ErrProductNotFound
	}
	return &products[0], nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, delta int) (*model.Cart, error) {
	return s.mutateItem(ctx, sessionID, itemID, func(item *model.CartItem) {
		pricing.AdjustQuantity(item, delta)
	})
}

func (s *cartService) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*model.Cart, error) {
	return s.mutateItem(ctx, sessionID, itemID, func(item *model.CartItem) {
		pricing.SetQuantity(item, quantity)
	})
}

func (s *cartService) mutateItem(ctx context.Context, sessionID, itemID string, fn func(*model.CartItem)) (*model.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			fn(&cart.Items[i])
			return s.save(ctx, sessionID, cart)
		}
	}

	logger.Warn("Cart item not found", map[string]interface{}{
		"session_id": sessionID,
		"item_id":    itemID,
	})
	return nil, ErrCartItemNotFound
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*model.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := make([]model.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cart.Items) {
		return nil, ErrCartItemNotFound
	}

	cart.Items = kept
	return s.save(ctx, sessionID, cart)
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	logger.Info("Cart cleared", map[string]interface{}{
		"session_id": sessionID,
	})
	return nil
}

// save stores the cart and returns the recomputed copy callers see.
func (s *cartService) save(ctx context.Context, sessionID string, cart *model.Cart) (*model.Cart, error) {
	if err := s.store.Set(ctx, sessionID, cart); err != nil {
		logger.Error("Failed to save cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return s.store.Get(ctx, sessionID)
}
