package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/pricing"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidOption   = errors.New("invalid product option")
)

// OptionChoice names the options picked for a product. Empty size or flavor
// names fall back to the product's first option.
type OptionChoice struct {
	Size   string
	Flavor string
	Addons []string
}

// ProductDetail is a product with the selection the menu pre-fills.
type ProductDetail struct {
	Product          *model.Product  `json:"product"`
	DefaultSelection DefaultSelected `json:"default_selection"`
}

type DefaultSelected struct {
	Size      *model.SizeSelection   `json:"size,omitempty"`
	Flavor    *model.FlavorSelection `json:"flavor,omitempty"`
	UnitPrice string                 `json:"unit_price"`
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]model.ProductSummary, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error)
	ListTables(ctx context.Context) ([]model.Table, error)
}

type productService struct {
	productRepo repository.ProductRepository
	tableRepo   repository.TableRepository
}

func NewProductService(productRepo repository.ProductRepository, tableRepo repository.TableRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		tableRepo:   tableRepo,
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]model.ProductSummary, error) {
	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	if products == nil {
		products = []model.ProductSummary{}
	}
	return products, nil
}

func (s *productService) GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.productRepo.FindActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	sel := pricing.DefaultSelection(product)
	return &ProductDetail{
		Product: product,
		DefaultSelection: DefaultSelected{
			Size:      sel.Size,
			Flavor:    sel.Flavor,
			UnitPrice: pricing.Format(pricing.UnitPrice(product.BasePrice, sel)),
		},
	}, nil
}

func (s *productService) ListTables(ctx context.Context) ([]model.Table, error) {
	tables, err := s.tableRepo.ListActive(ctx)
	if err != nil {
		logger.Error("Failed to list tables", err)
		return nil, err
	}
	return tables, nil
}

// ResolveSelection prices choice against the catalog entry. Names the
// product does not offer are rejected; prices always come from the catalog.
func ResolveSelection(product *model.Product, choice OptionChoice) (pricing.Selection, error) {
	sel := pricing.DefaultSelection(product)

	if choice.Size != "" {
		size, ok := product.FindSize(choice.Size)
		if !ok {
			return pricing.Selection{}, fmt.Errorf("%w: size %q for %s", ErrInvalidOption, choice.Size, product.Name)
		}
		sel.Size = &model.SizeSelection{Name: size.Name, Price: size.Price}
	}

	if choice.Flavor != "" {
		flavor, ok := product.FindFlavor(choice.Flavor)
		if !ok {
			return pricing.Selection{}, fmt.Errorf("%w: flavor %q for %s", ErrInvalidOption, choice.Flavor, product.Name)
		}
		sel.Flavor = &model.FlavorSelection{Name: flavor.Name, ExtraPrice: flavor.ExtraPrice}
	}

	for _, name := range choice.Addons {
		addon, ok := product.FindAddon(name)
		if !ok {
			return pricing.Selection{}, fmt.Errorf("%w: addon %q for %s", ErrInvalidOption, name, product.Name)
		}
		sel.Addons = append(sel.Addons, model.AddonSelection{Name: addon.Name, Price: addon.Price})
	}

	return sel, nil
}

// loadActiveProducts fetches every referenced product and fails with
// ErrInvalidProduct naming the first id that is missing or inactive.
func loadActiveProducts(ctx context.Context, repo repository.ProductRepository, ids []uint, names map[uint]string) (map[uint]*model.Product, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	products, err := repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, id := range ids {
		p, ok := byID[id]
		if ok && p.Active {
			continue
		}
		label := names[id]
		if ok {
			label = p.Name
		}
		if label == "" {
			label = fmt.Sprintf("#%d", id)
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidProduct, label)
	}
	return byID, nil
}
