package repository

import (
	"context"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	ListActive(ctx context.Context) ([]model.ProductSummary, error)
	FindActiveBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	FindOrCreateCategory(ctx context.Context, name string, position int) (*model.Category, error)
	WithTx(tx *gorm.DB) ProductRepository
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// withOptions preloads the option lists in display order.
func (r *productRepository) withOptions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Sizes", byPosition).
		Preload("Flavors", byPosition).
		Preload("Addons", byPosition)
}

func (r *productRepository) ListActive(ctx context.Context) ([]model.ProductSummary, error) {
	logger.Debug("Listing active products in database")

	var products []model.ProductSummary
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.id, products.name, products.slug, products.serves_people, products.base_price, products.image_url, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("products.active = ?", true).
		Order("categories.position ASC").
		Order("products.position ASC").
		Order("products.id ASC").
		Scan(&products).Error
	if err != nil {
		logger.Error("Failed to list active products in database", err)
		return nil, err
	}

	logger.Debug("Active products listed in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindActiveBySlug(ctx context.Context, slug string) (*model.Product, error) {
	logger.Debug("Finding product by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var product model.Product
	if err := r.withOptions(ctx).
		Where("slug = ? AND active = ?", slug, true).
		First(&product).Error; err != nil {
		logger.Debug("Product not found by slug in database", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns the products that exist, with options; missing ids are
// simply absent from the result.
func (r *productRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	var products []model.Product
	if err := r.withOptions(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to find products by IDs in database", err, map[string]interface{}{
			"ids": ids,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
		"slug": product.Slug,
	})

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindOrCreateCategory(ctx context.Context, name string, position int) (*model.Category, error) {
	category := model.Category{Name: name}
	err := r.db.WithContext(ctx).
		Where(model.Category{Name: name}).
		Attrs(model.Category{Position: position}).
		FirstOrCreate(&category).Error
	if err != nil {
		logger.Error("Failed to find or create category", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}
	return &category, nil
}
