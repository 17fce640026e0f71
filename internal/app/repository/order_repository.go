package repository

import (
	"context"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context) ([]model.Order, error)
	FindCreatedBetween(ctx context.Context, from, to int64) ([]model.Order, error)
	// UpdateStatus moves the order only if it is still in status from and
	// reports whether a row changed.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error)
	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// Create inserts the order and its items in one statement batch; run it
// inside a transaction to get all-or-nothing behaviour.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_type": order.OrderType,
		"total":      order.Total.StringFixed(2),
		"item_count": len(order.Items),
	})

	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_type": order.OrderType,
			"total":      order.Total.StringFixed(2),
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":   order.ID,
		"order_type": order.OrderType,
	})
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.withItems(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		logger.Debug("Order lookup failed in database", map[string]interface{}{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := r.withItems(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders in database", err)
		return nil, err
	}

	logger.Debug("Orders listed in database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// FindCreatedBetween returns orders with from <= created_at < to.
func (r *orderRepository) FindCreatedBetween(ctx context.Context, from, to int64) ([]model.Order, error) {
	var orders []model.Order
	if err := r.withItems(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders by creation window", err, map[string]interface{}{
			"from": from,
			"to":   to,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error) {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"from":     from,
		"to":       to,
	})

	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   to,
		})
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
