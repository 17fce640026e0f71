package repository

import (
	"context"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"gorm.io/gorm"
)

type TableRepository interface {
	FindActiveByNumber(ctx context.Context, number int) (*model.Table, error)
	FindActiveByID(ctx context.Context, id uint) (*model.Table, error)
	ListActive(ctx context.Context) ([]model.Table, error)
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) FindActiveByNumber(ctx context.Context, number int) (*model.Table, error) {
	logger.Debug("Finding active table by number in database", map[string]interface{}{
		"table_number": number,
	})

	var table model.Table
	if err := r.db.WithContext(ctx).
		Where("table_number = ? AND active = ?", number, true).
		First(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepository) FindActiveByID(ctx context.Context, id uint) (*model.Table, error) {
	var table model.Table
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepository) ListActive(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("table_number ASC").
		Find(&tables).Error; err != nil {
		logger.Error("Failed to list active tables in database", err)
		return nil, err
	}
	return tables, nil
}
