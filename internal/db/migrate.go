package db

import (
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Table{},
		&model.Category{},
		&model.Product{},
		&model.ProductSize{},
		&model.ProductFlavor{},
		&model.ProductAddon{},
		&model.Order{},
		&model.OrderItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed inserts demo tables and a small menu into an empty database.
func Seed() error {
	return SeedDemoData(DB)
}

func SeedDemoData(conn *gorm.DB) error {
	logger.Info("Seeding initial data...")

	if err := seedTables(conn, 10); err != nil {
		logger.Error("Failed to seed tables", err)
		return err
	}
	if err := seedMenu(conn); err != nil {
		logger.Error("Failed to seed menu", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedTables(conn *gorm.DB, count int) error {
	var existing int64
	if err := conn.Model(&model.Table{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		logger.Info("Tables already seeded, skipping...", map[string]interface{}{
			"existing_count": existing,
		})
		return nil
	}

	tables := make([]model.Table, 0, count)
	for n := 1; n <= count; n++ {
		tables = append(tables, model.Table{TableNumber: n, Active: true})
	}
	return conn.Create(&tables).Error
}

func seedMenu(conn *gorm.DB) error {
	var existing int64
	if err := conn.Model(&model.Product{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		logger.Info("Menu already seeded, skipping...", map[string]interface{}{
			"existing_count": existing,
		})
		return nil
	}

	price := decimal.RequireFromString

	return conn.Transaction(func(tx *gorm.DB) error {
		pizzas := model.Category{Name: "Pizzas", Position: 1}
		drinks := model.Category{Name: "Bebidas", Position: 2}
		if err := tx.Create(&pizzas).Error; err != nil {
			return err
		}
		if err := tx.Create(&drinks).Error; err != nil {
			return err
		}

		products := []model.Product{
			{
				CategoryID:   pizzas.ID,
				Name:         "Pizza Calabresa",
				Slug:         "pizza-calabresa",
				ServesPeople: 3,
				BasePrice:    price("39.90"),
				Position:     1,
				Active:       true,
				Sizes: []model.ProductSize{
					{Name: "Média", Price: price("39.90"), Position: 1},
					{Name: "Grande", Price: price("54.90"), Position: 2},
				},
				Flavors: []model.ProductFlavor{
					{Name: "Tradicional", ExtraPrice: price("0.00"), Position: 1},
					{Name: "Borda recheada", ExtraPrice: price("8.00"), Position: 2},
				},
				Addons: []model.ProductAddon{
					{Name: "Bacon", Price: price("5.00"), Position: 1},
					{Name: "Catupiry", Price: price("6.00"), Position: 2},
				},
			},
			{
				CategoryID:   pizzas.ID,
				Name:         "Pizza Margherita",
				Slug:         "pizza-margherita",
				ServesPeople: 3,
				BasePrice:    price("42.90"),
				Position:     2,
				Active:       true,
				Sizes: []model.ProductSize{
					{Name: "Média", Price: price("42.90"), Position: 1},
					{Name: "Grande", Price: price("57.90"), Position: 2},
				},
			},
			{
				CategoryID:   drinks.ID,
				Name:         "Refrigerante 2L",
				Slug:         "refrigerante-2l",
				ServesPeople: 4,
				BasePrice:    price("14.00"),
				Position:     1,
				Active:       true,
			},
		}
		return tx.Create(&products).Error
	})
}
