package db

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a migrated in-memory SQLite database.
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Every pooled connection would otherwise get its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}
	return db, nil
}

func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes every row, children first.
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"order_items", "orders",
		"product_addons", "product_flavors", "product_sizes", "products", "categories",
		"tables",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + pq.QuoteIdentifier(table)).Error; err != nil {
			return err
		}
	}
	return nil
}
