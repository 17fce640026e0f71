package repository

import (
	"testing"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedCatalog creates two categories and three products, one inactive.
func seedCatalog(t *testing.T, testDB *gorm.DB) (pizza, soda, hidden *model.Product) {
	drinks := &model.Category{Name: "Drinks", Position: 2}
	pizzas := &model.Category{Name: "Pizzas", Position: 1}
	require.NoError(t, testDB.Create(drinks).Error)
	require.NoError(t, testDB.Create(pizzas).Error)

	soda = &model.Product{CategoryID: drinks.ID, Name: "Soda", Slug: "soda", BasePrice: price("6.00"), Position: 1, Active: true}
	pizza = &model.Product{
		CategoryID: pizzas.ID, Name: "Pepperoni", Slug: "pepperoni", BasePrice: price("30.00"), Position: 2, Active: true, ServesPeople: 2,
		Sizes: []model.ProductSize{
			{Name: "Small", Price: price("25.00"), Position: 2},
			{Name: "Large", Price: price("45.00"), Position: 1},
		},
		Flavors: []model.ProductFlavor{{Name: "Stuffed crust", ExtraPrice: price("5.00"), Position: 1}},
		Addons: []model.ProductAddon{
			{Name: "Olives", Price: price("2.00"), Position: 2},
			{Name: "Bacon", Price: price("3.00"), Position: 1},
		},
	}
	hidden = &model.Product{CategoryID: pizzas.ID, Name: "Retired", Slug: "retired", BasePrice: price("20.00"), Position: 1}

	require.NoError(t, testDB.Create(soda).Error)
	require.NoError(t, testDB.Create(pizza).Error)
	require.NoError(t, testDB.Create(hidden).Error)
	return pizza, soda, hidden
}
