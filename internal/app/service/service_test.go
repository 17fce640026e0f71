package service

import (
	"context"
	"sync"
	"testing"

	"github.com/imperiopizzas/imperio-backend/internal/app/cartstore"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/internal/db"
	"github.com/imperiopizzas/imperio-backend/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type testFixture struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	tableRepo   repository.TableRepository
	orderRepo   repository.OrderRepository
	store       *cartstore.MemoryStore
	events      *recordingPublisher

	pizza    *model.Product
	soda     *model.Product
	retired  *model.Product
	table    *model.Table
	disabled *model.Table
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func setupFixture(t *testing.T) *testFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	f := &testFixture{
		db:          testDB,
		productRepo: repository.NewProductRepository(testDB),
		tableRepo:   repository.NewTableRepository(testDB),
		orderRepo:   repository.NewOrderRepository(testDB),
		store:       cartstore.NewMemoryStore(),
		events:      &recordingPublisher{},
	}

	pizzas := &model.Category{Name: "Pizzas", Position: 1}
	drinks := &model.Category{Name: "Drinks", Position: 2}
	require.NoError(t, testDB.Create(pizzas).Error)
	require.NoError(t, testDB.Create(drinks).Error)

	f.pizza = &model.Product{
		CategoryID: pizzas.ID, Name: "Pepperoni", Slug: "pepperoni", BasePrice: price("30.00"), Position: 1, Active: true,
		Sizes: []model.ProductSize{
			{Name: "Medium", Price: price("35.00"), Position: 1},
			{Name: "Large", Price: price("45.00"), Position: 2},
		},
		Flavors: []model.ProductFlavor{
			{Name: "Classic", ExtraPrice: price("0.00"), Position: 1},
			{Name: "Stuffed crust", ExtraPrice: price("5.00"), Position: 2},
		},
		Addons: []model.ProductAddon{
			{Name: "Bacon", Price: price("3.00"), Position: 1},
			{Name: "Olives", Price: price("3.00"), Position: 2},
		},
	}
	f.soda = &model.Product{CategoryID: drinks.ID, Name: "Soda", Slug: "soda", BasePrice: price("6.00"), Position: 1, Active: true}
	f.retired = &model.Product{CategoryID: pizzas.ID, Name: "Retired", Slug: "retired", BasePrice: price("20.00"), Position: 2}
	for _, p := range []*model.Product{f.pizza, f.soda, f.retired} {
		require.NoError(t, testDB.Create(p).Error)
	}

	f.table = &model.Table{TableNumber: 4, Active: true}
	f.disabled = &model.Table{TableNumber: 9}
	require.NoError(t, testDB.Create(f.table).Error)
	require.NoError(t, testDB.Create(f.disabled).Error)

	return f
}

func (f *testFixture) orderService() OrderService {
	return NewOrderService(OrderServiceDeps{
		OrderRepo:   f.orderRepo,
		ProductRepo: f.productRepo,
		TableRepo:   f.tableRepo,
		CartStore:   f.store,
		Publisher:   f.events,
		DB:          f.db,
		DeliveryFee: price("8.00"),
	})
}

func (f *testFixture) countRows(t *testing.T, m interface{}) int64 {
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}
