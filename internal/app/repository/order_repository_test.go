package repository

import (
	"context"
	"testing"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(productID uint, createdAt int64, status model.OrderStatus) *model.Order {
	return &model.Order{
		OrderType:   model.OrderTypePickup,
		Subtotal:    price("30.00"),
		DeliveryFee: price("0"),
		Total:       price("30.00"),
		Status:      status,
		CreatedAt:   createdAt,
		Items: []model.OrderItem{
			{
				ProductID:   productID,
				ProductName: "Pepperoni",
				Addons:      model.AddonList{{Name: "Bacon", Price: price("3.00")}},
				Quantity:    1,
				UnitPrice:   price("30.00"),
				TotalPrice:  price("30.00"),
			},
		},
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	testDB := setupTestDB(t)
	pizza, _, _ := seedCatalog(t, testDB)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	order := newOrder(pizza.ID, 0, model.OrderStatusPending)
	require.NoError(t, repo.Create(ctx, order))
	assert.Len(t, order.ID, 36)
	assert.NotZero(t, order.CreatedAt)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, order.ID, found.Items[0].OrderID)
	require.Len(t, found.Items[0].Addons, 1)
	assert.Equal(t, "Bacon", found.Items[0].Addons[0].Name)
	assert.True(t, found.Total.Equal(price("30.00")))
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.Error(t, err)
}

func TestOrderRepository_UpdateStatus_Conditional(t *testing.T) {
	testDB := setupTestDB(t)
	pizza, _, _ := seedCatalog(t, testDB)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	order := newOrder(pizza.ID, 0, model.OrderStatusPending)
	require.NoError(t, repo.Create(ctx, order))

	changed, err := repo.UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusPreparing)
	require.NoError(t, err)
	assert.True(t, changed)

	// Stale "from" status no longer matches.
	changed, err = repo.UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusPreparing)
	require.NoError(t, err)
	assert.False(t, changed)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPreparing, found.Status)
}

func TestOrderRepository_FindCreatedBetween(t *testing.T) {
	testDB := setupTestDB(t)
	pizza, _, _ := seedCatalog(t, testDB)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newOrder(pizza.ID, 1000, model.OrderStatusPending)))
	require.NoError(t, repo.Create(ctx, newOrder(pizza.ID, 2000, model.OrderStatusReady)))
	require.NoError(t, repo.Create(ctx, newOrder(pizza.ID, 3000, model.OrderStatusDelivered)))

	orders, err := repo.FindCreatedBetween(ctx, 1000, 3000)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(1000), orders[0].CreatedAt)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3000), all[0].CreatedAt)
}
