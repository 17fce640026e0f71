package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/internal/app/cartstore"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	"github.com/imperiopizzas/imperio-backend/internal/db"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testCartCookie = "imperio_cart"

type controllerFixture struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	tableRepo   repository.TableRepository
	orderRepo   repository.OrderRepository
	store       *cartstore.MemoryStore

	orderService service.OrderService

	pizza *model.Product
	soda  *model.Product
	table *model.Table
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupControllerFixture(t *testing.T) *controllerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	f := &controllerFixture{
		db:          testDB,
		productRepo: repository.NewProductRepository(testDB),
		tableRepo:   repository.NewTableRepository(testDB),
		orderRepo:   repository.NewOrderRepository(testDB),
		store:       cartstore.NewMemoryStore(),
	}

	category := &model.Category{Name: "Pizzas", Position: 1}
	require.NoError(t, testDB.Create(category).Error)

	f.pizza = &model.Product{
		CategoryID: category.ID, Name: "Margherita", Slug: "margherita", BasePrice: money("30.00"), Position: 1, Active: true,
		Sizes: []model.ProductSize{
			{Name: "Medium", Price: money("35.00"), Position: 1},
			{Name: "Large", Price: money("45.00"), Position: 2},
		},
		Flavors: []model.ProductFlavor{
			{Name: "Classic", ExtraPrice: money("0.00"), Position: 1},
		},
		Addons: []model.ProductAddon{
			{Name: "Bacon", Price: money("3.00"), Position: 1},
		},
	}
	f.soda = &model.Product{CategoryID: category.ID, Name: "Soda", Slug: "soda", BasePrice: money("6.00"), Position: 2, Active: true}
	require.NoError(t, testDB.Create(f.pizza).Error)
	require.NoError(t, testDB.Create(f.soda).Error)

	f.table = &model.Table{TableNumber: 4, Active: true}
	require.NoError(t, testDB.Create(f.table).Error)

	f.orderService = service.NewOrderService(service.OrderServiceDeps{
		OrderRepo:   f.orderRepo,
		ProductRepo: f.productRepo,
		TableRepo:   f.tableRepo,
		CartStore:   f.store,
		DB:          testDB,
		DeliveryFee: money("8.00"),
	})

	gin.SetMode(gin.TestMode)
	return f
}

// newRouter returns an engine with the cart session middleware and, when
// origin is set, a fixed order origin.
func newRouter(origin *model.Origin) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CartSession(testCartCookie, false))
	if origin != nil {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.OriginKey, *origin)
			c.Next()
		})
	}
	return router
}

func (f *controllerFixture) createOrder(t *testing.T, createdAt time.Time, status model.OrderStatus) *model.Order {
	order := &model.Order{
		OrderType:   model.OrderTypePickup,
		Subtotal:    money("6.00"),
		Total:       money("6.00"),
		DeliveryFee: decimal.Zero,
		Status:      status,
		Items: []model.OrderItem{
			{ProductID: f.soda.ID, ProductName: "Soda", Quantity: 1, UnitPrice: money("6.00"), TotalPrice: money("6.00")},
		},
	}
	require.NoError(t, f.orderRepo.Create(context.Background(), order))
	require.NoError(t, f.db.Model(order).UpdateColumn("created_at", createdAt.Unix()).Error)
	order.CreatedAt = createdAt.Unix()
	return order
}

func doJSON(router http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
