package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/config"
	"github.com/imperiopizzas/imperio-backend/internal/app/cartstore"
	"github.com/imperiopizzas/imperio-backend/internal/app/controller"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	"github.com/imperiopizzas/imperio-backend/internal/db"
	"github.com/imperiopizzas/imperio-backend/internal/events"
	"github.com/imperiopizzas/imperio-backend/internal/metrics"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
	"github.com/imperiopizzas/imperio-backend/internal/router"
	"github.com/imperiopizzas/imperio-backend/internal/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode, Environment: "test", Timezone: "UTC"},
		Session: config.SessionConfig{
			Secret:           "test-secret",
			OriginCookieName: "order_origin",
			OriginTokenTTL:   time.Hour,
			CartCookieName:   "cart_session",
		},
		Restaurant: config.RestaurantConfig{
			Name:               "Imperio Pizzas",
			DeliveryFee:        decimal.RequireFromString("8.00"),
			WhatsAppPhone:      "5511999990000",
			OriginExcludedPath: []string{"/admin", "/api", "/order"},
		},
	}
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	require.NoError(t, db.SeedDemoData(testDB))

	productRepo := repository.NewProductRepository(testDB)
	tableRepo := repository.NewTableRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	store := cartstore.NewMemoryStore()
	hub := websocket.NewHub()

	productService := service.NewProductService(productRepo, tableRepo)
	originService := service.NewOriginService(tableRepo, cfg.Restaurant.OriginExcludedPath)
	cartService := service.NewCartService(store, productRepo)
	orderService := service.NewOrderService(service.OrderServiceDeps{
		OrderRepo:   orderRepo,
		ProductRepo: productRepo,
		TableRepo:   tableRepo,
		CartStore:   store,
		Publisher:   events.Fanout{metrics.OrderRecorder{}},
		DB:          testDB,
		DeliveryFee: cfg.Restaurant.DeliveryFee,
	})

	r := router.NewRouter(
		controller.NewProductController(productService),
		controller.NewCartController(cartService),
		controller.NewOrderController(orderService, cfg.Restaurant.WhatsAppPhone),
		controller.NewSessionController(),
		controller.NewDashboardController(service.NewDashboardService(orderRepo, tableRepo, time.UTC)),
		controller.NewReportController(service.NewReportService(orderRepo, time.UTC)),
		controller.NewUploadController(nil),
		controller.NewWebSocketController(hub, nil),
		middleware.NewOriginMiddleware(originService, &cfg.Session),
		cfg,
	)

	return &TestServer{Router: r.Setup(), DB: testDB, Config: cfg}
}

// client keeps cookies between requests like a browser tab.
type client struct {
	t       *testing.T
	server  *TestServer
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, server *TestServer) *client {
	return &client{t: t, server: server, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(c.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.server.Router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *client) json(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (c *client) order(id string) *model.Order {
	order, err := repository.NewOrderRepository(c.server.DB).FindByID(context.Background(), id)
	require.NoError(c.t, err)
	return order
}

func TestIntegration_TableOrderLifecycle(t *testing.T) {
	server := setupIntegrationTest(t)
	tab := newClient(t, server)

	// Scanning the QR code binds the session to table 3.
	w := tab.do(http.MethodGet, "/m3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, tab.cookies, "order_origin")
	origin := tab.json(w)["origin"].(map[string]interface{})
	assert.Equal(t, "internal", origin["type"])
	assert.Equal(t, 3.0, origin["table_number"])

	// Later pages keep the assignment.
	w = tab.do(http.MethodGet, "/api/session/origin", nil)
	assert.Equal(t, true, tab.json(w)["assigned"])

	w = tab.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 3)

	w = tab.do(http.MethodPost, "/api/cart/items", map[string]interface{}{
		"slug":     "pizza-calabresa",
		"size":     "Grande",
		"flavor":   "Borda recheada",
		"addons":   []string{"Bacon"},
		"quantity": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 67.9, tab.json(w)["subtotal"])

	w = tab.do(http.MethodPost, "/api/checkout", map[string]string{"notes": "sem cebola"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := tab.json(w)["orderId"].(string)

	order := tab.order(orderID)
	assert.Equal(t, model.OrderTypeInternal, order.OrderType)
	require.NotNil(t, order.TableNumber)
	assert.Equal(t, 3, *order.TableNumber)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("67.90")))

	w = tab.do(http.MethodGet, "/api/cart", nil)
	assert.Empty(t, tab.json(w)["items"])

	staff := newClient(t, server)
	for _, status := range []string{"preparing", "ready", "delivered"} {
		w = staff.do(http.MethodPost, "/api/orders/status", map[string]string{"orderId": orderID, "status": status})
		require.Equal(t, http.StatusOK, w.Code, status)
	}
	w = staff.do(http.MethodPost, "/api/orders/status", map[string]string{"orderId": orderID, "status": "ready"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, model.OrderStatusDelivered, tab.order(orderID).Status)

	w = staff.do(http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dashboard := staff.json(w)
	assert.Len(t, dashboard["orders"], 1)
	assert.Equal(t, 67.9, dashboard["today_revenue"])
}

func TestIntegration_ExternalDeliveryOrder(t *testing.T) {
	server := setupIntegrationTest(t)
	customer := newClient(t, server)

	w := customer.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"order_type":       "delivery",
		"customer_name":    "Ana",
		"customer_phone":   "(11) 98888-7777",
		"customer_address": "Rua das Flores, 10",
		"items": []map[string]interface{}{
			{"product_id": 3, "product_name": "Refrigerante 2L", "quantity": 2, "addons": "[]"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := customer.json(w)["orderId"].(string)

	order := customer.order(orderID)
	assert.Equal(t, model.OrderTypeDelivery, order.OrderType)
	assert.Nil(t, order.TableID)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("36.00")))

	w = customer.do(http.MethodGet, "/api/orders/"+orderID+"/whatsapp", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(customer.json(w)["link"].(string), "https://wa.me/5511999990000?text="))
}

func TestIntegration_UnknownTableLinkDoesNotAssign(t *testing.T) {
	server := setupIntegrationTest(t)
	visitor := newClient(t, server)

	w := visitor.do(http.MethodGet, "/m99", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, visitor.cookies, "order_origin")

	w = visitor.do(http.MethodGet, "/api/session/origin", nil)
	body := visitor.json(w)
	assert.Equal(t, false, body["assigned"])
	assert.Equal(t, "external", body["origin"].(map[string]interface{})["type"])

	w = visitor.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegration_HealthAndMetrics(t *testing.T) {
	server := setupIntegrationTest(t)
	c := newClient(t, server)

	w := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", c.json(w)["status"])

	w = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "imperio_http_requests_total")
}
