package controller

import (
	"net/http"
	"testing"
	"time"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardController_GetDashboard(t *testing.T) {
	f := setupControllerFixture(t)
	now := time.Now()
	f.createOrder(t, now, model.OrderStatusPending)
	f.createOrder(t, now, model.OrderStatusReady)
	f.createOrder(t, now.Add(-48*time.Hour), model.OrderStatusDelivered)

	ctrl := NewDashboardController(service.NewDashboardService(f.orderRepo, f.tableRepo, time.Local))
	router := newRouter(nil)
	router.GET("/api/admin/dashboard", ctrl.GetDashboard)

	w := doJSON(router, http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeMap(t, w)
	assert.Equal(t, 1.0, body["pending_count"])
	assert.Equal(t, 0.0, body["preparing_count"])
	assert.Equal(t, 1.0, body["ready_count"])
	assert.Equal(t, 12.0, body["today_revenue"])

	orders := body["orders"].([]interface{})
	require.Len(t, orders, 3)
	assert.Equal(t, "pending", orders[0].(map[string]interface{})["status"])
	assert.Equal(t, "delivered", orders[2].(map[string]interface{})["status"])
}
