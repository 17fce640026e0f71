package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartControllerTest(t *testing.T) (*controllerFixture, *gin.Engine) {
	f := setupControllerFixture(t)
	ctrl := NewCartController(service.NewCartService(f.store, f.productRepo))

	router := newRouter(nil)
	router.GET("/api/cart", ctrl.GetCart)
	router.POST("/api/cart/items", ctrl.AddItem)
	router.PATCH("/api/cart/items/:id", ctrl.UpdateItem)
	router.DELETE("/api/cart/items/:id", ctrl.RemoveItem)
	router.DELETE("/api/cart", ctrl.ClearCart)
	return f, router
}

func TestCartController_Flow(t *testing.T) {
	_, router := setupCartControllerTest(t)

	w := doJSON(router, http.MethodPost, "/api/cart/items", map[string]interface{}{
		"slug":     "margherita",
		"size":     "Large",
		"addons":   []string{"Bacon"},
		"quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	session := cookieNamed(w, testCartCookie)
	require.NotNil(t, session)

	cart := decodeMap(t, w)
	items := cart["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, 48.0, line["unitPrice"])
	assert.Equal(t, 96.0, line["totalPrice"])
	assert.Equal(t, 96.0, cart["subtotal"])
	itemID := line["id"].(string)

	w = doJSON(router, http.MethodPatch, "/api/cart/items/"+itemID, map[string]int{"delta": -1}, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 48.0, decodeMap(t, w)["subtotal"])

	w = doJSON(router, http.MethodPatch, "/api/cart/items/"+itemID, map[string]int{"quantity": 3}, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decodeMap(t, w)["itemCount"])

	w = doJSON(router, http.MethodDelete, "/api/cart/items/"+itemID, nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeMap(t, w)["items"])
}

func TestCartController_SessionsAreIsolated(t *testing.T) {
	_, router := setupCartControllerTest(t)

	w := doJSON(router, http.MethodPost, "/api/cart/items", map[string]interface{}{"slug": "soda"})
	require.Equal(t, http.StatusCreated, w.Code)

	// A request without the cookie gets a fresh session and an empty cart.
	w = doJSON(router, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeMap(t, w)["items"])
}

func TestCartController_Errors(t *testing.T) {
	_, router := setupCartControllerTest(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"missing product", http.MethodPost, "/api/cart/items", map[string]int{"quantity": 1}, http.StatusBadRequest, "VALIDATION_REQUIRED"},
		{"unknown product", http.MethodPost, "/api/cart/items", map[string]string{"slug": "calzone"}, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"unknown size", http.MethodPost, "/api/cart/items", map[string]string{"slug": "margherita", "size": "Huge"}, http.StatusBadRequest, "PRODUCT_OPTION_INVALID"},
		{"malformed body", http.MethodPost, "/api/cart/items", "{", http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
		{"unknown item", http.MethodPatch, "/api/cart/items/nope", map[string]int{"delta": 1}, http.StatusNotFound, "CART_ITEM_NOT_FOUND"},
		{"no change requested", http.MethodPatch, "/api/cart/items/nope", map[string]int{}, http.StatusBadRequest, "VALIDATION_REQUIRED"},
		{"remove unknown item", http.MethodDelete, "/api/cart/items/nope", nil, http.StatusNotFound, "CART_ITEM_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeMap(t, w)["error"])
		})
	}
}

func TestCartController_ClearCart(t *testing.T) {
	_, router := setupCartControllerTest(t)

	w := doJSON(router, http.MethodPost, "/api/cart/items", map[string]interface{}{"slug": "soda", "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	session := cookieNamed(w, testCartCookie)

	w = doJSON(router, http.MethodDelete, "/api/cart", nil, session)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/cart", nil, session)
	assert.Empty(t, decodeMap(t, w)["items"])
	assert.Equal(t, 0.0, decodeMap(t, w)["subtotal"])
}
