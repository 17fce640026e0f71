package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
		wantMsg  string
	}{
		{"Nil error", nil, "", InternalServerError, "Something went wrong"},
		{"Record not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), "order", ResourceNotFound, "Order not found"},
		{"Duplicate slug", fmt.Errorf(`ERROR: duplicate key value violates unique constraint "idx_products_slug"`), "product", ResourceAlreadyExists, "A product with this slug already exists"},
		{"Missing product FK", fmt.Errorf(`insert on table "order_items" violates foreign key constraint "fk_order_items_product_id"`), "create order", ProductInvalid, "The order references a product that does not exist"},
		{"Not null", fmt.Errorf(`null value in column "total" violates not-null constraint`), "create order", ValidationRequired, "A required field is missing"},
		{"Timeout", fmt.Errorf("dial tcp: i/o timeout"), "", InternalExternalAPI, "A backing service is unreachable, please try again"},
		{"Fallback", fmt.Errorf("disk full"), "create order", OrderCreateFailed, "Failed to create order"},
		{"Generic fallback", fmt.Errorf("disk full"), "update status", InternalDatabase, "Failed to update, please try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, tt.wantMsg, info.Message)
		})
	}
}

func TestRespondHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	InternalError(c, "", fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"INTERNAL_SERVER_ERROR","message":"Something went wrong, please try again","details":"boom"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	RespondWithValidationError(c, map[string]string{"customer_name": "is required"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"VALIDATION_REQUIRED","message":"Some fields are missing or invalid","fields":{"customer_name":"is required"}}`, w.Body.String())
}
