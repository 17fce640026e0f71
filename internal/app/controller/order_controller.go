package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	apperrors "github.com/imperiopizzas/imperio-backend/internal/errors"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
)

type OrderController struct {
	orderService  service.OrderService
	whatsAppPhone string
}

func NewOrderController(orderService service.OrderService, whatsAppPhone string) *OrderController {
	return &OrderController{
		orderService:  orderService,
		whatsAppPhone: whatsAppPhone,
	}
}

// OrderItemRequest mirrors a cart line as the storefront sends it. Prices
// are accepted for compatibility and ignored; the catalog decides.
type OrderItemRequest struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	SizeName    string          `json:"size_name"`
	FlavorName  string          `json:"flavor_name"`
	Addons      json.RawMessage `json:"addons"`
	Quantity    int             `json:"quantity"`
	UnitPrice   json.RawMessage `json:"unit_price,omitempty"`
	TotalPrice  json.RawMessage `json:"total_price,omitempty"`
}

type CreateOrderRequest struct {
	OrderType          string             `json:"order_type"`
	TableID            *uint              `json:"table_id"`
	TableNumber        *int               `json:"table_number"`
	CustomerName       string             `json:"customer_name"`
	CustomerPhone      string             `json:"customer_phone"`
	CustomerAddress    string             `json:"customer_address"`
	CustomerPostalCode string             `json:"customer_postal_code"`
	PaymentMethod      string             `json:"payment_method"`
	Notes              string             `json:"notes"`
	Items              []OrderItemRequest `json:"items"`
}

type CheckoutRequest struct {
	OrderType          string `json:"order_type"`
	TableID            *uint  `json:"table_id"`
	CustomerName       string `json:"customer_name"`
	CustomerPhone      string `json:"customer_phone"`
	CustomerAddress    string `json:"customer_address"`
	CustomerPostalCode string `json:"customer_postal_code"`
	PaymentMethod      string `json:"payment_method"`
	Notes              string `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// CreateOrder stores an order submitted with its items
// POST /api/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidBody(c, err)
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for i, item := range req.Items {
		addons, err := parseAddons(item.Addons)
		if err != nil {
			apperrors.RespondWithValidationError(c, map[string]string{
				fmt.Sprintf("items[%d].addons", i): err.Error(),
			})
			return
		}
		items = append(items, service.OrderItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Options: service.OptionChoice{
				Size:   item.SizeName,
				Flavor: item.FlavorName,
				Addons: addons,
			},
			Quantity: item.Quantity,
		})
	}

	input := service.CreateOrderInput{
		OrderType:          model.OrderType(req.OrderType),
		TableID:            req.TableID,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		CustomerAddress:    req.CustomerAddress,
		CustomerPostalCode: req.CustomerPostalCode,
		PaymentMethod:      req.PaymentMethod,
		Notes:              req.Notes,
		Items:              items,
	}

	order, err := ctrl.orderService.CreateOrder(c.Request.Context(), middleware.OriginOrExternal(c), input)
	if err != nil {
		ctrl.respondCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"orderId": order.ID,
	})
}

// Checkout turns the session cart into an order
// POST /api/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidBody(c, err)
		return
	}

	input := service.CreateOrderInput{
		OrderType:          model.OrderType(req.OrderType),
		TableID:            req.TableID,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		CustomerAddress:    req.CustomerAddress,
		CustomerPostalCode: req.CustomerPostalCode,
		PaymentMethod:      req.PaymentMethod,
		Notes:              req.Notes,
	}

	order, err := ctrl.orderService.Checkout(c.Request.Context(), middleware.GetCartSession(c), middleware.OriginOrExternal(c), input)
	if err != nil {
		ctrl.respondCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"orderId":  order.ID,
		"redirect": "/order/" + order.ID,
	})
}

func (ctrl *OrderController) respondCreateError(c *gin.Context, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		apperrors.RespondWithValidationError(c, validation.Fields)
	case errors.Is(err, service.ErrEmptyCart):
		apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
	case errors.Is(err, service.ErrInvalidTable):
		apperrors.BadRequest(c, apperrors.TableInvalid, "Table is not available")
	case errors.Is(err, service.ErrInvalidProduct):
		apperrors.RespondWithDetails(c, http.StatusBadRequest, apperrors.ProductInvalid, "Product is not available", err)
	case errors.Is(err, service.ErrInvalidOption):
		apperrors.RespondWithDetails(c, http.StatusBadRequest, apperrors.OptionInvalid, "Invalid product option", err)
	default:
		middleware.GetLoggerFromContext(c).Error("Failed to create order", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create order")
	}
}

// UpdateOrderStatus advances an order one step
// POST /api/orders/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidBody(c, err)
		return
	}
	fields := map[string]string{}
	if req.OrderID == "" {
		fields["orderId"] = "is required"
	}
	if req.Status == "" {
		fields["status"] = "is required"
	}
	if len(fields) > 0 {
		apperrors.RespondWithValidationError(c, fields)
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), req.OrderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidStatus):
			apperrors.RespondWithDetails(c, http.StatusBadRequest, apperrors.OrderInvalidStatus, "Invalid order status", err)
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, model.ErrIllegalTransition):
			apperrors.RespondWithDetails(c, http.StatusConflict, apperrors.OrderIllegalTransition, "Order cannot move to that status", err)
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": req.OrderID,
			})
			apperrors.InternalError(c, "Failed to update order status", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  order.Status,
	})
}

// GetOrder returns a stored order with its items
// GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	order, ok := ctrl.loadOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

// ShareOrder returns the WhatsApp message and link for an order
// GET /api/orders/:id/whatsapp
func (ctrl *OrderController) ShareOrder(c *gin.Context) {
	order, ok := ctrl.loadOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, service.ShareOrder(order, ctrl.whatsAppPhone))
}

func (ctrl *OrderController) loadOrder(c *gin.Context) (*model.Order, bool) {
	id := c.Param("id")
	order, err := ctrl.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return nil, false
		}
		middleware.GetLoggerFromContext(c).Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch order", err)
		return nil, false
	}
	return order, true
}

// parseAddons accepts addon names as an array of strings, an array of
// {"name": ...} objects, or either of those encoded inside a JSON string.
func parseAddons(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == `""` {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, errors.New("must be a list of addons")
		}
		return parseAddons(json.RawMessage(inner))
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.New("must be a list of addons")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			names = append(names, name)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(entry, &obj); err != nil || obj.Name == "" {
			return nil, errors.New("each addon needs a name")
		}
		names = append(names, obj.Name)
	}
	return names, nil
}
