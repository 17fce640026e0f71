package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	apperrors "github.com/imperiopizzas/imperio-backend/internal/errors"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint     `json:"productId"`
	Slug      string   `json:"slug"`
	Size      string   `json:"size"`
	Flavor    string   `json:"flavor"`
	Addons    []string `json:"addons"`
	Quantity  int      `json:"quantity"`
}

// UpdateCartItemRequest either adjusts by Delta or sets Quantity outright.
type UpdateCartItemRequest struct {
	Delta    *int `json:"delta"`
	Quantity *int `json:"quantity"`
}

// GetCart returns the session cart
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.cartService.GetCart(c.Request.Context(), middleware.GetCartSession(c))
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch cart", err)
		apperrors.InternalError(c, "Failed to fetch cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem prices a product configuration and appends it to the cart
// POST /api/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidBody(c, err)
		return
	}
	if req.ProductID == 0 && req.Slug == "" {
		apperrors.RespondWithValidationError(c, map[string]string{"productId": "productId or slug is required"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := ctrl.cartService.AddItem(c.Request.Context(), middleware.GetCartSession(c), service.AddCartItemInput{
		ProductID: req.ProductID,
		Slug:      req.Slug,
		Options: service.OptionChoice{
			Size:   req.Size,
			Flavor: req.Flavor,
			Addons: req.Addons,
		},
		Quantity: req.Quantity,
	})
	if err != nil {
		ctrl.respondCartError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusCreated, cart)
}

// UpdateItem changes an item's quantity
// PATCH /api/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cart update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidBody(c, err)
		return
	}

	ctx := c.Request.Context()
	sessionID := middleware.GetCartSession(c)
	itemID := c.Param("id")

	var err error
	var cart *model.Cart
	switch {
	case req.Quantity != nil:
		cart, err = ctrl.cartService.SetQuantity(ctx, sessionID, itemID, *req.Quantity)
	case req.Delta != nil:
		cart, err = ctrl.cartService.UpdateQuantity(ctx, sessionID, itemID, *req.Delta)
	default:
		apperrors.RespondWithValidationError(c, map[string]string{"quantity": "quantity or delta is required"})
		return
	}
	if err != nil {
		ctrl.respondCartError(c, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem drops one line from the cart
// DELETE /api/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	cart, err := ctrl.cartService.RemoveItem(c.Request.Context(), middleware.GetCartSession(c), c.Param("id"))
	if err != nil {
		ctrl.respondCartError(c, err, "Failed to remove cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart empties the cart
// DELETE /api/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	if err := ctrl.cartService.ClearCart(c.Request.Context(), middleware.GetCartSession(c)); err != nil {
		ctrl.respondCartError(c, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrInvalidOption):
		apperrors.RespondWithDetails(c, http.StatusBadRequest, apperrors.OptionInvalid, "Invalid product option", err)
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
	default:
		middleware.GetLoggerFromContext(c).Error(message, err)
		apperrors.InternalError(c, message, err)
	}
}
