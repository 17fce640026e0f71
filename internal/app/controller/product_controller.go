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

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// productDetailResponse flattens the product next to its default selection.
type productDetailResponse struct {
	*model.Product
	DefaultSelection service.DefaultSelected `json:"default_selection"`
}

// ListProducts returns the active menu
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.ListProducts(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch products", err)
		apperrors.InternalError(c, "Failed to fetch products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProductBySlug returns one active product with its options
// GET /api/products/:slug
func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("slug")

	detail, err := ctrl.productService.GetProductBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		apperrors.InternalError(c, "Failed to fetch product", err)
		return
	}

	c.JSON(http.StatusOK, productDetailResponse{
		Product:          detail.Product,
		DefaultSelection: detail.DefaultSelection,
	})
}

// ListTables returns the active dine-in tables
// GET /api/tables
func (ctrl *ProductController) ListTables(c *gin.Context) {
	tables, err := ctrl.productService.ListTables(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch tables", err)
		apperrors.InternalError(c, "Failed to fetch tables", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tables": tables,
		"count":  len(tables),
	})
}
