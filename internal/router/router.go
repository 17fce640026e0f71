package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/config"
	"github.com/imperiopizzas/imperio-backend/internal/app/controller"
	"github.com/imperiopizzas/imperio-backend/internal/metrics"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
)

type Router struct {
	productController   *controller.ProductController
	cartController      *controller.CartController
	orderController     *controller.OrderController
	sessionController   *controller.SessionController
	dashboardController *controller.DashboardController
	reportController    *controller.ReportController
	uploadController    *controller.UploadController
	wsController        *controller.WebSocketController
	originMiddleware    *middleware.OriginMiddleware
	config              *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	sessionController *controller.SessionController,
	dashboardController *controller.DashboardController,
	reportController *controller.ReportController,
	uploadController *controller.UploadController,
	wsController *controller.WebSocketController,
	originMiddleware *middleware.OriginMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:   productController,
		cartController:      cartController,
		orderController:     orderController,
		sessionController:   sessionController,
		dashboardController: dashboardController,
		reportController:    reportController,
		uploadController:    uploadController,
		wsController:        wsController,
		originMiddleware:    originMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.CartSession(r.config.Session.CartCookieName, r.config.Session.SecureCookies))
	router.Use(r.originMiddleware.Resolve())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": r.config.Restaurant.Name + " API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/session/origin", r.sessionController.GetOrigin)
		api.GET("/tables", r.productController.ListTables)

		products := api.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:slug", r.productController.GetProductBySlug)
		}

		cart := api.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PATCH("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		api.POST("/checkout", r.orderController.Checkout)

		orders := api.Group("/orders")
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.POST("/status", r.orderController.UpdateOrderStatus)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.GET("/:id/whatsapp", r.orderController.ShareOrder)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/dashboard", r.dashboardController.GetDashboard)
			admin.GET("/reports/daily", r.reportController.DownloadDailyReport)
			admin.POST("/uploads/image", r.uploadController.GeneratePresignedURL)
		}

		ws := api.Group("/ws")
		{
			ws.GET("/orders/:id", r.wsController.SubscribeOrder)
			ws.GET("/admin", r.wsController.SubscribeAdmin)
		}
	}

	// Table QR links (/m{number}) land here after the origin middleware ran.
	router.NoRoute(r.sessionController.TableLanding)

	return router
}
