package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imperiopizzas/imperio-backend/config"
	"github.com/imperiopizzas/imperio-backend/internal/app/cartstore"
	"github.com/imperiopizzas/imperio-backend/internal/app/controller"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	"github.com/imperiopizzas/imperio-backend/internal/db"
	"github.com/imperiopizzas/imperio-backend/internal/events"
	"github.com/imperiopizzas/imperio-backend/internal/metrics"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
	"github.com/imperiopizzas/imperio-backend/internal/router"
	"github.com/imperiopizzas/imperio-backend/internal/scheduler"
	"github.com/imperiopizzas/imperio-backend/internal/storage"
	"github.com/imperiopizzas/imperio-backend/internal/websocket"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"github.com/imperiopizzas/imperio-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Imperio Pizzas backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"timezone":    cfg.Server.Timezone,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Carts live in Redis when configured, otherwise in process memory.
	var cartStore cartstore.Store = cartstore.NewMemoryStore()
	if cfg.Redis.Host != "" {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, keeping carts in memory", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cartStore = cartstore.NewRedisStore(redis.GetClient(), cfg.Redis.CartTTL)
			defer redis.Close()
		}
	}

	// Order events: live websockets, metrics and optionally Kafka.
	hub := websocket.NewHub()
	go hub.Run(ctx)

	publishers := events.Fanout{hub, metrics.OrderRecorder{}}
	if cfg.Kafka.Enabled() {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		logger.Info("Publishing order events to Kafka", map[string]interface{}{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.Topic,
		})
	}

	loc := cfg.Server.Location()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	tableRepo := repository.NewTableRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	productService := service.NewProductService(productRepo, tableRepo)
	originService := service.NewOriginService(tableRepo, cfg.Restaurant.OriginExcludedPath)
	cartService := service.NewCartService(cartStore, productRepo)
	orderService := service.NewOrderService(service.OrderServiceDeps{
		OrderRepo:   orderRepo,
		ProductRepo: productRepo,
		TableRepo:   tableRepo,
		CartStore:   cartStore,
		Publisher:   publishers,
		DB:          db.GetDB(),
		DeliveryFee: cfg.Restaurant.DeliveryFee,
	})
	dashboardService := service.NewDashboardService(orderRepo, tableRepo, loc)
	reportService := service.NewReportService(orderRepo, loc)

	var s3Storage *storage.S3Storage
	if cfg.S3.Enabled() {
		s3Storage = storage.NewS3Storage(ctx, &cfg.S3)
	}

	if cfg.Report.Enabled && s3Storage != nil {
		reportScheduler := scheduler.NewReportScheduler(cfg.Report.Schedule, reportService, s3Storage)
		if err := reportScheduler.Start(); err != nil {
			logger.Error("Failed to start report scheduler", err)
		} else {
			defer reportScheduler.Stop()
		}
	}

	// Initialize controllers
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService, cfg.Restaurant.WhatsAppPhone)
	sessionController := controller.NewSessionController()
	dashboardController := controller.NewDashboardController(dashboardService)
	reportController := controller.NewReportController(reportService)
	uploadController := controller.NewUploadController(s3Storage)
	wsController := controller.NewWebSocketController(hub, cfg.CORS.AllowedOrigins)

	originMiddleware := middleware.NewOriginMiddleware(originService, &cfg.Session)

	r := router.NewRouter(
		productController,
		cartController,
		orderController,
		sessionController,
		dashboardController,
		reportController,
		uploadController,
		wsController,
		originMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	cancel()

	logger.Info("Server stopped successfully")
}
