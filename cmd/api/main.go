package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-household-inventory/internal/handler"
	"go-household-inventory/internal/lookup"
	"go-household-inventory/internal/middleware"
	"go-household-inventory/internal/repository"
	"go-household-inventory/internal/service"
	"go-household-inventory/internal/ws"
	"go-household-inventory/pkg/config"
	"go-household-inventory/pkg/database"
	"go-household-inventory/pkg/logger"
	"go-household-inventory/pkg/metrics"
	pkgredis "go-household-inventory/pkg/redis"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Env
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		Service: cfg.App.Name,
		Level:   cfg.App.LogLevel,
		Format:  cfg.App.LoggerFormat(),
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	// 2. Setup Database
	db, err := database.Connect(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	if cfg.DB.AutoMigrate {
		requireResource(ctx, logg, "database migration", database.AutoMigrate(db))
	}
	sqlDB, err := db.DB()
	requireResource(ctx, logg, "sql database", err)
	defer sqlDB.Close()

	// 3. Metrics and lookup provider (Redis cache is optional)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	inventoryMetrics := metrics.NewInventoryMetrics(registry)

	var provider lookup.Provider = lookup.NewMockProvider()
	if cfg.Redis.Enabled() {
		rdb, err := pkgredis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "redis unavailable, lookup cache disabled", err)
		} else {
			defer rdb.Close()
			provider = lookup.NewCachedProvider(provider, rdb, cfg.Redis.LookupCacheTTL, logg)
			logg.Info(ctx, "lookup cache enabled")
		}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(logg)
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	tagRepo := repository.NewTagRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	productService := service.NewProductService(productRepo, provider, wsHub, inventoryMetrics, logg)
	queryService := service.NewQueryService(productRepo, movementRepo, cfg.Query)
	tagService := service.NewTagService(tagRepo)
	analysisService := service.NewAnalysisService(movementRepo, tagRepo)
	purchaseService := service.NewPurchaseService(productRepo, productService)

	handlers := handler.Handlers{
		Products: handler.NewProductHandler(productService, queryService, logg),
		Tags:     handler.NewTagHandler(tagService, logg),
		Analysis: handler.NewAnalysisHandler(analysisService, logg),
		Purchase: handler.NewPurchaseHandler(purchaseService, logg),
		Health:   handler.NewHealthHandler(db, logg),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: handler.ErrorHandler(logg),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logg))

	// 7. Routes
	handler.RegisterRoutes(app.Group("/api/v1"), handlers)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		select {
		case wsHub.Register <- c:
		case <-ctx.Done():
			return
		}
		defer func() {
			select {
			case wsHub.Unregister <- c:
			case <-ctx.Done():
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "http server listening")
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			logg.Error(ctx, "http server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	logg.Info(context.Background(), "shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logg.Error(context.Background(), "server forced to shutdown", err)
	}
	logg.Info(context.Background(), "server exited")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
