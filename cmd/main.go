package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"stocklens/internal/backend"
	"stocklens/internal/catalog"
	"stocklens/internal/config"
	"stocklens/internal/gateway"
	"stocklens/internal/handlers"
	"stocklens/internal/idempotency"
	"stocklens/internal/jobs"
	"stocklens/internal/locations"
	"stocklens/internal/quotes"
	"stocklens/internal/session"
)

const version = "1.0.0"

func main() {
	cfg := config.Default()
	if configFile := os.Getenv("CONFIG_FILE"); configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Env overrides for deployment
	if v := os.Getenv("UPSTREAM_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("UPSTREAM_TOKEN"); v != "" {
		cfg.Upstream.Token = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Invalid port %s: %v", v, err)
		}
		cfg.Server.Port = port
	}

	if cfg.Upstream.BaseURL == "" {
		log.Fatal("UPSTREAM_URL environment variable is required")
	}
	if cfg.Server.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// Upstream client. A 401 anywhere means the session is dead; the
	// identity provider owns the actual invalidation, we just log it.
	apiClient := backend.NewClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.Token,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second,
		func() {
			log.Printf("Upstream rejected credentials, session invalidated")
		},
	)

	// Shared state: quote cache and catalog are per-instance, injected
	// everywhere, never package globals.
	quoteCache := quotes.NewCache(apiClient)
	itemCatalog := catalog.New(apiClient)

	var idemStore idempotency.Store
	idemTTL := time.Duration(cfg.Jobs.IdempotencyTTLSeconds) * time.Second
	if cfg.Redis.Addr != "" {
		idemStore = idempotency.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, idemTTL)
	} else {
		log.Printf("REDIS_ADDR not set, using in-memory idempotency store")
		idemStore = idempotency.NewMemoryStore(idemTTL)
	}

	gw := gateway.New(quoteCache, itemCatalog, idemStore)
	coordinator := locations.NewCoordinator(gw, apiClient)

	// Handlers
	itemHandlers := handlers.NewItemHandlers(apiClient, gw, itemCatalog, quoteCache)
	supplierProductHandlers := handlers.NewSupplierProductHandlers(apiClient, gw)
	locationHandlers := handlers.NewLocationHandlers(apiClient, gw, coordinator)
	batchHandlers := handlers.NewBatchHandlers(apiClient, gw)
	adjustmentHandlers := handlers.NewAdjustmentHandlers(apiClient, gw)
	refreshHandlers := handlers.NewRefreshHandlers(quoteCache, itemCatalog)

	// Warm the catalog; a failed initial fetch is not fatal, the first
	// refresh fills it in.
	if err := itemCatalog.Refresh(context.Background()); err != nil {
		log.Printf("Initial catalog fetch failed: %v", err)
	}

	scheduler, err := jobs.NewScheduler(quoteCache, itemCatalog,
		time.Duration(cfg.Jobs.RefreshIntervalMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", handlers.HealthCheck)

	// Protected routes (require a session token)
	v1 := e.Group("/v1")
	v1.Use(session.Middleware(cfg.Server.JWTSecret))

	v1.GET("/capabilities", handlers.Capabilities)

	v1.GET("/items", itemHandlers.ListItems)
	v1.POST("/items", itemHandlers.CreateItem)
	v1.POST("/items/with-quote", itemHandlers.CreateItemWithQuote)
	v1.GET("/items/:item/suppliers", itemHandlers.GetItemSuppliers)
	v1.GET("/items/:item/best-supplier", itemHandlers.GetBestSupplier)
	v1.PUT("/items/:item", itemHandlers.UpdateItem)
	v1.DELETE("/items/:item", itemHandlers.DeleteItem)

	v1.POST("/supplier-products", supplierProductHandlers.Create)
	v1.PUT("/supplier-products/:id", supplierProductHandlers.Update)
	v1.DELETE("/supplier-products/:id", supplierProductHandlers.Delete)

	v1.POST("/item-locations", locationHandlers.AssignLocation)
	v1.POST("/locations", locationHandlers.CreateLocation)
	v1.PUT("/locations/:id", locationHandlers.UpdateLocation)
	v1.DELETE("/locations/:id", locationHandlers.DeleteLocation)

	v1.POST("/batches", batchHandlers.Create)
	v1.PUT("/batches/:id", batchHandlers.Update)
	v1.DELETE("/batches/:id", batchHandlers.Delete)

	v1.POST("/adjustments", adjustmentHandlers.Create)

	v1.POST("/refresh", refreshHandlers.Refresh)

	log.Printf("Stocklens server v%s starting on port %d", version, cfg.Server.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Server.Port)))
}
