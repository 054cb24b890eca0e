package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/catalog"
	orderapp "github.com/storefront/backend/internal/application/order"
	reviewapp "github.com/storefront/backend/internal/application/review"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: 200 * time.Millisecond,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Rate limit store (Redis with in-memory fallback)
	var rateLimitStore cache.RateLimitStore
	if cfg.HTTP.RateLimitEnabled {
		rateLimitStore, err = cache.NewRateLimitStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
		if err != nil {
			log.Fatal("Failed to create rate limit store", zap.Error(err))
		}
		defer rateLimitStore.Close()
	}

	// Domain event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingHandler(log))

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Pricing engine
	pricingEngine, err := order.NewPricingEngine(order.PricingConfig{
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatShippingRate:      cfg.Pricing.FlatShippingRate,
		TaxRate:               cfg.Pricing.TaxRate,
	})
	if err != nil {
		log.Fatal("Invalid pricing configuration", zap.Error(err))
	}

	// Application services
	productService := catalog.NewProductService(productRepo)
	productService.SetEventPublisher(eventBus)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, txScope, pricingEngine)
	orderService.SetEventPublisher(eventBus)
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo)
	reviewService.SetEventPublisher(eventBus)

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies configuration", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Limit:  int64(cfg.HTTP.RateLimitRequests),
			Window: cfg.HTTP.RateLimitWindow,
			Store:  rateLimitStore,
			Logger: log,
		}))
	}

	middleware.SetupValidator()

	jwtService := auth.NewJWTService(cfg.JWT)
	mw := router.Middleware{
		Auth:         middleware.Auth(jwtService),
		OptionalAuth: middleware.OptionalAuth(jwtService),
		RequireAdmin: middleware.RequireAdmin(),
	}
	handlers := router.Handlers{
		Products: handler.NewProductHandler(productService),
		Orders:   handler.NewOrderHandler(orderService),
		Reviews:  handler.NewReviewHandler(reviewService),
	}

	apiRouter := router.NewRouter(engine)
	apiRouter.Register(router.BuildAPIRoutes(handlers, mw)...)
	apiRouter.Setup()

	systemHandler := handler.NewSystemHandler()
	systemHandler.RegisterCheck("database", db.Ping)
	router.RegisterSystemRoutes(engine, systemHandler)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
