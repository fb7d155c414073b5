package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	inventoryapp "github.com/mfgsuite/backend/internal/application/inventory"
	"github.com/mfgsuite/backend/internal/infrastructure/config"
	"github.com/mfgsuite/backend/internal/infrastructure/event"
	"github.com/mfgsuite/backend/internal/infrastructure/logger"
	"github.com/mfgsuite/backend/internal/infrastructure/persistence"
	"github.com/mfgsuite/backend/internal/infrastructure/scheduler"
	"github.com/mfgsuite/backend/internal/infrastructure/telemetry"
	"github.com/mfgsuite/backend/internal/interfaces/http/handler"
	"github.com/mfgsuite/backend/internal/interfaces/http/middleware"
	"github.com/mfgsuite/backend/internal/interfaces/http/router"
)

//	@title			Inventory Ledger API
//	@version		1.0
//	@description	Stock ledger and reservation engine for manufacturing back-office inventory

//	@contact.name	API Support
//	@contact.email	support@mfgsuite.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting inventory service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize OTEL logs bridge. When enabled, log entries are shipped to
	// the collector in addition to the configured local output.
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OTEL logger provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down OTEL logger provider", zap.Error(err))
		}
	}()
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          zapcore.InfoLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore, zap.AddCaller())
	}

	// Initialize tracing
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize metrics
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Initialize continuous profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Telemetry.ProfilerEnabled,
		ServerAddress:       cfg.Telemetry.ProfilerServerAddress,
		ApplicationName:     cfg.Telemetry.ServiceName,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database observability plugins
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTracingEnabled,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Initialize repositories
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	ledgerRepo := persistence.NewGormStockTransactionRepository(db.DB)
	batchRepo := persistence.NewGormBatchRecordRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	cycleCountRepo := persistence.NewGormCycleCountRepository(db.DB)
	transferRepo := persistence.NewGormStockTransferRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	stockService := inventoryapp.NewStockService(txScope, itemRepo, ledgerRepo)
	receiptService := inventoryapp.NewGoodsReceiptService(txScope)
	batchService := inventoryapp.NewBatchService(itemRepo, batchRepo)
	locationService := inventoryapp.NewLocationService(txScope)
	cycleCountService := inventoryapp.NewCycleCountService(txScope, cycleCountRepo)
	transferService := inventoryapp.NewTransferService(txScope, transferRepo)
	replenishmentService := inventoryapp.NewReplenishmentService(itemRepo, alertRepo)
	valuationService := inventoryapp.NewValuationService(itemRepo, ledgerRepo)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Safety-stock breach -> open or refresh a stock alert
	safetyStockAlertHandler := inventoryapp.NewSafetyStockAlertHandler(itemRepo, alertRepo)
	eventBus.Subscribe(safetyStockAlertHandler)

	log.Info("Event handlers registered",
		zap.Strings("safety_stock_alert_events", safetyStockAlertHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish domain events
	stockService.SetEventPublisher(eventBus)
	receiptService.SetEventPublisher(eventBus)
	locationService.SetEventPublisher(eventBus)
	cycleCountService.SetEventPublisher(eventBus)
	transferService.SetEventPublisher(eventBus)

	// Business metrics for the stock ledger
	if meterProvider.IsEnabled() {
		stockMetrics, err := telemetry.NewStockMetrics(telemetry.StockMetricsConfig{
			Meter:             meterProvider.Meter("inventory.stock"),
			Logger:            log,
			InventoryProvider: telemetry.NewGormInventoryMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize stock metrics", zap.Error(err))
		}
		stockMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
		defer stockMetrics.Stop()

		stockService.SetMetricsRecorder(stockMetrics)
		safetyStockAlertHandler.SetMetricsRecorder(stockMetrics)
	}

	// Initialize stock monitor scheduler (reorder-alert scan + batch expiry refresh)
	if cfg.Scheduler.Enabled {
		monitorConfig := scheduler.StockMonitorConfig{
			Enabled:             cfg.Scheduler.Enabled,
			ReorderScanInterval: cfg.Scheduler.ReorderScanInterval,
			ExpiryScanInterval:  cfg.Scheduler.ExpiryScanInterval,
			JobTimeout:          cfg.Scheduler.JobTimeout,
		}
		stockMonitor := scheduler.NewStockMonitorScheduler(monitorConfig, replenishmentService, batchService, log)
		if err := stockMonitor.Start(ctx); err != nil {
			log.Fatal("Failed to start stock monitor scheduler", zap.Error(err))
		}
		defer func() {
			if err := stockMonitor.Stop(context.Background()); err != nil {
				log.Error("Error stopping stock monitor scheduler", zap.Error(err))
			}
		}()
		log.Info("Stock monitor scheduler started",
			zap.Duration("reorder_scan_interval", cfg.Scheduler.ReorderScanInterval),
			zap.Duration("expiry_scan_interval", cfg.Scheduler.ExpiryScanInterval),
		)
	}

	// Initialize HTTP handlers
	itemHandler := handler.NewItemHandler(stockService)
	stockHandler := handler.NewStockHandler(stockService, receiptService)
	batchHandler := handler.NewBatchHandler(batchService)
	locationHandler := handler.NewLocationHandler(locationService)
	cycleCountHandler := handler.NewCycleCountHandler(cycleCountService)
	transferHandler := handler.NewTransferHandler(transferService)
	replenishmentHandler := handler.NewReplenishmentHandler(replenishmentService)
	reportHandler := handler.NewReportHandler(valuationService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Create spans, mark error responses
	// 5. Metrics - Record HTTP metrics
	// 6. Profiling - Attach Pyroscope labels
	// 7. Security - Add security headers
	// 8. CORS - Handle cross-origin requests
	// 9. BodyLimit - Limit request body size
	// 10. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       meterProvider.IsEnabled(),
	}))
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Inventory domain
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "inventory service ready"})
	})

	// Item master data and inquiry
	inventoryRoutes.POST("/items", itemHandler.Create)
	inventoryRoutes.GET("/items", itemHandler.List)
	inventoryRoutes.GET("/items/lookup", itemHandler.Lookup)
	inventoryRoutes.GET("/items/:id", itemHandler.GetByID)
	inventoryRoutes.PUT("/items/:id", itemHandler.UpdateMasterData)
	inventoryRoutes.DELETE("/items/:id", itemHandler.Deactivate)
	inventoryRoutes.POST("/items/:id/rebuild", itemHandler.Rebuild)
	inventoryRoutes.GET("/items/:id/transactions", itemHandler.ListTransactions)

	// Ledger operations
	inventoryRoutes.POST("/transactions", stockHandler.RecordTransaction)
	inventoryRoutes.POST("/reservations", stockHandler.ReserveOrder)
	inventoryRoutes.DELETE("/reservations/:order_type/:order_id", stockHandler.ReleaseReservation)
	inventoryRoutes.POST("/receipts", stockHandler.GoodsReceipt)

	// Batch tracking
	inventoryRoutes.POST("/batches", batchHandler.Create)
	inventoryRoutes.GET("/batches/expiring", batchHandler.Expiring)
	inventoryRoutes.GET("/items/:id/batches", batchHandler.ListByItem)
	inventoryRoutes.POST("/items/:id/batches/consume", batchHandler.Consume)

	// Rack/bin locations
	inventoryRoutes.POST("/locations/assign", locationHandler.Assign)
	inventoryRoutes.POST("/locations/put-away", locationHandler.PutAway)

	// Cycle counts and adjustments
	inventoryRoutes.POST("/cycle-counts", cycleCountHandler.Create)
	inventoryRoutes.GET("/cycle-counts/:count_number", cycleCountHandler.GetByNumber)
	inventoryRoutes.POST("/adjustments", cycleCountHandler.Adjust)

	// Inter-warehouse transfers
	inventoryRoutes.POST("/transfers", transferHandler.Create)
	inventoryRoutes.GET("/transfers", transferHandler.List)
	inventoryRoutes.GET("/transfers/:id", transferHandler.GetByID)
	inventoryRoutes.POST("/transfers/:id/ship", transferHandler.Ship)
	inventoryRoutes.POST("/transfers/:id/receive", transferHandler.Receive)
	inventoryRoutes.POST("/transfers/:id/cancel", transferHandler.Cancel)

	// Replenishment monitoring
	inventoryRoutes.GET("/replenishment/below-safety-stock", replenishmentHandler.BelowSafetyStock)
	inventoryRoutes.GET("/replenishment/below-reorder-level", replenishmentHandler.BelowReorderLevel)
	inventoryRoutes.GET("/replenishment/alerts", replenishmentHandler.OpenAlerts)
	inventoryRoutes.POST("/replenishment/scan", replenishmentHandler.TriggerScan)

	// Valuation and reporting
	inventoryRoutes.GET("/reports/valuation", reportHandler.Valuation)
	inventoryRoutes.GET("/reports/movements", reportHandler.Movements)
	inventoryRoutes.GET("/reports/aging", reportHandler.Aging)

	r.Register(inventoryRoutes)

	// Register system routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
