package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/bakery/backend/internal/application/catalog"
	deliveryapp "github.com/bakery/backend/internal/application/delivery"
	inventoryapp "github.com/bakery/backend/internal/application/inventory"
	notificationapp "github.com/bakery/backend/internal/application/notification"
	partnerapp "github.com/bakery/backend/internal/application/partner"
	posapp "github.com/bakery/backend/internal/application/pos"
	productionapp "github.com/bakery/backend/internal/application/production"
	reportapp "github.com/bakery/backend/internal/application/report"
	tradeapp "github.com/bakery/backend/internal/application/trade"
	"github.com/bakery/backend/internal/infrastructure/auth"
	"github.com/bakery/backend/internal/infrastructure/cache"
	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/event"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/infrastructure/migration"
	"github.com/bakery/backend/internal/infrastructure/persistence"
	"github.com/bakery/backend/internal/infrastructure/printing"
	"github.com/bakery/backend/internal/infrastructure/resilience"
	"github.com/bakery/backend/internal/infrastructure/storage"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/bakery/backend/internal/interfaces/http/handler"
	"github.com/bakery/backend/internal/interfaces/http/middleware"
	"github.com/bakery/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	_ "github.com/bakery/backend/docs"
)

const version = "1.0.0"

//	@title			Bakery Operations API
//	@version		1.0
//	@description	Multi-tenant bakery backend: catalogue, stock, production, orders, deliveries and the point of sale.

//	@contact.name	API Support
//	@contact.email	support@bakery.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Service:     cfg.App.Name,
		Environment: cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	// Telemetry comes first so every later component logs and traces through it
	collector := telemetry.Collector{
		Endpoint:    cfg.Telemetry.CollectorEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Collector: collector,
		Enabled:   cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log = telemetry.Bridge(log, logProvider, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting bakery backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracesConfig{
		Collector:     collector,
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Collector:      collector,
		Enabled:        cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		ExportInterval: cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}
	var meter metric.Meter
	if meterProvider.IsEnabled() {
		meter = meterProvider.Meter(cfg.Telemetry.ServiceName)
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	var prom *telemetry.PrometheusMetrics
	if cfg.HTTP.MetricsEnabled {
		prom = telemetry.NewPrometheusMetrics(telemetry.PrometheusConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Namespace:   "bakery",
		})
	}

	// Database
	if cfg.Database.AutoMigrate && cfg.Database.Driver != "sqlite" {
		if err := migrateSchema(cfg.Database, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}
	gormLog := logger.NewSQLLogger(log, logger.SQLLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL && !cfg.IsProduction(),
			SlowQueryThresh: 200 * time.Millisecond,
			DBSystem:        db.Driver(),
		}, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	if prom != nil && cfg.HTTP.MetricsDBStatsCollector {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB", zap.Error(err))
		}
		if err := prom.RegisterDBStats(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	}

	// Redis backed stores, falling back to memory outside production
	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	var apiLimiter, publicLimiter gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		apiLimiter, err = middleware.RateLimit(middleware.RateLimitConfig{
			Rate:   cfg.HTTP.RateLimit,
			Prefix: "api",
			Store:  stores.Limiter,
			Logger: log,
		})
		if err != nil {
			log.Fatal("Invalid API rate limit", zap.Error(err))
		}
		publicLimiter, err = middleware.RateLimit(middleware.RateLimitConfig{
			Rate:   cfg.HTTP.PublicRateLimit,
			Prefix: "public",
			Store:  stores.Limiter,
			Logger: log,
		})
		if err != nil {
			log.Fatal("Invalid public rate limit", zap.Error(err))
		}
	}

	// Object storage for report exports and receipt PDFs
	var objectStorage *storage.Bucket
	if cfg.Storage.IsConfigured() {
		objectStorage, err = storage.NewBucket(&cfg.Storage, storage.WithLogger(log.Named("storage")))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := objectStorage.Ensure(ctx); err != nil {
			log.Warn("Object storage bucket unavailable", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	inventoryItemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	inventoryTxRepo := persistence.NewGormInventoryTransactionRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	recipeRepo := persistence.NewGormRecipeRepository(db.DB)
	productionRepo := persistence.NewGormProductionRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	sessionRepo := persistence.NewGormPOSSessionRepository(db.DB)
	posOrderRepo := persistence.NewGormPOSOrderRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewStockScope(db.DB)
	tillScope := persistence.NewTillScope(db.DB)

	// Domain events: in-process handlers plus an optional Kafka fan-out
	eventBus := event.NewInMemoryEventBus(log)

	lowStockHandler := notificationapp.NewLowStockAlertHandler(notificationRepo, cfg.App.StockAlertEmail, log)
	eventBus.Subscribe(lowStockHandler, lowStockHandler.EventTypes()...)

	var kafkaPublisher *event.KafkaPublisher
	if cfg.Kafka.Enabled {
		breakerCfg := resilience.DefaultCircuitBreakerConfig("kafka")
		if prom != nil {
			breakerCfg.OnStateChange = prom.ObserveBreakerState
		}
		opts := []event.KafkaPublisherOption{
			event.WithBreaker(resilience.NewCircuitBreaker(breakerCfg, log)),
		}
		if prom != nil {
			opts = append(opts, event.WithPublishObserver(prom.RecordEventPublished))
		}
		kafkaPublisher, err = event.NewKafkaPublisher(&cfg.Kafka, log, opts...)
		if err != nil {
			log.Fatal("Failed to initialize Kafka publisher", zap.Error(err))
		}
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Error closing Kafka publisher", zap.Error(err))
			}
		}()
		eventBus.Subscribe(kafkaPublisher)
	} else {
		eventBus.Subscribe(event.LoggingHandler(log))
	}

	// Receipts
	printerOpts := []printing.ReceiptPrinterOption{}
	if prom != nil {
		printerOpts = append(printerOpts, printing.WithBreakerStateHook(prom.ObserveBreakerState))
	}
	if cfg.Receipt.PDFEnabled {
		renderer := printing.NewChromeRenderer(printing.ChromeConfig{
			RemoteURL: cfg.Receipt.ChromeRemoteURL,
			NoSandbox: true,
			Timeout:   cfg.Receipt.RenderTimeout,
			Logger:    log.Named("chrome"),
		})
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		printerOpts = append(printerOpts, printing.WithPDFRenderer(renderer))
	}
	if objectStorage != nil {
		printerOpts = append(printerOpts, printing.WithUploader(objectStorage))
	}
	printer, err := printing.NewReceiptPrinter(printing.ReceiptPrinterConfig{
		StoreName:         cfg.App.Name,
		Currency:          cfg.Receipt.Currency,
		Locale:            cfg.Receipt.Locale,
		RenderTimeout:     cfg.Receipt.RenderTimeout,
		BreakerMaxFails:   cfg.Receipt.BreakerMaxFails,
		BreakerOpenPeriod: cfg.Receipt.BreakerOpenPeriod,
		URLExpiry:         cfg.Storage.PresignExpiry,
	}, log, printerOpts...)
	if err != nil {
		log.Fatal("Failed to initialize receipt printer", zap.Error(err))
	}

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	productService.SetCatalogCache(stores.Catalog)
	customerService := partnerapp.NewCustomerService(customerRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	warehouseService := inventoryapp.NewWarehouseService(warehouseRepo)
	inventoryService := inventoryapp.NewInventoryService(txScope, inventoryItemRepo, inventoryTxRepo, productRepo)
	orderService := tradeapp.NewOrderService(orderRepo, customerRepo, productRepo)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, supplierRepo, warehouseRepo, productRepo)
	recipeService := productionapp.NewRecipeService(recipeRepo, productRepo)
	productionService := productionapp.NewProductionService(productionRepo, recipeRepo, productRepo)
	deliveryService := deliveryapp.NewDeliveryService(deliveryRepo, orderRepo)
	notificationService := notificationapp.NewNotificationService(notificationRepo, customerRepo)
	posService := posapp.NewPOSService(tillScope, sessionRepo, posOrderRepo, receiptRepo, productRepo, stores.Idempotency, printer, log)
	posService.SetIdempotencyTTL(cfg.HTTP.IdempotencyTTL)
	reportService := reportapp.NewReportService(reportRepo, reportRepo, reportRepo)
	if objectStorage != nil {
		reportService.SetExportStorage(objectStorage)
	}

	inventoryService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	productionService.SetEventPublisher(eventBus)
	posService.SetEventPublisher(eventBus)

	if meter != nil {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:    meter,
			Logger:   log,
			LowStock: reportRepo,
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		defer businessMetrics.Stop()
		inventoryService.SetBusinessMetrics(businessMetrics)
		orderService.SetBusinessMetrics(businessMetrics)
		productionService.SetBusinessMetrics(businessMetrics)
		posService.SetBusinessMetrics(businessMetrics)
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.NewEngine(router.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Logger:      log,
		Tokens:      jwtService,
		CORS: middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		},
		TrustedProxies:   cfg.HTTP.TrustedProxies,
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		RequestTimeout:   cfg.HTTP.RequestTimeout,
		TracingEnabled:   tracerProvider.IsEnabled(),
		ProfilingEnabled: profiler.IsEnabled(),
		Prometheus:       prom,
		Meter:            meter,
		APIRateLimit:     apiLimiter,
		PublicRateLimit:  publicLimiter,
		SwaggerEnabled:   cfg.HTTP.SwaggerEnabled,
	}, router.Handlers{
		System:        handler.NewSystemHandler(cfg.App.Name, version, db),
		Customer:      handler.NewCustomerHandler(customerService),
		Supplier:      handler.NewSupplierHandler(supplierService),
		Product:       handler.NewProductHandler(productService),
		Warehouse:     handler.NewWarehouseHandler(warehouseService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Order:         handler.NewOrderHandler(orderService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
		Recipe:        handler.NewRecipeHandler(recipeService),
		Production:    handler.NewProductionHandler(productionService),
		Delivery:      handler.NewDeliveryHandler(deliveryService),
		Notification:  handler.NewNotificationHandler(notificationService),
		POS:           handler.NewPOSHandler(posService),
		Report:        handler.NewReportHandler(reportService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	// The log pipeline goes last so the other signals can still report
	if err := telemetry.ShutdownAll(shutdownCtx, meterProvider, tracerProvider, logProvider); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited")
}

// migrateSchema applies pending migrations over its own connection, since
// closing the migrator closes the connection it was given.
func migrateSchema(cfg config.DatabaseConfig, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, cfg.MigrationsPath, log.Named("migrate"))
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()

	if err := m.Up(); err != nil {
		return err
	}
	status, err := m.Status()
	if err != nil {
		return err
	}
	if status.Dirty {
		return fmt.Errorf("schema version %d is dirty", status.Version)
	}
	return nil
}
