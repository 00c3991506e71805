package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	eventapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/event"
	inventoryapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/inventory"
	partnerapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/partner"
	tradeapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/auth"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/cache"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/config"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/event"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/lock"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/logger"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/persistence"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/telemetry"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/interfaces/http/handler"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//	@title			Invoicing API
//	@version		1.0
//	@description	Multi-tenant invoicing: tax and totals, invoice numbering, stock ledger and payments

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs exporter", zap.Error(err))
	}
	defer shutdown(log, "logger provider", logsProvider.Shutdown)
	log = logsProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting invoicing core",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Telemetry
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
	defer shutdown(log, "tracer provider", tracerProvider.Shutdown)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServer,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileContention: cfg.Telemetry.ProfilingContention,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Profiler stop failed", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdown(log, "meter provider", meterProvider.Shutdown)
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if cfg.Database.Driver == "sqlite" {
		// postgres schemas come from cmd/migrate
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	historyRepo := persistence.NewGormInventoryHistoryRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)
	sequenceRepo := persistence.NewGormInvoiceSequenceRepository(db.DB)

	taxTable, err := taxTableFromConfig(cfg.Tax)
	if err != nil {
		log.Fatal("Invalid tax configuration", zap.Error(err))
	}

	eventSerializer := event.NewInvoiceEventSerializer()
	outboxPublisher := event.NewOutboxPublisher(eventSerializer, cfg.Event.MaxRetries)
	ledger := inventoryapp.NewStockLedger(log)

	businessMetrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Services
	invoiceService := tradeapp.NewInvoiceService(
		persistence.NewGormTransactionScope(db.DB),
		invoiceRepo,
		ledger,
		taxTable,
		outboxPublisher,
		log,
		tradeapp.InvoiceServiceConfig{
			AllowNegativeStockOnUpdate: cfg.Invoice.AllowNegativeStockOnUpdate,
			IdempotencyTTL:             cfg.Invoice.IdempotencyTTL,
		},
	)
	invoiceService.SetBusinessMetrics(businessMetrics)
	productService := inventoryapp.NewProductService(persistence.NewGormLedgerScope(db.DB), productRepo, historyRepo, ledger, log)
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Idempotency store: Redis when enabled, otherwise per process
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	invoiceService.SetIdempotencyStore(idempotencyStore)

	// Redis backed locking and numbering
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()

		locker := lock.NewRedisInvoiceLocker(redisClient, log)
		locker.SetTTL(cfg.Invoice.LockTTL)
		invoiceService.SetLocker(locker)

		if cfg.Numbering.Backend == config.NumberingBackendRedis {
			invoiceService.SetSequence(cache.NewRedisInvoiceSequence(redisClient, sequenceRepo.Used))
			log.Info("Invoice numbers allocated from Redis")
		}
	} else {
		invoiceService.SetLocker(lock.NewLocalInvoiceLocker())
	}

	// Event bus and outbox processor
	eventBus := event.NewInMemoryEventBus(log)
	notificationHandler := event.NewIdempotentHandler(
		tradeapp.NewInvoiceNotificationHandler(tradeapp.NewLogNotifier(log), log),
		idempotencyStore,
		cfg.Invoice.IdempotencyTTL,
		log,
	)
	eventBus.Subscribe(notificationHandler)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer shutdown(log, "event bus", eventBus.Stop)

	if cfg.Event.ProcessorEnabled {
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer,
			event.OutboxProcessorConfigFrom(cfg.Event), log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer shutdown(log, "outbox processor", outboxProcessor.Stop)
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var jwtService *auth.JWTService
	if cfg.JWT.Secret != "" {
		jwtService = auth.NewJWTService(cfg.JWT)
	}

	system := handler.NewSystemHandler(cfg.App.Name, version).AddCheck("database", db.HealthCheck)
	if redisClient != nil {
		system.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	engine, err := router.NewEngine(router.EngineDeps{
		Config:     cfg,
		Logger:     log,
		Meter:      meter,
		JWTService: jwtService,
		Health:     system.Health,
		Registrars: []router.RouteRegistrar{
			handler.NewInvoiceHandler(invoiceService),
			handler.NewProductHandler(productService),
			handler.NewCustomerHandler(customerService),
			handler.NewOutboxHandler(outboxService),
		},
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// taxTableFromConfig converts the configured percentages into the invoice tax table
func taxTableFromConfig(cfg config.TaxConfig) (*trade.TaxTable, error) {
	if len(cfg.Rates) == 0 {
		return trade.NewStandardTaxTable(), nil
	}
	rates := make(map[string]trade.TaxRates, len(cfg.Rates))
	for category, r := range cfg.Rates {
		rates[category] = trade.TaxRates{
			CGST: decimal.NewFromFloat(r.CGST),
			SGST: decimal.NewFromFloat(r.SGST),
		}
	}
	return trade.NewTaxTable(rates, cfg.DefaultCategory)
}

func shutdown(log *zap.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		log.Error("Error stopping "+name, zap.Error(err))
	}
}
