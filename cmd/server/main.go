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

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	backupapp "github.com/simpro/backend/internal/application/backup"
	catalogapp "github.com/simpro/backend/internal/application/catalog"
	financeapp "github.com/simpro/backend/internal/application/finance"
	inventoryapp "github.com/simpro/backend/internal/application/inventory"
	partnerapp "github.com/simpro/backend/internal/application/partner"
	reportapp "github.com/simpro/backend/internal/application/report"
	appsync "github.com/simpro/backend/internal/application/sync"
	tradeapp "github.com/simpro/backend/internal/application/trade"
	"github.com/simpro/backend/internal/domain/report"
	"github.com/simpro/backend/internal/infrastructure/auth"
	"github.com/simpro/backend/internal/infrastructure/cache"
	"github.com/simpro/backend/internal/infrastructure/config"
	"github.com/simpro/backend/internal/infrastructure/logger"
	"github.com/simpro/backend/internal/infrastructure/migration"
	"github.com/simpro/backend/internal/infrastructure/persistence"
	"github.com/simpro/backend/internal/infrastructure/storage"
	"github.com/simpro/backend/internal/infrastructure/telemetry"
	"github.com/simpro/backend/internal/interfaces/http/handler"
	"github.com/simpro/backend/internal/interfaces/http/middleware"
	"github.com/simpro/backend/internal/interfaces/http/router"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	baseLog, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry: logs bridge first so every later component logs through it
	collector := telemetry.Collector{
		Endpoint:       cfg.Telemetry.CollectorEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
	}
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Collector: collector,
		Enabled:   cfg.Telemetry.LogsEnabled,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := logsProvider.Bridge(baseLog, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting SIM back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal("Invalid business time zone", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServer,
		ApplicationName: cfg.Telemetry.ServiceName,
		Tags:            map[string]string{"env": cfg.App.Env, "version": version},
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracingConfig{
		Collector:     collector,
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	if profiler.IsRunning() {
		tracerProvider.EnableSpanProfiles()
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Collector:      collector,
		Enabled:        cfg.Telemetry.MetricsEnabled,
		ExportInterval: cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	defer func() {
		flushCtx := context.Background()
		if err := meterProvider.Shutdown(flushCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(flushCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
		if err := logsProvider.Shutdown(flushCtx); err != nil {
			baseLog.Error("Error shutting down log exporter", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewSQLLogger(log, logger.SQLLevel(cfg.Log.Level), logger.SlowAfter(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        dbSystem,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if err := migrateSchema(cfg, db, log); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}
	log.Info("Database ready", zap.String("driver", dbSystem))

	// Shared state: Redis when enabled, process-local otherwise
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
	}
	state := cache.NewSharedState(redisClient, log)
	defer func() {
		_ = state.RequestKeys.Close()
	}()

	// Repositories
	dataRepo := persistence.NewGormAccountDataRepository(db.DB)
	simTypeRepo := persistence.NewGormSimTypeRepository(db.DB)
	simPackageRepo := persistence.NewGormSimPackageRepository(db.DB)
	saleOrderRepo := persistence.NewGormSaleOrderRepository(db.DB)
	dueDateLogRepo := persistence.NewGormDueDateLogRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	restoreRunRepo := persistence.NewGormRestoreRunRepository(db.DB)

	businessMetrics, err := telemetry.NewBusinessMetrics(
		meterProvider.Meter("simpro/business"),
		telemetry.NewGormRecordCounter(db.DB),
		log,
	)
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}
	defer func() {
		_ = businessMetrics.Stop()
	}()

	// Snapshot synchronization
	syncer := appsync.NewSynchronizer(dataRepo, state.Feed, log,
		appsync.WithIdleTimeout(cfg.App.SnapshotIdleTimeout),
	)
	evictCtx, stopEviction := context.WithCancel(ctx)
	go syncer.Run(evictCtx, cfg.App.SnapshotIdleTimeout/4)
	defer func() {
		stopEviction()
		if err := syncer.StopAll(); err != nil {
			log.Error("Error stopping synchronizer", zap.Error(err))
		}
	}()
	notifier := appsync.NewNotifier(state.Feed, log,
		appsync.WithLocalSync(syncer),
		appsync.WithChangeMetrics(businessMetrics),
	)

	// Backup storage
	backupOpts := []backupapp.Option{
		backupapp.WithLocation(loc),
		backupapp.WithRestoreMetrics(businessMetrics),
	}
	if cfg.Storage.Enabled {
		store, err := storage.NewS3BackupStore(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize backup storage", zap.Error(err))
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare backup bucket", zap.String("bucket", store.GetBucket()), zap.Error(err))
		}
		backupOpts = append(backupOpts, backupapp.WithStore(store, cfg.Storage.Prefix))
		log.Info("Backup storage enabled", zap.String("bucket", store.GetBucket()))
	}

	// Application services
	thresholds := report.DefaultDashboardThresholds()
	thresholds.Debt7DaysAlert = decimal.NewFromFloat(cfg.Business.Debt7DaysAlert)
	thresholds.PayableAlert = decimal.NewFromFloat(cfg.Business.PayableAlert)
	thresholds.AgingDays = cfg.Business.AgingDays

	simTypeService := catalogapp.NewSimTypeService(simTypeRepo, notifier)
	simPackageService := inventoryapp.NewSimPackageService(simPackageRepo, transactionRepo, notifier)
	saleOrderService := tradeapp.NewSaleOrderService(saleOrderRepo, dueDateLogRepo, customerRepo, transactionRepo, notifier, businessMetrics)
	transactionService := financeapp.NewTransactionService(transactionRepo, notifier, businessMetrics)
	customerService := partnerapp.NewCustomerService(customerRepo, syncer, notifier, loc)
	reportService := reportapp.NewReportService(syncer, thresholds, loc)
	backupService := backupapp.NewService(dataRepo, restoreRunRepo, notifier, backupOpts...)

	// Handlers
	checks := map[string]handler.PingFunc{"database": db.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	handlers := router.Handlers{
		SimTypes:     handler.NewSimTypeHandler(simTypeService),
		SimPackages:  handler.NewSimPackageHandler(simPackageService),
		SaleOrders:   handler.NewSaleOrderHandler(saleOrderService),
		Transactions: handler.NewTransactionHandler(transactionService),
		Customers:    handler.NewCustomerHandler(customerService),
		Reports:      handler.NewReportHandler(reportService),
		Data:         handler.NewDataHandler(backupService),
		Changes:      handler.NewChangeHandler(state.Feed, cfg.HTTP.CORSAllowOrigins, log),
		Health:       handler.NewHealthHandler(cfg.App.Name, version, checks),
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Meter:   meterProvider.Meter("simpro/http"),
		Enabled: cfg.Telemetry.MetricsEnabled,
	})
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.AccessLog(log, logger.SkipPaths("/health/live")))
	engine.Use(httpMetrics)
	engine.Use(middleware.Profiling(middleware.ProfilingConfig{
		Enabled:   cfg.Telemetry.ProfilingEnabled,
		SkipPaths: []string{"/health", "/health/live"},
	}))
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimitWithUploads(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize))

	var tokens *auth.TokenService
	if cfg.JWT.Enabled {
		tokens = auth.NewTokenService(cfg.JWT)
	} else {
		log.Warn("JWT disabled, accounts are taken from the " + middleware.AccountIDHeader + " header")
	}

	router.RegisterHealth(engine, handlers.Health)
	router.NewRouter(engine, router.WithMiddleware(
		middleware.AccountAuth(middleware.AccountAuthConfig{
			Tokens:      tokens,
			AllowHeader: !cfg.JWT.Enabled,
			Logger:      log,
		}),
		middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  state.RequestKeys,
			Logger: log,
		}),
	)).Register(router.DomainGroups(handlers)...).Setup()

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

// migrateSchema applies the embedded SQL migrations on Postgres and the model
// schema on sqlite. The migrator gets its own connection because closing it
// closes the connection it was given.
func migrateSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver == "sqlite" {
		return db.AutoMigrate()
	}

	conn, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	m, err := migration.New(conn, log)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() {
		_ = m.Close()
	}()
	return m.Up()
}
