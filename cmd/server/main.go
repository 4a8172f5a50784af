package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	financeapp "github.com/tradedesk/backend/internal/application/finance"
	partnerapp "github.com/tradedesk/backend/internal/application/partner"
	tradeapp "github.com/tradedesk/backend/internal/application/trade"
	"github.com/tradedesk/backend/internal/infrastructure/cache"
	"github.com/tradedesk/backend/internal/infrastructure/config"
	"github.com/tradedesk/backend/internal/infrastructure/event"
	"github.com/tradedesk/backend/internal/infrastructure/logger"
	"github.com/tradedesk/backend/internal/infrastructure/persistence"
	"github.com/tradedesk/backend/internal/infrastructure/telemetry"
	"github.com/tradedesk/backend/internal/interfaces/http/handler"
	"github.com/tradedesk/backend/internal/interfaces/http/middleware"
	"github.com/tradedesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.ForEnvironment(cfg.App.Env)
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	providers, err := telemetry.Setup(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricInterval:    cfg.Telemetry.MetricInterval,
		ExportLogs:        cfg.Telemetry.ExportLogs,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()
	log = providers.WrapLogger(log)

	profiler, err := telemetry.StartProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.PyroscopeAddress,
		ApplicationName:   cfg.App.Name,
		BasicAuthUser:     cfg.Telemetry.PyroscopeUser,
		BasicAuthPassword: cfg.Telemetry.PyroscopePassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() { _ = profiler.Stop() }()
	profiler.LinkSpans(providers)

	log.Info("Starting trade desk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	db, err := persistence.NewDatabaseWithOptions(&cfg.Database, persistence.Options{
		Logger:   log,
		LogLevel: logger.GormLogLevel(cfg.Log.Level),
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	// postgres schemas are managed by cmd/migrate
	if cfg.Database.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	if err := telemetry.InstrumentDatabase(db.DB, telemetry.DBTracingConfig{
		Enabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTracing,
		DBSystem:      cfg.Database.Driver,
		LogFullSQL:    cfg.Telemetry.LogFullSQL,
		SlowThreshold: cfg.Database.SlowThreshold,
	}, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	statementCache, err := cache.NewStatementCacheFactory(cfg.Redis, cfg.Cache,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to create statement cache", zap.Error(err))
	}
	if closer, ok := statementCache.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormSalesInvoiceRepository(db.DB)
	shippingRepo := persistence.NewGormShippingInvoiceRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)

	// Domain events: ledger changes drop the cached statements
	eventBus := event.NewInMemoryEventBus(log)
	invalidator := financeapp.NewStatementCacheInvalidator(statementCache, log)
	eventBus.Subscribe(invalidator, invalidator.EventTypes()...)
	deskMetrics, err := telemetry.NewDeskMetrics(providers.Meter("tradedesk"))
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}
	eventBus.Subscribe(deskMetrics, deskMetrics.EventTypes()...)

	// Application services
	tradeRepos := tradeapp.OrderRepositories{
		Orders:           orderRepo,
		Clients:          clientRepo,
		Quotations:       quotationRepo,
		PurchaseOrders:   purchaseOrderRepo,
		Invoices:         invoiceRepo,
		ShippingInvoices: shippingRepo,
	}
	clientService := partnerapp.NewClientService(clientRepo, orderRepo, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, purchaseOrderRepo, log)
	orderService := tradeapp.NewOrderService(tradeRepos, log)
	quotationService := tradeapp.NewQuotationService(quotationRepo, orderRepo, supplierRepo, log)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, orderRepo, supplierRepo, log)
	invoiceService := tradeapp.NewInvoiceService(invoiceRepo, orderRepo, purchaseOrderRepo, log)
	shippingService := tradeapp.NewShippingService(shippingRepo, orderRepo, invoiceRepo, log)
	workflowService := tradeapp.NewWorkflowService(tradeRepos)
	calculatorService := tradeapp.NewCalculatorService()
	accountService := financeapp.NewAccountService(accountRepo, transactionRepo, log)
	transactionService := financeapp.NewTransactionService(transactionRepo, persistence.NewGormLedgerScope(db.DB), log)
	statementService := financeapp.NewStatementService(accountRepo, statementCache, log)

	clientService.SetEventPublisher(eventBus)
	supplierService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	quotationService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	shippingService.SetEventPublisher(eventBus)
	accountService.SetEventPublisher(eventBus)
	transactionService.SetEventPublisher(eventBus)

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	// Order matters: request ID first so every later log line carries it
	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.ServiceName = cfg.App.Name
	tracingCfg.Enabled = providers.Enabled()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(tracingCfg), middleware.SpanAttributes())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(db, version)
	engine.GET("/health", systemHandler.Health)

	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(middleware.TenantMiddlewareWithConfig(tenantCfg))
	if profiler.Running() {
		r.Use(middleware.ProfileLabels())
	}

	r.Register(handler.ClientRoutes(handler.NewClientHandler(clientService))).
		Register(handler.SupplierRoutes(handler.NewSupplierHandler(supplierService))).
		Register(handler.OrderRoutes(handler.NewOrderHandler(orderService, workflowService))).
		Register(handler.QuotationRoutes(handler.NewQuotationHandler(quotationService))).
		Register(handler.PurchaseOrderRoutes(handler.NewPurchaseOrderHandler(purchaseOrderService))).
		Register(handler.InvoiceRoutes(handler.NewInvoiceHandler(invoiceService))).
		Register(handler.ShippingRoutes(handler.NewShippingHandler(shippingService))).
		Register(handler.CalculatorRoutes(handler.NewCalculatorHandler(calculatorService))).
		Register(handler.AccountRoutes(handler.NewAccountHandler(accountService))).
		Register(handler.TransactionRoutes(handler.NewTransactionHandler(transactionService))).
		Register(handler.StatementRoutes(handler.NewStatementHandler(statementService)))

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/routes", systemHandler.ListRoutes)
	r.Register(systemRoutes)
	systemHandler.SetRouteCatalogue(r.Routes)

	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
