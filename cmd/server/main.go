package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	aiapp "github.com/bizgrow/backend/internal/application/ai"
	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	dashboardapp "github.com/bizgrow/backend/internal/application/dashboard"
	identityapp "github.com/bizgrow/backend/internal/application/identity"
	notificationapp "github.com/bizgrow/backend/internal/application/notification"
	orderapp "github.com/bizgrow/backend/internal/application/order"
	shoppingapp "github.com/bizgrow/backend/internal/application/shopping"
	storeapp "github.com/bizgrow/backend/internal/application/store"
	"github.com/bizgrow/backend/internal/infrastructure/ai"
	"github.com/bizgrow/backend/internal/infrastructure/auth"
	"github.com/bizgrow/backend/internal/infrastructure/cache"
	"github.com/bizgrow/backend/internal/infrastructure/config"
	"github.com/bizgrow/backend/internal/infrastructure/event"
	"github.com/bizgrow/backend/internal/infrastructure/logger"
	"github.com/bizgrow/backend/internal/infrastructure/messaging"
	"github.com/bizgrow/backend/internal/infrastructure/pdf"
	"github.com/bizgrow/backend/internal/infrastructure/persistence"
	"github.com/bizgrow/backend/internal/infrastructure/realtime"
	"github.com/bizgrow/backend/internal/infrastructure/storage"
	"github.com/bizgrow/backend/internal/infrastructure/telemetry"
	"github.com/bizgrow/backend/internal/interfaces/http/handler"
	"github.com/bizgrow/backend/internal/interfaces/http/middleware"
	"github.com/bizgrow/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/bizgrow/backend/docs"
)

//	@title			BizGrow 360 API
//	@version		1.0
//	@description	Storefront and merchant backend: stores, catalog, orders, live notifications and AI product tools.

//	@contact.name	BizGrow Engineering
//	@contact.url	https://github.com/bizgrow/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
		Version:    version,
		Env:        cfg.App.Env,
		Sample:     cfg.App.IsProduction(),
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Telemetry.ServiceVersion = version
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Once the OTLP log exporter is up, every record is teed to it
	log := bootLog
	if providers.Logs.IsEnabled() {
		log, err = logger.New(logCfg, logger.WithCore(providers.Logs.Core(logger.ParseLevel(cfg.Log.Level))))
		if err != nil {
			bootLog.Fatal("Failed to attach telemetry log core", zap.Error(err))
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting BizGrow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if err := run(ctx, cfg, providers, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, providers *telemetry.Providers, log *zap.Logger) error {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithRedactedLiterals(cfg.App.IsProduction()))

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Database tracing not registered", zap.Error(err))
	}
	log.Info("Database connected successfully")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	stores := cache.NewFactory(redisClient, log).
		CreateStores(cache.WithCategoryCacheTTL(cfg.AI.CategoryCacheTTL))

	objects, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if poolStats, err := db.StatsCollector(); err == nil {
		registry.MustRegister(poolStats)
	}

	// Repositories
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryImageRepo := persistence.NewGormCategoryImageRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	shoppingRepo := persistence.NewGormShoppingRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Live notifications fan out through Redis when several instances share a store
	hub := realtime.NewHub(realtime.WithMaxClients(cfg.Realtime.MaxClients), realtime.WithHubLogger(log))
	defer hub.Close()

	group, groupCtx := errgroup.WithContext(ctx)

	var live notificationapp.LivePublisher = realtime.NewLocalBroker(hub)
	if redisClient != nil {
		broker := realtime.NewRedisBroker(redisClient, hub,
			realtime.WithChannelPrefix(cfg.Realtime.ChannelPrefix),
			realtime.WithBrokerLogger(log))
		group.Go(func() error { return broker.Run(groupCtx) })
		live = broker
	}

	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())
	orderEvents := notificationapp.NewOrderEventsHandler(live, log)
	if cfg.AMQP.Enabled {
		publisher, err := messaging.DialAMQPPublisher(cfg.AMQP, event.NewDefaultSerializer(), log)
		if err != nil {
			return err
		}
		defer func() { _ = publisher.Close() }()
		orderEvents = orderEvents.WithForwarder(publisher)
		log.Info("Forwarding order events to RabbitMQ", zap.String("exchange", cfg.AMQP.Exchange))
	}
	eventBus.Subscribe(event.NewIdempotentHandler(orderEvents, stores.Idempotency, log))
	eventBus.Subscribe(notificationapp.NewImportResultHandler(notificationRepo, log))

	orderMetrics, err := telemetry.NewOrderMetrics(providers.Meter.Meter("bizgrow/orders"))
	if err != nil {
		log.Warn("Order metrics disabled", zap.Error(err))
	} else {
		eventBus.Subscribe(orderMetrics)
	}

	if err := eventBus.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = eventBus.Stop(stopCtx)
	}()

	// Invoice PDFs need Chrome; HTML invoices work without it
	var invoiceOpts []orderapp.OrderServiceOption
	if cfg.PDF.Enabled {
		chrome := pdf.NewChromedpRenderer(cfg.PDF, log)
		defer func() { _ = chrome.Close() }()
		invoices, err := pdf.NewInvoiceRenderer(chrome)
		if err != nil {
			return err
		}
		invoiceOpts = append(invoiceOpts, orderapp.WithInvoiceRenderer(invoices))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	storeService := storeapp.NewStoreService(storeRepo, log)
	productService := catalogapp.NewProductService(productRepo,
		catalogapp.WithObjectStorage(objects),
		catalogapp.WithEventPublisher(eventBus),
		catalogapp.WithLogger(log))
	importService := catalogapp.NewImportService(productRepo, eventBus, log)
	shoppingService := shoppingapp.NewShoppingService(shoppingRepo, productRepo, log)

	authConfig := identityapp.DefaultAuthServiceConfig()
	if cfg.JWT.MaxLoginAttempts > 0 {
		authConfig.MaxLoginAttempts = cfg.JWT.MaxLoginAttempts
	}
	if cfg.JWT.LockDuration > 0 {
		authConfig.LockDuration = cfg.JWT.LockDuration
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, shoppingService, authConfig, log)

	orderService := orderapp.NewOrderService(
		storeRepo,
		productRepo,
		orderRepo,
		customerRepo,
		persistence.NewGormOrderTransactionScope(db.DB),
		append(invoiceOpts,
			orderapp.WithIdempotencyStore(stores.Idempotency),
			orderapp.WithEventPublisher(eventBus),
			orderapp.WithLogger(log),
		)...,
	)
	notificationService := notificationapp.NewNotificationService(notificationRepo)
	dashboardService := dashboardapp.NewDashboardService(productRepo, orderRepo, customerRepo, notificationRepo,
		dashboardapp.WithLogger(log))

	aiClient := ai.NewOpenAIClient(cfg.AI)
	aiOpts := []ai.Option{
		ai.WithLimiter(ai.NewLimiter(cfg.AI.RequestsPerMin, 0)),
		ai.WithMetrics(ai.NewMetrics(registry)),
		ai.WithLogger(log),
	}
	if !cfg.AI.Enabled {
		log.Warn("AI features disabled, detection and category art will report upstream failures")
	}
	detectionService := aiapp.NewDetectionService(
		ai.NewVisionDetector(aiClient, cfg.AI.VisionModel, aiOpts...),
		aiapp.WithDetectionLogger(log),
	)
	categoryImageService := aiapp.NewCategoryImageService(
		categoryImageRepo,
		stores.CategoryImages,
		ai.NewImageGenerator(aiClient, cfg.AI.ImageModel, cfg.AI.ImageSize, aiOpts...),
		objects,
		log,
	)

	systemHandler := handler.NewSystemHandler(version).
		WithCheck("database", db.Ping)
	if redisClient != nil {
		systemHandler.WithCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Store:         handler.NewStoreHandler(storeService),
		Product:       handler.NewProductHandler(productService),
		ProductImport: handler.NewProductImportHandler(importService),
		Order:         handler.NewOrderHandler(orderService),
		Notification:  handler.NewNotificationHandler(notificationService, hub, cfg.Realtime.HeartbeatInterval),
		Shopping:      handler.NewShoppingHandler(shoppingService),
		Storefront:    handler.NewStorefrontHandler(storeService, productService, orderService),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		AI:            handler.NewAIHandler(detectionService, categoryImageService),
		System:        systemHandler,
	}

	engineCfg := router.EngineConfig{
		Logger:    log,
		HTTP:      cfg.HTTP,
		Swagger:   cfg.Swagger,
		Telemetry: cfg.Telemetry,
		Metrics:   middleware.NewHTTPMetrics(registry),
	}
	if cfg.Telemetry.PrometheusEnabled {
		engineCfg.Gatherer = registry
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		group.Go(func() error {
			limiter.Run(groupCtx)
			return nil
		})
		engineCfg.RateLimiter = limiter
	}

	engine := router.NewEngine(engineCfg, handlers, router.Guards{
		Authenticator: authService,
		StoreOwners:   storeService,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	group.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down server...")

		// Open streams would hold Shutdown until the deadline
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// newObjectStorage picks S3 when configured and an in-process store otherwise
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, using in-memory storage. Uploads do not survive a restart.")
		return storage.NewMemoryObjectStorage(cfg.Storage.PublicBaseURL), nil
	}

	s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Could not verify storage bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
	}
	log.Info("Using S3 object storage", zap.String("bucket", s3.Bucket()))
	return s3, nil
}
