package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-storefront-service/config"
	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/fekuna/omnipos-storefront-service/internal/order"
	"github.com/fekuna/omnipos-storefront-service/internal/order/ws"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/search"
	"github.com/fekuna/omnipos-storefront-service/internal/product"

	cartH "github.com/fekuna/omnipos-storefront-service/internal/cart/handler"
	cartRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/cart/repository"
	cartUCPkg "github.com/fekuna/omnipos-storefront-service/internal/cart/usecase"

	catH "github.com/fekuna/omnipos-storefront-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-storefront-service/internal/category/usecase"

	checkoutH "github.com/fekuna/omnipos-storefront-service/internal/checkout/handler"
	checkoutRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/checkout/repository"
	checkoutUCPkg "github.com/fekuna/omnipos-storefront-service/internal/checkout/usecase"

	invH "github.com/fekuna/omnipos-storefront-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-storefront-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-storefront-service/internal/inventory/usecase"

	orderH "github.com/fekuna/omnipos-storefront-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-storefront-service/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-storefront-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-storefront-service/internal/product/usecase"

	settingsH "github.com/fekuna/omnipos-storefront-service/internal/settings/handler"
	settingsRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/settings/repository"
	settingsUCPkg "github.com/fekuna/omnipos-storefront-service/internal/settings/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// 1.5 Initialize i18n
	if err := i18n.Init(); err != nil {
		log.Fatalf("failed to load locales: %v", err)
	}
	if path := cfg.Storefront.LocaleFile; path != "" {
		if err := i18n.Load(path); err != nil {
			log.Printf("failed to load locale overrides from %s: %v", path, err)
		}
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	settingsRepo := settingsRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	cartStore := cartRepoPkg.NewRedisStore(redisClient, cfg.SessionTTL())
	checkoutStore := checkoutRepoPkg.NewRedisStateStore(redisClient, cfg.SessionTTL())

	// 5.5 Initialize Kafka
	kafkaConfig := &broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	}
	kafkaProducer := broker.NewProducer(kafkaConfig)
	defer kafkaProducer.Close()
	kafkaConsumer := broker.NewConsumer(kafkaConfig)
	defer kafkaConsumer.Close()
	appLogger.Info("kafka configured", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 5.8 Initialize Elasticsearch. Search falls back to SQL without it.
	var searcher product.Searcher
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("could not connect to Elasticsearch, search uses the database", zap.Error(err))
	} else {
		searcher = esClient
		appLogger.Info("connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	feed := ws.NewHub(appLogger)
	defer feed.Close()

	settingsUC := settingsUCPkg.NewSettingsUseCase(settingsRepo, redisClient, cfg.Storefront.SettingsRowID, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, redisClient, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catUC, redisClient, searcher, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, redisClient, redisClient, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, kafkaProducer, feed, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(cartStore, prodUC, settingsUC, appLogger)
	checkoutUC := checkoutUCPkg.NewCheckoutUseCase(
		checkoutStore,
		cartStore,
		settingsUC,
		orderUC,
		order.NewWhatsAppHandoff(cfg.Storefront.WhatsAppBaseURL),
		order.NewNumberGenerator(),
		redisClient,
		appLogger,
	)
	authSvc := auth.NewService(cfg.Admin.Email, cfg.Admin.PasswordHash, cfg.JWT.SecretKey, cfg.TokenTTL())
	if cfg.Admin.PasswordHash == "" {
		appLogger.Warn("ADMIN_PASSWORD_HASH is empty, admin login is disabled")
	}

	// 6.5 Start Listeners
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, invUC, appLogger)
	go invListener.Start(ctx)

	// 7. Initialize Handlers
	router := newRouter(routes{
		logger:   appLogger,
		auth:     authSvc,
		health:   db.PingContext,
		login:    auth.NewHandler(authSvc, appLogger),
		products: prodH.NewProductHandler(prodUC, appLogger),
		catalog:  catH.NewCategoryHandler(catUC, appLogger),
		settings: settingsH.NewSettingsHandler(settingsUC, appLogger),
		cart:     cartH.NewCartHandler(cartUC, appLogger),
		checkout: checkoutH.NewCheckoutHandler(checkoutUC, appLogger),
		orders:   orderH.NewOrderHandler(orderUC, feed, appLogger),
		stock:    invH.NewInventoryHandler(invUC, appLogger),
	})

	httpServer := &http.Server{
		Addr:              withColon(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		appLogger.Info("starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// 8. Start gRPC health server
	grpcPort := withColon(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("storefront", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("starting gRPC health server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("server stopped")
}

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
