package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/wa-thone-kyaw/ano-backend/config"
	"github.com/wa-thone-kyaw/ano-backend/internal/auth"
	"github.com/wa-thone-kyaw/ano-backend/internal/broker"
	"github.com/wa-thone-kyaw/ano-backend/internal/cache"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/events"
	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	"github.com/wa-thone-kyaw/ano-backend/internal/search"
	"github.com/wa-thone-kyaw/ano-backend/internal/server"
	"github.com/wa-thone-kyaw/ano-backend/internal/storage"

	catDTO "github.com/wa-thone-kyaw/ano-backend/internal/catalog/dto"
	catH "github.com/wa-thone-kyaw/ano-backend/internal/catalog/handler"
	catRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/catalog/repository"
	catUCPkg "github.com/wa-thone-kyaw/ano-backend/internal/catalog/usecase"

	invH "github.com/wa-thone-kyaw/ano-backend/internal/inventory/handler"
	invJobPkg "github.com/wa-thone-kyaw/ano-backend/internal/inventory/job"
	invListenerPkg "github.com/wa-thone-kyaw/ano-backend/internal/inventory/listener"
	invRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/inventory/repository"
	invUCPkg "github.com/wa-thone-kyaw/ano-backend/internal/inventory/usecase"

	orderH "github.com/wa-thone-kyaw/ano-backend/internal/order/handler"
	orderRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/order/repository"
	orderUCPkg "github.com/wa-thone-kyaw/ano-backend/internal/order/usecase"

	partnerH "github.com/wa-thone-kyaw/ano-backend/internal/partner/handler"
	partnerRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/partner/repository"
	partnerUCPkg "github.com/wa-thone-kyaw/ano-backend/internal/partner/usecase"

	"github.com/wa-thone-kyaw/ano-backend/internal/product"
	prodH "github.com/wa-thone-kyaw/ano-backend/internal/product/handler"
	prodRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/product/repository"
	prodUCPkg "github.com/wa-thone-kyaw/ano-backend/internal/product/usecase"

	rawH "github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial/handler"
	rawRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial/repository"
	rawUCPkg "github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial/usecase"

	roleH "github.com/wa-thone-kyaw/ano-backend/internal/role/handler"
	roleRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/role/repository"
	roleUCPkg "github.com/wa-thone-kyaw/ano-backend/internal/role/usecase"

	userH "github.com/wa-thone-kyaw/ano-backend/internal/user/handler"
	userRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/user/repository"
	userUCPkg "github.com/wa-thone-kyaw/ano-backend/internal/user/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		File:              cfg.Logger.File,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	httpx.ExposeErrorDetails = cfg.Server.IsDevelopment()
	decimal.MarshalJSONWithoutQuotes = true

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		appLogger.Fatal("Invalid APP_TIMEZONE", zap.String("timezone", cfg.Server.Timezone), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Database
	db, err := database.NewPostgres(ctx, &database.Config{
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
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		if err := database.MigrateUp(ctx, db); err != nil {
			appLogger.Fatal("Could not apply migrations", zap.Error(err))
		}
	}
	txManager := database.NewTxManager(db)

	// 4. Initialize optional infrastructure
	var listCache product.ListCache
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, &cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, product list cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			listCache = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	var productIndex product.Index
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(ctx, &search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, product search uses SQL", zap.Error(err))
		} else {
			productIndex = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.MovementsTopic,
		}, appLogger)
		defer producer.Close()
		publisher = producer
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.MovementsTopic))
	}
	emitter := events.NewEmitter(publisher, appLogger)
	defer emitter.Close()

	disk, err := storage.New(ctx, &storage.Config{
		Driver:    cfg.Storage.Driver,
		LocalRoot: cfg.Storage.LocalRoot,
		PublicURL: cfg.Storage.PublicURL,
		S3: storage.S3Config{
			Bucket:          cfg.Storage.S3Bucket,
			Region:          cfg.Storage.S3Region,
			Endpoint:        cfg.Storage.S3Endpoint,
			AccessKeyID:     cfg.Storage.S3AccessKey,
			SecretAccessKey: cfg.Storage.S3SecretKey,
			PublicURL:       cfg.Storage.PublicURL,
		},
	})
	if err != nil {
		appLogger.Fatal("Could not initialize photo storage", zap.Error(err))
	}
	uploadsDir := ""
	if local, ok := disk.(*storage.LocalDisk); ok {
		uploadsDir = local.Root()
	}

	// 5. Initialize Repositories
	categoryRepo := catRepoPkg.NewPGRepository[model.Category](db, catDTO.Categories)
	colorRepo := catRepoPkg.NewPGRepository[model.Color](db, catDTO.Colors)
	typeRepo := catRepoPkg.NewPGRepository[model.Type](db, catDTO.Types)
	warehouseRepo := catRepoPkg.NewPGRepository[model.Warehouse](db, catDTO.Warehouses)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	customerRepo := partnerRepoPkg.NewCustomerRepository(db)
	supplierRepo := partnerRepoPkg.NewSupplierRepository(db)
	rawRepo := rawRepoPkg.NewPGRepository(db)
	userRepo := userRepoPkg.NewPGRepository(db)
	roleRepo := roleRepoPkg.NewPGRepository(db)

	// 6. Initialize UseCases
	ledger := invUCPkg.NewLedger(invRepo)
	wh := cfg.Inventory.DefaultWarehouseID

	categoryUC := catUCPkg.NewCatalogUseCase[model.Category](categoryRepo, catDTO.Categories, appLogger)
	colorUC := catUCPkg.NewCatalogUseCase[model.Color](colorRepo, catDTO.Colors, appLogger)
	typeUC := catUCPkg.NewCatalogUseCase[model.Type](typeRepo, catDTO.Types, appLogger)
	warehouseUC := catUCPkg.NewCatalogUseCase[model.Warehouse](warehouseRepo, catDTO.Warehouses, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, ledger, txManager, emitter, wh, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, txManager, invUC, disk, listCache, cfg.Redis.TTL, productIndex, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, ledger, txManager, emitter, wh, appLogger)
	partnerUC := partnerUCPkg.NewPartnerUseCase(customerRepo, supplierRepo, appLogger)
	rawUC := rawUCPkg.NewRawMaterialUseCase(rawRepo, txManager, emitter, appLogger)
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.TTL)
	userUC := userUCPkg.NewUserUseCase(userRepo, tokens, loc, appLogger)
	roleUC := roleUCPkg.NewRoleUseCase(roleRepo, txManager, appLogger)

	authorizer, err := auth.NewAuthorizer(cfg.JWT.AuthzMode, roleUC)
	if err != nil {
		appLogger.Fatal("Invalid AUTHZ_MODE", zap.Error(err))
	}

	// 7. Background work
	if cfg.Kafka.ConsumeEnabled && len(cfg.Kafka.Brokers) > 0 {
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.ReceiptsTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		go invListenerPkg.NewReceiptListener(consumer, invUC, appLogger).Start(ctx)
	}

	if cfg.Inventory.LowStockCron != "" {
		scanner := invJobPkg.NewLowStockScanner(invUC, emitter, appLogger)
		sched, err := invJobPkg.Schedule(scanner, cfg.Inventory.LowStockCron, loc)
		if err != nil {
			appLogger.Fatal("Invalid LOW_STOCK_CRON", zap.String("spec", cfg.Inventory.LowStockCron), zap.Error(err))
		}
		defer sched.Stop()
	}

	// 8. Initialize Handlers
	handlers := &server.Handlers{
		Categories:  catH.NewCatalogHandler(categoryUC, appLogger),
		Colors:      catH.NewCatalogHandler(colorUC, appLogger),
		Types:       catH.NewCatalogHandler(typeUC, appLogger),
		Warehouses:  catH.NewCatalogHandler(warehouseUC, appLogger),
		Products:    prodH.NewProductHandler(prodUC, cfg.Inventory.MaxPhotos, appLogger),
		Inventory:   invH.NewInventoryHandler(invUC, appLogger),
		Orders:      orderH.NewOrderHandler(orderUC, appLogger),
		Partners:    partnerH.NewPartnerHandler(partnerUC, appLogger),
		RawMaterial: rawH.NewRawMaterialHandler(rawUC, appLogger),
		Users:       userH.NewUserHandler(userUC, appLogger),
		Roles:       roleH.NewRoleHandler(roleUC, appLogger),
	}
	router := server.NewRouter(handlers, server.Options{
		Tokens:       tokens,
		Authorizer:   authorizer,
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		UploadsDir:   uploadsDir,
		Logger:       appLogger,
	})

	// 9. Start HTTP and gRPC health servers
	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
	defer done()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
