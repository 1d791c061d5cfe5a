package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Ip-Tec/saze-logistics-sub000/gateway"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/booking"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/config"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/discovery"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/dispatch"
	grpcserver "github.com/Ip-Tec/saze-logistics-sub000/pkg/grpc"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/match"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/pricing"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/realtime"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/repository"
)

func main() {
	// Load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := newLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting dispatch service",
		zap.String("name", cfg.Server.Name),
		zap.Int("http_port", cfg.Server.HTTPPort),
		zap.Int("grpc_port", cfg.Server.GRPCPort))

	// Connect to MySQL
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.Profile{},
		&models.DeliveryAddress{},
		&models.RateConfig{},
	); err != nil {
		logger.Fatal("Failed to migrate", zap.Error(err))
	}

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	rateRepo := repository.NewRateConfigRepository(db)
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	ctx := context.Background()
	if err := redisRepo.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}
	if err := mongoRepo.Ping(ctx); err != nil {
		logger.Warn("MongoDB connection failed", zap.Error(err))
	}
	defer mongoRepo.Close(ctx)

	// Domain services
	bridge := realtime.NewBridge(redisRepo.Client(), logger.Named("realtime"))
	estimator := pricing.NewEstimator(rateRepo, redisRepo, cfg.Pricing.CacheTTL, logger.Named("pricing"))
	selector := match.NewSelector(cfg.Dispatch.RiderThresholdKm)

	mutator := dispatch.NewMutator(orderRepo, profileRepo, mongoRepo, bridge, logger.Named("dispatch"))
	dispatchClient, err := dispatch.Start(mutator, cfg.Dispatch.RequestTimeout, logger)
	if err != nil {
		logger.Fatal("Failed to start dispatch actor", zap.Error(err))
	}
	defer dispatchClient.Shutdown()

	bookingSvc := booking.NewService(
		redisRepo,
		profileRepo,
		estimator,
		orderRepo,
		mongoRepo,
		bridge,
		selector,
		cfg.Dispatch.SearchRadiusKm,
		logger.Named("booking"),
	)

	// HTTP gateway
	gw := gateway.NewGateway(cfg, logger, gateway.Deps{
		Booking:  bookingSvc,
		Dispatch: dispatchClient,
		Orders:   orderRepo,
		Profiles: profileRepo,
		Redis:    redisRepo,
		Events:   mongoRepo,
		Bridge:   bridge,
	})
	gw.SetupRoutes()

	// gRPC health server
	healthSrv := grpcserver.NewHealthServer(cfg, logger)

	// Service discovery
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd)
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		sd = nil
	}
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.HTTPPort,
	}
	if sd != nil {
		if err := sd.Register(ctx, instance); err != nil {
			logger.Error("Failed to register service", zap.Error(err))
		} else {
			logger.Info("Service registered in etcd",
				zap.String("name", cfg.Server.Name),
				zap.String("address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)))
		}
	}

	// Start servers
	serverErr := make(chan error, 2)
	go func() {
		if err := gw.Start(); err != nil {
			serverErr <- err
		}
	}()
	go func() {
		if err := healthSrv.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	healthSrv.SetNotServing()
	if sd != nil {
		if err := sd.Deregister(ctx, instance); err != nil {
			logger.Error("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}
	healthSrv.Stop()

	logger.Info("Service stopped")
}

func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zc.Level = level
	}
	if cfg.Encoding != "" {
		zc.Encoding = cfg.Encoding
	}
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}
	return zc.Build()
}
