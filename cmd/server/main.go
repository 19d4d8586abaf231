package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	cacheAdapter "github.com/pwnz15/Kre/internal/adapter/cache/redis"
	mongoAdapter "github.com/pwnz15/Kre/internal/adapter/mongo"
	natsAdapter "github.com/pwnz15/Kre/internal/adapter/nats"
	minioAdapter "github.com/pwnz15/Kre/internal/adapter/storage/minio"
	"github.com/pwnz15/Kre/internal/config"
	"github.com/pwnz15/Kre/internal/handler"
	"github.com/pwnz15/Kre/internal/platform/tracer"
	"github.com/pwnz15/Kre/internal/router"
	"github.com/pwnz15/Kre/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	configPath := "config.yaml"
	if cp := os.Getenv("CONFIG_PATH"); cp != "" {
		configPath = cp
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	tracerProvider, err := tracer.InitTracer(context.Background())
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	mongoClient, err := mongoAdapter.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	logger.Info("Successfully connected to MongoDB")

	listingRepo := mongoAdapter.NewListingMongoRepository(mongoClient, cfg.Mongo.Database)
	if err := listingRepo.EnsureIndexes(context.Background()); err != nil {
		logger.Fatal("Failed to ensure listing indexes", zap.Error(err))
	}

	redisClient, err := cacheAdapter.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheRepo := cacheAdapter.NewRedisCacheRepository(redisClient, logger)

	objectStorage, err := minioAdapter.NewStorage(&cfg.MinIO, logger)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	publisher, err := natsAdapter.NewPublisher(&cfg.NATS, logger)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	media := usecase.NewMediaOrchestrator(objectStorage, logger)
	listingUC := usecase.NewListingUsecase(listingRepo, media, cacheRepo, publisher, logger)

	listingHandler := handler.NewListingHandler(listingUC, logger)
	mux := router.New(listingHandler, cfg.JWT.Secret, cfg.HTTP.RequestTimeout, logger)

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting HTTP server", zap.String("address", addr))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
