// API server entry point for the KYC engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/veridocs/kycengine/internal/application/runs"
	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/infrastructure/database/postgres"
	"github.com/veridocs/kycengine/internal/infrastructure/database/postgres/repositories"
	redisinfra "github.com/veridocs/kycengine/internal/infrastructure/database/redis"
	kafkainfra "github.com/veridocs/kycengine/internal/infrastructure/messaging/kafka"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	prominfra "github.com/veridocs/kycengine/internal/infrastructure/monitoring/prometheus"
	miniostore "github.com/veridocs/kycengine/internal/infrastructure/storage/minio"
	httpiface "github.com/veridocs/kycengine/internal/interfaces/http"
	"github.com/veridocs/kycengine/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting kyc engine api server",
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := postgres.Migrate(cfg.Database, logger); err != nil {
		logger.Error("database migration failed", logging.Err(err))
		os.Exit(1)
	}

	pool, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to postgres", logging.Err(err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := redisinfra.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Error("failed to connect to redis", logging.Err(err))
		os.Exit(1)
	}
	defer redisClient.Close()
	cache := redisinfra.NewRunCache(redisClient, cfg.Redis)

	documents, err := miniostore.NewDocumentStore(ctx, cfg.MinIO, logger)
	if err != nil {
		logger.Error("failed to initialize object storage", logging.Err(err))
		os.Exit(1)
	}

	producer := kafkainfra.NewProducer(cfg.Kafka, "apiserver", logger)

	metrics := prominfra.NewMetrics()

	runRepo := repositories.NewRunRepository(pool, logger)
	docRepo := repositories.NewDocumentRepository(pool, logger)
	service := runs.NewService(runRepo, docRepo, documents, cache, producer, metrics, cfg.Policy, logger)

	health := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"postgres": handlers.PingerFunc(pool.Ping),
		"redis": handlers.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	})

	router := httpiface.NewRouter(httpiface.RouterConfig{
		RunHandler:    handlers.NewRunHandler(service, cfg.Server.MaxBodySize),
		HealthHandler: health,
		Logger:        logger,
		Metrics:       metrics,
	})
	srv := httpiface.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", logging.Err(err))
		}
	}

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("http server shutdown error", logging.Err(err))
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka producer close error", logging.Err(err))
	}

	logger.Info("api server stopped")
}

// loadConfig reads the config file when present, otherwise builds the
// configuration from KYCE_* environment variables alone.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
