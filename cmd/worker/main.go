// Extraction worker entry point: consumes document.uploaded events, runs the
// external extractor, and persists the typed payloads.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/veridocs/kycengine/internal/application/extraction"
	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/infrastructure/database/postgres"
	"github.com/veridocs/kycengine/internal/infrastructure/database/postgres/repositories"
	kafkainfra "github.com/veridocs/kycengine/internal/infrastructure/messaging/kafka"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	prominfra "github.com/veridocs/kycengine/internal/infrastructure/monitoring/prometheus"
	miniostore "github.com/veridocs/kycengine/internal/infrastructure/storage/minio"
	"github.com/veridocs/kycengine/internal/intelligence/extractor"
)

const (
	defaultConfigPath = "configs/config.yaml"
	defaultHealthPort = 8081
	shutdownGrace     = 30 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	concurrency := flag.Int("concurrency", 0, "number of concurrent consumers (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *concurrency > 0 {
		cfg.Worker.Concurrency = *concurrency
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

	logger.Info("starting kyc engine extraction worker",
		logging.Int("concurrency", cfg.Worker.Concurrency))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to postgres", logging.Err(err))
		os.Exit(1)
	}
	defer pool.Close()

	documents, err := miniostore.NewDocumentStore(ctx, cfg.MinIO, logger)
	if err != nil {
		logger.Error("failed to initialize object storage", logging.Err(err))
		os.Exit(1)
	}

	producer := kafkainfra.NewProducer(cfg.Kafka, "worker", logger)
	defer producer.Close()

	metrics := prominfra.NewMetrics()
	docRepo := repositories.NewDocumentRepository(pool, logger)
	service := extraction.NewService(
		extractor.NewClient(cfg.Extractor, logger),
		docRepo, documents, producer, metrics, logger,
	)

	// Each consumer owns its own group reader; the broker balances partitions
	// across them.
	topics := []string{kafkainfra.TopicDocumentUploaded}
	consumers := make([]*kafkainfra.Consumer, cfg.Worker.Concurrency)
	for i := range consumers {
		consumers[i] = kafkainfra.NewConsumer(cfg.Kafka, cfg.Worker, topics, producer, logger)
		service.Register(consumers[i])
	}

	var wg sync.WaitGroup
	for i, c := range consumers {
		wg.Add(1)
		go func(id int, c *kafkainfra.Consumer) {
			defer wg.Done()
			if err := c.Run(ctx); err != nil {
				logger.Error("consumer stopped with error",
					logging.Int("consumer_id", id), logging.Err(err))
			}
		}(i, c)
	}

	healthSrv := startHealthServer(defaultHealthPort, metrics, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received shutdown signal", logging.String("signal", sig.String()))

	cancel()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("consumer close error", logging.Err(err))
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		logger.Info("all consumers drained")
	case <-time.After(shutdownGrace):
		logger.Warn("shutdown grace period exceeded, forcing exit")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}

	logger.Info("extraction worker stopped")
}

// startHealthServer exposes liveness probes and Prometheus metrics for the
// worker process.
func startHealthServer(port int, metrics *prominfra.Metrics, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		logger.Info("health server listening", logging.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", logging.Err(err))
		}
	}()
	return srv
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
