// Package config provides configuration loading, defaults, and validation for
// the KYC engine.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "kycengine"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisTTL       = 24 * time.Hour
	DefaultRedisKeyPrefix = "kyc:"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "kycengine-workers"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "kyc-documents"
	DefaultPresignExpiry = 15 * time.Minute

	DefaultExtractorBaseURL = "http://localhost:8090"
	DefaultExtractorTimeout = 120 * time.Second

	DefaultWorkerConcurrency = 8

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultEquityNearTolerance = 0.01
	DefaultEquityTolerance     = 0.5
	DefaultCriticalPenalty     = 0.35
	DefaultWarningPenalty      = 0.05
	DefaultCoveragePenalty     = 0.10
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.MinBytes == 0 {
		cfg.Kafka.MinBytes = 1
	}
	if cfg.Kafka.MaxBytes == 0 {
		cfg.Kafka.MaxBytes = 10 << 20
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultPresignExpiry
	}

	// ── Extractor ─────────────────────────────────────────────────────────────
	if cfg.Extractor.BaseURL == "" {
		cfg.Extractor.BaseURL = DefaultExtractorBaseURL
	}
	if cfg.Extractor.RequestTimeout == 0 {
		cfg.Extractor.RequestTimeout = DefaultExtractorTimeout
	}
	if cfg.Extractor.MaxRetries == 0 {
		cfg.Extractor.MaxRetries = 3
	}
	if cfg.Extractor.RetryBackoff == 0 {
		cfg.Extractor.RetryBackoff = 2 * time.Second
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.RetryBackoff == 0 {
		cfg.Worker.RetryBackoff = 5 * time.Second
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}

	// ── Policy ────────────────────────────────────────────────────────────────
	if cfg.Policy.EquityNearTolerance == 0 {
		cfg.Policy.EquityNearTolerance = DefaultEquityNearTolerance
	}
	if cfg.Policy.EquityTolerance == 0 {
		cfg.Policy.EquityTolerance = DefaultEquityTolerance
	}
	if cfg.Policy.CriticalPenalty == 0 {
		cfg.Policy.CriticalPenalty = DefaultCriticalPenalty
	}
	if cfg.Policy.WarningPenalty == 0 {
		cfg.Policy.WarningPenalty = DefaultWarningPenalty
	}
	if cfg.Policy.CoveragePenalty == 0 {
		cfg.Policy.CoveragePenalty = DefaultCoveragePenalty
	}
}
