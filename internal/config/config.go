// Package config provides configuration structures and validation for the application.
// It covers the HTTP gateway, ledger storage drivers, the async batch pipeline and the
// outbound collaborators (exchange rates, advice generation).
package config

import (
	"errors"
	"strings"
	"time"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DefaultJWTSecret is only accepted outside production
const DefaultJWTSecret = "development-secret-change-me"

// Config holds the complete application configuration. Each field is one subsystem
// and the whole struct is validated during startup.
type Config struct {
	Application  ApplicationConfig
	Logging      LoggingConfig
	Server       ServerConfig
	Storage      StorageConfig
	Postgres     PostgresConfig
	MongoDB      MongoDBConfig
	Kafka        KafkaConfig
	WorkerPool   WorkerPoolConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	ExchangeRate ExchangeRateConfig
	Redis        RedisConfig
	Advice       AdviceConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// IsProduction reports whether the application runs in production mode
func (a ApplicationConfig) IsProduction() bool {
	return a.Env == "production"
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// StorageConfig selects where ledgers and the batch journal live
type StorageConfig struct {
	Driver          string // memory, postgres or mongo
	JournalDriver   string // memory or mongo
	MaxWriteRetries int    // Compare-and-swap attempts per write
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	BatchTopic        string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// AuthConfig contains bearer token verification settings
type AuthConfig struct {
	JWTSecret string
}

// RateLimitConfig contains per-client request limits
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// ExchangeRateConfig contains the currency conversion collaborator settings
type ExchangeRateConfig struct {
	BaseURL  string
	APIKey   string
	From     string
	To       string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// RedisConfig contains the cache connection used for exchange rates
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// AdviceConfig contains the text-generation collaborator settings
type AdviceConfig struct {
	URL     string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// validate checks every configuration value and reports all violations at once.
// Subsystems that are switched off are not validated.
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Storage config
	switch c.Storage.Driver {
	case DriverMemory, DriverPostgres, DriverMongo:
	default:
		validationErrors = append(validationErrors, "STORAGE_DRIVER must be one of memory, postgres, mongo")
	}
	switch c.Storage.JournalDriver {
	case DriverMemory, DriverMongo:
	default:
		validationErrors = append(validationErrors, "STORAGE_JOURNAL_DRIVER must be one of memory, mongo")
	}
	if c.Storage.MaxWriteRetries <= 0 {
		validationErrors = append(validationErrors, "STORAGE_MAX_WRITE_RETRIES must be greater than 0")
	}

	if c.Storage.Driver == DriverPostgres {
		validationErrors = append(validationErrors, c.Postgres.validate()...)
	}
	if c.Storage.Driver == DriverMongo || c.Storage.JournalDriver == DriverMongo {
		validationErrors = append(validationErrors, c.MongoDB.validate()...)
	}
	if c.Kafka.Enabled {
		validationErrors = append(validationErrors, c.Kafka.validate()...)
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	// Validate Auth config
	if c.Auth.JWTSecret == "" {
		validationErrors = append(validationErrors, "AUTH_JWT_SECRET is required")
	} else if c.Application.IsProduction() && c.Auth.JWTSecret == DefaultJWTSecret {
		validationErrors = append(validationErrors, "AUTH_JWT_SECRET must be changed in production")
	}

	// Validate RateLimit config
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			validationErrors = append(validationErrors, "RATE_LIMIT_RPS must be greater than 0")
		}
		if c.RateLimit.Burst <= 0 {
			validationErrors = append(validationErrors, "RATE_LIMIT_BURST must be greater than 0")
		}
	}

	// Validate ExchangeRate config
	if c.ExchangeRate.BaseURL == "" {
		validationErrors = append(validationErrors, "EXCHANGE_RATE_BASE_URL is required")
	}
	if len(c.ExchangeRate.From) != 3 || len(c.ExchangeRate.To) != 3 {
		validationErrors = append(validationErrors, "EXCHANGE_RATE_FROM and EXCHANGE_RATE_TO must be 3-letter currency codes")
	}
	if c.ExchangeRate.Timeout <= 0 {
		validationErrors = append(validationErrors, "EXCHANGE_RATE_TIMEOUT must be greater than 0")
	}

	// Validate Redis config
	if c.Redis.Enabled && c.Redis.Addr == "" {
		validationErrors = append(validationErrors, "REDIS_ADDR is required when REDIS_ENABLED is true")
	}

	// Validate Advice config
	if c.Advice.URL == "" {
		validationErrors = append(validationErrors, "ADVICE_URL is required")
	}
	if c.Advice.Model == "" {
		validationErrors = append(validationErrors, "ADVICE_MODEL is required")
	}
	if c.Advice.Timeout <= 0 {
		validationErrors = append(validationErrors, "ADVICE_TIMEOUT must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}

func (c PostgresConfig) validate() []string {
	var errs []string
	if c.URL == "" {
		errs = append(errs, "POSTGRES_URL is required")
	}
	if c.MaxConns <= 0 {
		errs = append(errs, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.MinConns <= 0 {
		errs = append(errs, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.ConnMaxLifetime <= 0 {
		errs = append(errs, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.ConnMaxIdleTime <= 0 {
		errs = append(errs, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}
	if c.MigrationsPath == "" {
		errs = append(errs, "POSTGRES_MIGRATIONS_PATH is required")
	}
	return errs
}

func (c MongoDBConfig) validate() []string {
	var errs []string
	if c.URI == "" {
		errs = append(errs, "MONGO_URI is required")
	}
	if c.Database == "" {
		errs = append(errs, "MONGO_DATABASE is required")
	}
	if c.Timeout <= 0 {
		errs = append(errs, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MaxPoolSize <= 0 {
		errs = append(errs, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MinPoolSize <= 0 {
		errs = append(errs, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MaxConnIdleTime <= 0 {
		errs = append(errs, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}
	return errs
}

func (c KafkaConfig) validate() []string {
	var errs []string
	if len(c.Brokers) == 0 {
		errs = append(errs, "KAFKA_BROKERS is required")
	}
	if c.BatchTopic == "" {
		errs = append(errs, "KAFKA_BATCH_TOPIC is required")
	}
	if c.ConsumerGroup == "" {
		errs = append(errs, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.MinBytes <= 0 {
		errs = append(errs, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.MaxBytes <= 0 {
		errs = append(errs, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.MaxWait <= 0 {
		errs = append(errs, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.DLQTopic == "" {
		errs = append(errs, "KAFKA_DLQ_TOPIC is required")
	}
	return errs
}
