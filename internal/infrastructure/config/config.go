package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string          `mapstructure:"environment"`
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Lock        LockConfig      `mapstructure:"lock"`
	Redis       RedisConfig     `mapstructure:"redis"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Ledger      LedgerConfig    `mapstructure:"ledger"`
	Logger      LoggerConfig    `mapstructure:"logger"`
}

// AppConfig identifies the running service
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`        // seconds
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`       // seconds
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`        // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`    // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	Database           string        `mapstructure:"database"`
	SSLMode            string        `mapstructure:"ssl_mode"`
	MaxOpenConns       int           `mapstructure:"max_open_conns"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"` // minutes
	QueryTimeout       time.Duration `mapstructure:"query_timeout"`     // seconds
	RetryAttempts      int           `mapstructure:"retry_attempts"`
	RetryDelay         time.Duration `mapstructure:"retry_delay"`          // seconds
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"` // milliseconds
}

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver           string `mapstructure:"driver"`
	SeedDefaultUsers bool   `mapstructure:"seed_default_users"`
}

// Lock backends
const (
	LockLocal    = "local"
	LockDatabase = "database"
	LockRedis    = "redis"
)

// LockConfig selects how ledger writers are serialized across instances
type LockConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"` // milliseconds
}

// RedisConfig contains the redis connection used by the redis lock backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig contains the per-client token bucket settings
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LedgerConfig contains point change processing settings
type LedgerConfig struct {
	OperationTimeout  time.Duration `mapstructure:"operation_timeout"` // seconds
	QueueSize         int           `mapstructure:"queue_size"`
	WorkerIdleTimeout time.Duration `mapstructure:"worker_idle_timeout"` // seconds, 0 keeps workers until shutdown
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}
