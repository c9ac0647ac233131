package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of every environment override, e.g. PL_SERVER_PORT
const EnvPrefix = "PL"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
}

// LoadConfig loads configuration from .env, the environment's YAML file and
// environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	return load(ConfigPaths, DotEnvPaths)
}

func load(configPaths, dotEnvPaths []string) (*Config, error) {
	// A missing .env is normal outside local development
	_ = loadDotEnvFile(dotEnvPaths)

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName("config." + env)
	v.SetConfigType("yaml")
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first .env file found; existing variables win
func loadDotEnvFile(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("could not load %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for every key so env overrides are picked up
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "points-ledger")
	v.SetDefault("app.version", "dev")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)        // seconds
	v.SetDefault("server.write_timeout", 15)       // seconds
	v.SetDefault("server.idle_timeout", 60)        // seconds
	v.SetDefault("server.read_header_timeout", 10) // seconds
	v.SetDefault("server.shutdown_timeout", 10)    // seconds

	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30) // minutes
	v.SetDefault("database.query_timeout", 5)      // seconds
	v.SetDefault("database.retry_attempts", 5)
	v.SetDefault("database.retry_delay", 2)            // seconds
	v.SetDefault("database.slow_query_threshold", 200) // milliseconds

	v.SetDefault("storage.driver", StoragePostgres)
	v.SetDefault("storage.seed_default_users", false)

	v.SetDefault("lock.backend", LockLocal)
	v.SetDefault("lock.ttl", 5000) // milliseconds

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_second", 50.0)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("ledger.operation_timeout", 10) // seconds
	v.SetDefault("ledger.queue_size", 100)
	v.SetDefault("ledger.worker_idle_timeout", 300) // seconds

	v.SetDefault("logger.level", "info")
}

// getEnvironment determines the environment from PL_ENV, then ENVIRONMENT
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides accepts the conventional unprefixed DB_* variables
// used by docker-compose files; prefixed variables still take precedence.
func processEnvOverrides(v *viper.Viper) {
	overrides := map[string]string{
		"DB_HOST":     "database.host",
		"DB_PORT":     "database.port",
		"DB_USER":     "database.username",
		"DB_PASSWORD": "database.password",
		"DB_NAME":     "database.database",
		"REDIS_ADDR":  "redis.addr",
	}

	for envName, key := range overrides {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := os.LookupEnv(prefixed); ok {
			continue
		}
		if value, ok := os.LookupEnv(envName); ok && value != "" {
			v.Set(key, value)
		}
	}
}

// processDurations converts the raw numbers read from config into durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second
	config.Database.SlowQueryThreshold = time.Duration(config.Database.SlowQueryThreshold) * time.Millisecond

	config.Lock.TTL = time.Duration(config.Lock.TTL) * time.Millisecond
	config.Ledger.OperationTimeout = time.Duration(config.Ledger.OperationTimeout) * time.Second
	config.Ledger.WorkerIdleTimeout = time.Duration(config.Ledger.WorkerIdleTimeout) * time.Second
}
