package main

import (
	"testing"
	"time"

	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config.Config {
	return &config.Config{
		Environment: config.Development,
		Server: config.ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: config.DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			Username:     "postgres",
			Database:     "points_ledger",
			QueryTimeout: 5 * time.Second,
		},
		Storage: config.StorageConfig{Driver: config.StoragePostgres},
		Lock:    config.LockConfig{Backend: config.LockLocal, TTL: 5 * time.Second},
		Ledger:  config.LedgerConfig{QueueSize: 100},
		Logger:  config.LoggerConfig{Level: "info"},
	}
}

func TestValidateConfig(t *testing.T) {
	t.Run("Valid configuration", func(t *testing.T) {
		require.NoError(t, validateConfig(validConfig()))
	})

	t.Run("Memory storage needs no database", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Driver = config.StorageMemory
		cfg.Database = config.DatabaseConfig{}

		require.NoError(t, validateConfig(cfg))
	})

	t.Run("Negative worker idle timeout", func(t *testing.T) {
		cfg := validConfig()
		cfg.Ledger.WorkerIdleTimeout = -time.Second

		require.Error(t, validateConfig(cfg))
	})

	t.Run("Missing values are reported together", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Port = 0
		cfg.Database.Host = ""
		cfg.Logger.Level = ""

		err := validateConfig(cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
		assert.Contains(t, err.Error(), "database.host")
		assert.Contains(t, err.Error(), "logger.level")
	})

	t.Run("Unknown environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.Environment = "staging-eu"

		assert.ErrorContains(t, validateConfig(cfg), "invalid environment value")
	})

	t.Run("Unknown storage driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Driver = "sqlite"

		assert.ErrorContains(t, validateConfig(cfg), "invalid storage.driver")
	})

	t.Run("Database locks need postgres", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Driver = config.StorageMemory
		cfg.Lock.Backend = config.LockDatabase

		assert.ErrorContains(t, validateConfig(cfg), "requires storage.driver")
	})

	t.Run("Redis locks need an address", func(t *testing.T) {
		cfg := validConfig()
		cfg.Lock.Backend = config.LockRedis

		assert.ErrorContains(t, validateConfig(cfg), "redis.addr")
	})

	t.Run("Enabled rate limit needs positive settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateLimit.Enabled = true

		assert.ErrorContains(t, validateConfig(cfg), "rate_limit")
	})
}
