package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PL_ENV", "test")

	cfg, err := load([]string{t.TempDir()}, nil)
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowQueryThreshold)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, LockLocal, cfg.Lock.Backend)
	assert.Equal(t, 5*time.Second, cfg.Lock.TTL)
	assert.Equal(t, 10*time.Second, cfg.Ledger.OperationTimeout)
	assert.Equal(t, 100, cfg.Ledger.QueueSize)
	assert.Equal(t, 5*time.Minute, cfg.Ledger.WorkerIdleTimeout)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.staging.yaml", `
server:
  port: 9090
storage:
  driver: memory
  seed_default_users: true
lock:
  backend: redis
  ttl: 250
`)
	t.Setenv("PL_ENV", "Staging")

	cfg, err := load([]string{dir}, nil)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.SeedDefaultUsers)
	assert.Equal(t, LockRedis, cfg.Lock.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Lock.TTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.test.yaml", `
database:
  host: from-file
  port: 5432
`)
	t.Setenv("PL_ENV", "test")
	t.Setenv("PL_SERVER_PORT", "7070")
	t.Setenv("PL_LEDGER_QUEUE_SIZE", "5")
	t.Setenv("PL_LEDGER_WORKER_IDLE_TIMEOUT", "0")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("PL_DATABASE_DATABASE", "ledger_prefixed")

	cfg, err := load([]string{dir}, nil)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Ledger.QueueSize)
	assert.Equal(t, time.Duration(0), cfg.Ledger.WorkerIdleTimeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "ledger_prefixed", cfg.Database.Database)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.test.yaml", "server: [unterminated")
	t.Setenv("PL_ENV", "test")

	_, err := load([]string{dir}, nil)
	assert.Error(t, err)
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "PL_LOGGER_LEVEL=warn\n")
	t.Setenv("PL_ENV", "test")
	// Registered for cleanup; godotenv does not override variables already set
	t.Setenv("PL_LOGGER_LEVEL", "")
	require.NoError(t, os.Unsetenv("PL_LOGGER_LEVEL"))

	cfg, err := load([]string{dir}, []string{filepath.Join(dir, "missing.env"), path})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
}
