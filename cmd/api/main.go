package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	ledgerUseCase "github.com/amirhossein-jamali/points-ledger/internal/domain/usecase/ledger"
	userUseCase "github.com/amirhossein-jamali/points-ledger/internal/domain/usecase/user"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/metrics"
	timeProvider "github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

const (
	rateLimitCleanupInterval = time.Minute
	rateLimitMaxIdle         = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.IsProduction(), coreport.ParseLogLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()
	appMetrics := metrics.NewMetrics()

	// Background work is stopped when main returns
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	store, err := setupStorage(bgCtx, cfg, appLogger, tp, appMetrics)
	if err != nil {
		appLogger.Error("Failed to set up storage", map[string]any{
			"driver": cfg.Storage.Driver,
			"error":  err.Error(),
		})
		os.Exit(1)
	}
	defer store.close()

	locks, closeLocks, err := setupLocks(bgCtx, cfg, store, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to set up user locks", map[string]any{
			"backend": cfg.Lock.Backend,
			"error":   err.Error(),
		})
		os.Exit(1)
	}
	defer closeLocks()

	// Initialize use cases
	userUseCaseImpl := userUseCase.NewUserUseCase(store.uow, appLogger)

	ledgerOpts := []ledgerUseCase.Option{ledgerUseCase.WithMetrics(appMetrics)}
	if locks != nil {
		ledgerOpts = append(ledgerOpts, ledgerUseCase.WithUserLocks(locks))
	}
	ledgerService := ledgerUseCase.NewLedgerService(
		store.uow,
		tp,
		appLogger,
		ledgerUseCase.Config{
			OperationTimeout:  cfg.Ledger.OperationTimeout,
			LockTTL:           cfg.Lock.TTL,
			QueueSize:         cfg.Ledger.QueueSize,
			WorkerIdleTimeout: cfg.Ledger.WorkerIdleTimeout,
		},
		ledgerOpts...,
	)

	// Create default users
	if store.seedDefaultUsers {
		if err := userUseCaseImpl.CreateDefaultUsers(bgCtx); err != nil {
			appLogger.Error("Failed to create default users", map[string]any{
				"error": err.Error(),
			})
		}
	}

	// Initialize API handlers
	userHandler := handler.NewUserHandler(userUseCaseImpl, appLogger)
	transactionHandler := handler.NewTransactionHandler(ledgerService, userUseCaseImpl, appLogger)
	healthHandler := handler.NewHealthHandler(cfg.Storage.Driver, store.pinger, appLogger)

	router := gin.New()

	middlewareOpts := routes.MiddlewareOptions{Metrics: appMetrics}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, appLogger)
		limiter.StartCleanup(bgCtx, rateLimitCleanupInterval, rateLimitMaxIdle)
		middlewareOpts.RateLimiter = limiter
	}
	routes.SetupMiddlewares(router, appLogger, middlewareOpts)

	routes.SetupRoutes(router, routes.Handlers{
		User:        userHandler,
		Transaction: transactionHandler,
		Health:      healthHandler,
		Metrics:     appMetrics.Handler(),
	})

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":    server.Addr,
			"env":     cfg.Environment,
			"storage": cfg.Storage.Driver,
			"locks":   cfg.Lock.Backend,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...", map[string]any{"signal": sig.String()})
	case err := <-serverErr:
		appLogger.Error("Server stopped unexpectedly", map[string]any{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop taking requests first so no new point changes reach the queue
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Draining ledger queue...", nil)
	if err := ledgerService.Shutdown(ctx); err != nil {
		appLogger.Error("Ledger queue did not drain in time", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Environment should be set with a valid value
	switch cfg.Environment {
	case "":
		missingConfigs = append(missingConfigs, "environment")
	case config.Development, config.Production, config.Test:
	default:
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.read_timeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.write_timeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdown_timeout")
	}

	switch cfg.Storage.Driver {
	case config.StoragePostgres, config.StorageMemory:
	default:
		return fmt.Errorf("invalid storage.driver: %q, must be %s or %s",
			cfg.Storage.Driver, config.StoragePostgres, config.StorageMemory)
	}

	switch cfg.Lock.Backend {
	case config.LockLocal:
	case config.LockDatabase:
		if cfg.Storage.Driver != config.StoragePostgres {
			return fmt.Errorf("lock.backend %q requires storage.driver %q", config.LockDatabase, config.StoragePostgres)
		}
	case config.LockRedis:
		if cfg.Redis.Addr == "" {
			missingConfigs = append(missingConfigs, "redis.addr (or REDIS_ADDR environment variable)")
		}
	default:
		return fmt.Errorf("invalid lock.backend: %q, must be one of: %s, %s, or %s",
			cfg.Lock.Backend, config.LockLocal, config.LockDatabase, config.LockRedis)
	}
	if cfg.Lock.Backend != config.LockLocal && cfg.Lock.TTL <= 0 {
		missingConfigs = append(missingConfigs, "lock.ttl")
	}

	// Validate database configuration
	if cfg.Storage.Driver == config.StoragePostgres {
		if cfg.Database.Host == "" {
			missingConfigs = append(missingConfigs, "database.host (or DB_HOST environment variable)")
		}
		if cfg.Database.Port == 0 {
			missingConfigs = append(missingConfigs, "database.port (or DB_PORT environment variable)")
		}
		if cfg.Database.Username == "" {
			missingConfigs = append(missingConfigs, "database.username (or DB_USER environment variable)")
		}
		if cfg.Database.Password == "" && cfg.IsProduction() {
			missingConfigs = append(missingConfigs, "database.password (or DB_PASSWORD environment variable)")
		}
		if cfg.Database.Database == "" {
			missingConfigs = append(missingConfigs, "database.database (or DB_NAME environment variable)")
		}
		if cfg.Database.QueryTimeout == 0 {
			missingConfigs = append(missingConfigs, "database.query_timeout")
		}
	}

	if cfg.Ledger.QueueSize <= 0 {
		missingConfigs = append(missingConfigs, "ledger.queue_size")
	}
	if cfg.Ledger.WorkerIdleTimeout < 0 {
		return fmt.Errorf("ledger.worker_idle_timeout cannot be negative")
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst <= 0) {
		missingConfigs = append(missingConfigs, "rate_limit.requests_per_second and rate_limit.burst")
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.IsProduction() {
		var warnings []string

		if cfg.Storage.Driver == config.StorageMemory {
			warnings = append(warnings, "storage.driver memory loses all data on restart")
		}

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if cfg.Storage.Driver == config.StoragePostgres && sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.ssl_mode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}

		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.read_timeout is too low for production")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.write_timeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential issues in production configuration: %v", warnings)
		}
	}

	return nil
}
