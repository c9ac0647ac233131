package main

import (
	"context"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/lock"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/config"
)

const expiredLockCleanupInterval = time.Minute

// storage is the persistence backend selected by storage.driver
type storage struct {
	uow              persistence.UnitOfWork
	pinger           handler.Pinger
	seedDefaultUsers bool
	dbManager        *database.Manager // nil for the memory driver
	close            func()
}

func setupStorage(
	ctx context.Context,
	cfg *config.Config,
	logger coreport.Logger,
	tp coreport.TimeProvider,
	appMetrics *metrics.Metrics,
) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart", nil)
		return &storage{
			uow:              memory.NewUnitOfWork(memory.NewStore(), logger),
			seedDefaultUsers: true,
			close:            func() {},
		}, nil
	}

	dbManager := database.NewManager(database.NewConfig(cfg.Database, cfg.Logger.Level), logger, tp, appMetrics)
	if _, err := dbManager.Connect(ctx); err != nil {
		return nil, err
	}
	closeDB := func() {
		if err := dbManager.Close(); err != nil {
			logger.Error("Failed to close database", map[string]any{"error": err.Error()})
		}
	}

	if err := dbManager.Migrate(); err != nil {
		closeDB()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	sqlDB, err := dbManager.SQLDB()
	if err != nil {
		closeDB()
		return nil, err
	}
	if err := appMetrics.RegisterDBStats(sqlDB, cfg.Database.Database); err != nil {
		logger.Warn("Failed to register database pool metrics", map[string]any{"error": err.Error()})
	}

	return &storage{
		uow:              dbManager.CreateUnitOfWork(),
		pinger:           dbManager,
		seedDefaultUsers: cfg.Storage.SeedDefaultUsers,
		dbManager:        dbManager,
		close:            closeDB,
	}, nil
}

// setupLocks returns the cross-instance lock backend, or nil for lock.backend local
func setupLocks(
	ctx context.Context,
	cfg *config.Config,
	store *storage,
	logger coreport.Logger,
	tp coreport.TimeProvider,
) (persistence.UserLockRepository, func(), error) {
	switch cfg.Lock.Backend {
	case config.LockDatabase:
		if store.dbManager == nil {
			return nil, nil, fmt.Errorf("lock backend %q needs a database", config.LockDatabase)
		}
		locks := repository.NewUserLockRepository(store.dbManager.DB(), tp, logger)
		go cleanupExpiredLocks(ctx, locks, logger)
		return locks, func() {}, nil

	case config.LockRedis:
		client, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Error("Failed to close redis client", map[string]any{"error": err.Error()})
			}
		}
		return lock.NewRedisUserLock(client, logger), closeClient, nil

	default:
		return nil, func() {}, nil
	}
}

// cleanupExpiredLocks deletes lock rows left behind by crashed instances until ctx is done
func cleanupExpiredLocks(ctx context.Context, locks *repository.UserLockRepository, logger coreport.Logger) {
	ticker := time.NewTicker(expiredLockCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := locks.CleanupExpiredLocks(ctx)
			if err != nil {
				logger.Warn("Failed to clean up expired user locks", map[string]any{"error": err.Error()})
				continue
			}
			if removed > 0 {
				logger.Info("Cleaned up expired user locks", map[string]any{"count": removed})
			}
		}
	}
}
