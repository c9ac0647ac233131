package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/database/migration"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const poolMonitorInterval = 30 * time.Second

// Manager manages database connections
type Manager struct {
	config            *Config
	db                *gorm.DB
	logger            coreport.Logger
	timeProvider      coreport.TimeProvider
	observer          QueryObserver
	connectionMonitor *ConnectionPoolMonitor
}

// NewManager creates a new database manager. observer may be nil.
func NewManager(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider, observer QueryObserver) *Manager {
	return &Manager{
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
		observer:     observer,
	}
}

// GormConfig returns the GORM settings shared by every connection
func (m *Manager) GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: NewDatabaseLogger(m.logger, m.timeProvider, m.config.LogLevel, m.config.SlowQueryThreshold, m.observer),
		NowFunc: func() time.Time {
			return m.timeProvider.Now().UTC()
		},
		PrepareStmt: true,
	}
}

// Connect establishes a database connection, retrying as configured
func (m *Manager) Connect(ctx context.Context) (*gorm.DB, error) {
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	m.logger.Info("Connecting to database", map[string]any{
		"host": m.config.Host,
		"port": m.config.Port,
		"name": m.config.Database,
	})

	retry := RetryConfig{
		MaxRetries:    m.config.RetryAttempts,
		RetryInterval: m.config.RetryDelay,
		MaxInterval:   m.config.RetryDelay,
		// The server may simply not be up yet
		RetryIf: func(error) bool { return true },
	}

	var gormDB *gorm.DB
	err := RetryOnTransientError(ctx, retry, m.timeProvider, m.logger, func() error {
		var openErr error
		gormDB, openErr = gorm.Open(postgres.Open(m.config.DSN()), m.GormConfig())
		return openErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", m.config.RetryAttempts, err)
	}

	if err := m.Attach(gormDB); err != nil {
		return nil, err
	}

	m.logger.Info("Successfully connected to database", map[string]any{
		"host":           m.config.Host,
		"name":           m.config.Database,
		"max_open_conns": m.config.MaxOpenConns,
		"max_idle_conns": m.config.MaxIdleConns,
	})
	return m.db, nil
}

// Attach configures the pool of an opened connection and starts monitoring it
func (m *Manager) Attach(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	if m.config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
	}
	if m.config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	}
	if m.config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	}

	m.db = gormDB
	m.connectionMonitor = NewConnectionPoolMonitor(sqlDB, m.logger)
	m.connectionMonitor.Start(poolMonitorInterval)
	return nil
}

// DB returns the GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// SQLDB returns the underlying connection pool
func (m *Manager) SQLDB() (*sql.DB, error) {
	if m.db == nil {
		return nil, fmt.Errorf("database is not connected")
	}
	return m.db.DB()
}

// Ping checks that the database answers within the query timeout
func (m *Manager) Ping(ctx context.Context) error {
	sqlDB, err := m.SQLDB()
	if err != nil {
		return err
	}

	if m.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.QueryTimeout)
		defer cancel()
	}
	return sqlDB.PingContext(ctx)
}

// Migrate applies the embedded schema migrations
func (m *Manager) Migrate() error {
	return migration.NewMigrationManager(m.config.URL(), m.logger).MigrateAll()
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection", nil)

	if m.connectionMonitor != nil {
		m.connectionMonitor.Stop()
	}

	sqlDB, err := m.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateUnitOfWork creates a new UnitOfWork instance
func (m *Manager) CreateUnitOfWork() persistence.UnitOfWork {
	return NewUnitOfWork(m.db, m.logger, m.timeProvider)
}
