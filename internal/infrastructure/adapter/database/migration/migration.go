package migration

import (
	"embed"
	"errors"
	"fmt"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// CurrentSchemaVersion is the newest migration shipped with the binary
const CurrentSchemaVersion uint = 3

// Source returns the embedded migration files as a golang-migrate source
func Source() (source.Driver, error) {
	return iofs.New(sqlFiles, "sql")
}

// MigrationManager applies the embedded schema migrations
type MigrationManager struct {
	databaseURL string
	logger      coreport.Logger
}

// NewMigrationManager creates a new migration manager for the database at databaseURL
func NewMigrationManager(databaseURL string, logger coreport.Logger) *MigrationManager {
	return &MigrationManager{
		databaseURL: databaseURL,
		logger:      logger,
	}
}

// MigrateAll brings the schema up to CurrentSchemaVersion
func (m *MigrationManager) MigrateAll() error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	migrator, err := m.newMigrator()
	if err != nil {
		return err
	}
	defer m.close(migrator)

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("Database already at target version, skipping migration", map[string]any{
				"version": CurrentSchemaVersion,
			})
			return nil
		}
		m.logger.Error("Failed to run migrations", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	m.logger.Info("Database migrations completed", map[string]any{
		"version": version,
		"dirty":   dirty,
	})
	return nil
}

// Rollback reverts the given number of migrations
func (m *MigrationManager) Rollback(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got: %d", steps)
	}

	migrator, err := m.newMigrator()
	if err != nil {
		return err
	}
	defer m.close(migrator)

	if err := migrator.Steps(-steps); err != nil {
		return fmt.Errorf("failed to roll back %d migrations: %w", steps, err)
	}

	m.logger.Info("Database migrations rolled back", map[string]any{"steps": steps})
	return nil
}

func (m *MigrationManager) newMigrator() (*migrate.Migrate, error) {
	src, err := Source()
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", src, m.databaseURL)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return migrator, nil
}

func (m *MigrationManager) close(migrator *migrate.Migrate) {
	srcErr, dbErr := migrator.Close()
	if srcErr != nil || dbErr != nil {
		m.logger.Warn("Failed to close migrator", map[string]any{
			"source_error":   fmt.Sprint(srcErr),
			"database_error": fmt.Sprint(dbErr),
		})
	}
}
