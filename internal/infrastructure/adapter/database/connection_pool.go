package database

import (
	"database/sql"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
)

// poolSaturation is the in-use ratio above which the monitor warns
const poolSaturation = 0.8

// statsSource is the part of *sql.DB the monitor samples
type statsSource interface {
	Stats() sql.DBStats
}

// ConnectionPoolMonitor periodically samples the pool. It warns when the pool
// is close to exhaustion or when requests had to wait for a connection since
// the previous sample. Gauges are exported separately by the metrics adapter.
type ConnectionPoolMonitor struct {
	db       statsSource
	logger   coreport.Logger
	stopOnce sync.Once
	stopChan chan struct{}

	// lastWaitCount is only touched by the sampling goroutine
	lastWaitCount int64
}

// NewConnectionPoolMonitor creates a new connection pool monitor
func NewConnectionPoolMonitor(db *sql.DB, logger coreport.Logger) *ConnectionPoolMonitor {
	return newPoolMonitor(db, logger)
}

func newPoolMonitor(db statsSource, logger coreport.Logger) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		db:       db,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start samples once and then every interval until Stop is called
func (m *ConnectionPoolMonitor) Start(interval time.Duration) {
	m.lastWaitCount = m.db.Stats().WaitCount

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sample()
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop stops the monitoring. It is safe to call more than once.
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// sample reports whether it logged a warning
func (m *ConnectionPoolMonitor) sample() bool {
	stats := m.db.Stats()
	newWaits := stats.WaitCount - m.lastWaitCount
	m.lastWaitCount = stats.WaitCount

	saturated := stats.MaxOpenConnections > 0 &&
		float64(stats.InUse) > float64(stats.MaxOpenConnections)*poolSaturation
	if !saturated && newWaits <= 0 {
		return false
	}

	m.logger.Warn("Database connection pool under pressure", map[string]any{
		"in_use":    stats.InUse,
		"max_open":  stats.MaxOpenConnections,
		"idle":      stats.Idle,
		"new_waits": newWaits,
		"wait_time": stats.WaitDuration.String(),
	})
	return true
}
