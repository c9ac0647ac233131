package ledger

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/usecase"
)

// Config tunes the ledger service
type Config struct {
	// OperationTimeout bounds a single point change, including queue wait. Zero disables it.
	OperationTimeout time.Duration
	// LockTTL is how long a cross-instance user lock is held at most
	LockTTL time.Duration
	// QueueSize is the buffer of each per-user queue
	QueueSize int
	// WorkerIdleTimeout stops a user's queue worker after this much idle time. Zero disables it.
	WorkerIdleTimeout time.Duration
}

// DefaultConfig returns the settings used when none are configured
func DefaultConfig() Config {
	return Config{
		OperationTimeout:  10 * time.Second,
		LockTTL:           5 * time.Second,
		QueueSize:         defaultQueueSize,
		WorkerIdleTimeout: 5 * time.Minute,
	}
}

// Service is the Points-Ledger Service: the only component that changes a
// user's balance, always together with a new ledger entry.
type Service struct {
	uow          persistence.UnitOfWork
	locks        persistence.UserLockRepository
	queue        *UserQueue
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	metrics      coreport.LedgerMetrics
	cfg          Config
}

// Option customizes a Service
type Option func(*Service)

// WithUserLocks serializes writers across instances with the given lock backend
func WithUserLocks(locks persistence.UserLockRepository) Option {
	return func(s *Service) {
		s.locks = locks
	}
}

// WithMetrics reports every operation to the given recorder
func WithMetrics(metrics coreport.LedgerMetrics) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// NewLedgerService creates the ledger service and starts accepting changes
func NewLedgerService(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
	opts ...Option,
) *Service {
	s := &Service{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      coreport.NopLedgerMetrics{},
		cfg:          cfg,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.queue = NewUserQueue(logger, cfg.QueueSize, s.apply, WithIdleTimeout(cfg.WorkerIdleTimeout))
	return s
}

// Shutdown stops accepting changes and waits for queued ones to finish
func (s *Service) Shutdown(ctx context.Context) error {
	return s.queue.Shutdown(ctx)
}

var _ usecase.LedgerUseCase = (*Service)(nil)
