package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/port/usecase"
)

const defaultQueueSize = 100

// ProcessorFunc applies one point change; the queue guarantees it never runs
// concurrently for the same user inside this process.
type ProcessorFunc func(ctx context.Context, req usecase.PointChangeRequest) error

// queuedChange represents a point change waiting for its user's worker
type queuedChange struct {
	ctx    context.Context
	req    usecase.PointChangeRequest
	result chan error
}

// UserQueue provides sequential processing of point changes per user
type UserQueue struct {
	logger      coreport.Logger
	processor   ProcessorFunc
	queueSize   int
	idleTimeout time.Duration

	// closed and queues are guarded by mu. Senders hold the read lock from
	// lookup through send, so a channel is only evicted or closed while no
	// sender holds it.
	mu      sync.RWMutex
	closed  bool
	queues  map[uint64]chan *queuedChange
	workers sync.WaitGroup
}

// QueueOption customizes a UserQueue
type QueueOption func(*UserQueue)

// WithIdleTimeout stops a user's worker after it has been idle for d. Zero keeps
// workers until shutdown.
func WithIdleTimeout(d time.Duration) QueueOption {
	return func(q *UserQueue) {
		q.idleTimeout = d
	}
}

// NewUserQueue creates a new per-user queue
func NewUserQueue(logger coreport.Logger, queueSize int, processor ProcessorFunc, opts ...QueueOption) *UserQueue {
	if processor == nil {
		panic("ledger processor function cannot be nil")
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	q := &UserQueue{
		logger:    logger,
		processor: processor,
		queueSize: queueSize,
		queues:    make(map[uint64]chan *queuedChange),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue adds a change to the user's queue and waits for its result
func (q *UserQueue) Enqueue(ctx context.Context, req usecase.PointChangeRequest) error {
	change := &queuedChange{
		ctx:    ctx,
		req:    req,
		result: make(chan error, 1),
	}

	for {
		sent, err := q.send(ctx, change)
		if err != nil {
			return err
		}
		if sent {
			break
		}
		if err := q.startWorker(req.UserID); err != nil {
			return err
		}
	}

	select {
	case err := <-change.result:
		return err
	case <-ctx.Done():
		// The worker skips changes whose context is already done, but one that
		// already started still commits or rolls back on its own.
		q.logger.Warn("Context canceled while waiting for point change", map[string]any{
			"user_id": req.UserID,
			"error":   ctx.Err().Error(),
		})
		return ctx.Err()
	}
}

// send hands the change to the user's worker. It reports false when the user
// has no worker yet.
func (q *UserQueue) send(ctx context.Context, change *queuedChange) (bool, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false, errs.ErrQueueClosed
	}
	queue, ok := q.queues[change.req.UserID]
	if !ok {
		return false, nil
	}

	select {
	case queue <- change:
		return true, nil
	case <-ctx.Done():
		q.logger.Warn("Context canceled while enqueueing point change", map[string]any{
			"user_id": change.req.UserID,
			"error":   ctx.Err().Error(),
		})
		return false, ctx.Err()
	}
}

// startWorker creates the user's channel and worker unless another caller already did
func (q *UserQueue) startWorker(userID uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errs.ErrQueueClosed
	}
	if _, ok := q.queues[userID]; ok {
		return nil
	}

	queue := make(chan *queuedChange, q.queueSize)
	q.queues[userID] = queue
	q.workers.Add(1)
	go q.work(userID, queue)

	q.logger.Debug("Started ledger queue worker", map[string]any{"user_id": userID})
	return nil
}

// work drains one user's queue until it is closed or evicted
func (q *UserQueue) work(userID uint64, queue chan *queuedChange) {
	defer q.workers.Done()

	var idle <-chan time.Time
	var timer *time.Timer
	if q.idleTimeout > 0 {
		timer = time.NewTimer(q.idleTimeout)
		defer timer.Stop()
		idle = timer.C
	}

	for {
		select {
		case change, ok := <-queue:
			if !ok {
				q.logger.Debug("Ledger queue worker stopped", map[string]any{"user_id": userID})
				return
			}

			err := change.ctx.Err()
			if err == nil {
				err = q.processor(change.ctx, change.req)
			}
			change.result <- err

			// A deleted or unknown user gets no further use out of its worker
			if errors.Is(err, errs.ErrUserNotFound) && q.evict(userID, queue, "user not found") {
				return
			}
			if timer != nil {
				timer.Reset(q.idleTimeout)
			}

		case <-idle:
			if q.evict(userID, queue, "idle") {
				return
			}
			timer.Reset(q.idleTimeout)
		}
	}
}

// evict removes the user's empty channel. It gives up if any sender holds the
// lock, and the worker tries again on its next idle tick.
func (q *UserQueue) evict(userID uint64, queue chan *queuedChange, reason string) bool {
	if !q.mu.TryLock() {
		return false
	}
	defer q.mu.Unlock()

	if q.closed || q.queues[userID] != queue || len(queue) > 0 {
		return false
	}
	delete(q.queues, userID)

	q.logger.Debug("Evicted ledger queue worker", map[string]any{
		"user_id": userID,
		"reason":  reason,
	})
	return true
}

// Len returns the number of users with a running worker
func (q *UserQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.queues)
}

// Shutdown stops accepting changes, lets workers drain what is queued and
// waits for them until ctx is done.
func (q *UserQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		for _, queue := range q.queues {
			close(queue)
		}
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.logger.Info("Ledger queue shut down", nil)
		return nil
	case <-ctx.Done():
		q.logger.Warn("Ledger queue shutdown timed out", map[string]any{"error": ctx.Err().Error()})
		return ctx.Err()
	}
}
