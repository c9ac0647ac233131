package core

import (
	"context"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/stretchr/testify/mock"
)

type TimeProvider struct {
	mock.Mock
}

func (t *TimeProvider) Now() time.Time {
	args := t.Called()
	return args.Get(0).(time.Time)
}

func (t *TimeProvider) Since(start time.Time) coreport.Duration {
	args := t.Called(start)
	return args.Get(0).(coreport.Duration)
}

func (t *TimeProvider) Sleep(d coreport.Duration) {
	t.Called(d)
}

func (t *TimeProvider) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	args := t.Called(ctx, timeout)
	return args.Get(0).(context.Context), args.Get(1).(context.CancelFunc)
}

// FixedTimeProvider is frozen at a point in time and records sleeps instead of blocking
type FixedTimeProvider struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []coreport.Duration
}

func NewFixedTimeProvider(now time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{now: now}
}

func (f *FixedTimeProvider) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *FixedTimeProvider) Since(start time.Time) coreport.Duration {
	return coreport.Duration(f.Now().Sub(start))
}

func (f *FixedTimeProvider) Sleep(d coreport.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleeps = append(f.sleeps, d)
}

func (f *FixedTimeProvider) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

// Advance moves the clock forward
func (f *FixedTimeProvider) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Sleeps returns the recorded sleep durations
func (f *FixedTimeProvider) Sleeps() []coreport.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]coreport.Duration(nil), f.sleeps...)
}
