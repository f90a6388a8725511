// Package ratelimit enforces a minimum wall-clock gap between outbound
// generation API calls.
package ratelimit

import (
	"context"
	"interview-coach/internal/logger"
	"time"

	"go.uber.org/zap"
)

// DefaultMinInterval is the gap enforced between generation calls.
const DefaultMinInterval = 5 * time.Second

// Limiter blocks callers until MinInterval has passed since the previous Acquire.
//
// Reading and recording the timestamp are separate steps and no lock is held
// across the wait: concurrent callers can observe the same stale timestamp and
// proceed together. Evaluation batches run sequentially, which is what the
// interval is sized for.
type Limiter struct {
	interval time.Duration
	store    Store
	clock    Clock
}

// New returns a Limiter. A nil store or clock falls back to MemoryStore and RealClock.
func New(interval time.Duration, store Store, clock Clock) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Limiter{interval: interval, store: store, clock: clock}
}

// MinInterval returns the configured gap.
func (l *Limiter) MinInterval() time.Duration {
	return l.interval
}

// Acquire waits out the remainder of the interval, if any, then records the
// current time as the last call. It only fails when ctx ends during the wait.
// Store failures are logged and treated as "no previous call".
func (l *Limiter) Acquire(ctx context.Context) error {
	last, ok, err := l.store.Last(ctx)
	if err != nil {
		logger.Get().Warn("Rate limit state unavailable, proceeding without wait", zap.Error(err))
		ok = false
	}

	if ok {
		if wait := l.interval - l.clock.Now().Sub(last); wait > 0 {
			logger.Get().Debug("Waiting to avoid rate limit", zap.Duration("wait", wait))
			if err := l.clock.Sleep(ctx, wait); err != nil {
				return err
			}
		}
	}

	if err := l.store.Record(ctx, l.clock.Now()); err != nil {
		logger.Get().Warn("Failed to record rate limit state", zap.Error(err))
	}
	return nil
}
