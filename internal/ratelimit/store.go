package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"interview-coach/internal/cache"
	"interview-coach/internal/domain"
	"strconv"
	"sync"
	"time"
)

// Store persists the timestamp of the last outbound generation call.
type Store interface {
	// Last returns the recorded timestamp, or ok=false when no call was recorded yet.
	Last(ctx context.Context) (t time.Time, ok bool, err error)
	Record(ctx context.Context, t time.Time) error
}

// MemoryStore keeps the timestamp in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	last time.Time
	set  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Last(_ context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.set, nil
}

func (s *MemoryStore) Record(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = t
	s.set = true
	return nil
}

// LastCallKey is the shared key holding the last call timestamp.
var LastCallKey = cache.GenerateCacheKey("ratelimit", "generation", "last_call")

// CacheStore keeps the timestamp in a shared cache so several server
// instances observe the same last call. Entries expire after ttl, at which
// point the interval has elapsed anyway.
type CacheStore struct {
	cache domain.Cache
	ttl   time.Duration
}

func NewCacheStore(c domain.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func (s *CacheStore) Last(ctx context.Context) (time.Time, bool, error) {
	val, err := s.cache.Get(ctx, LastCallKey)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read last call timestamp: %w", err)
	}
	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse last call timestamp %q: %w", val, err)
	}
	return time.Unix(0, nanos), true, nil
}

func (s *CacheStore) Record(ctx context.Context, t time.Time) error {
	if err := s.cache.Set(ctx, LastCallKey, strconv.FormatInt(t.UnixNano(), 10), s.ttl); err != nil {
		return fmt.Errorf("record last call timestamp: %w", err)
	}
	return nil
}
