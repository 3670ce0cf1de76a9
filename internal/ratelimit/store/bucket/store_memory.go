package bucket

import (
	"context"
	"sync"
	"time"

	"whoami/internal/ratelimit/models"
)

// InMemoryStore is a process-local sliding window store. It backs single
// instance deployments and serves as the fallback while Redis is unavailable.
type InMemoryStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	now     func() time.Time
}

// MemoryOption configures an InMemoryStore.
type MemoryOption func(*InMemoryStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

func New(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records one request against key if the window still has room.
func (s *InMemoryStore) Allow(_ context.Context, key string, limit models.Limit) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := prune(s.buckets[key], now.Add(-limit.Window))

	if len(stamps) >= limit.Requests {
		s.buckets[key] = stamps
		resetAt := now.Add(limit.Window)
		if len(stamps) > 0 {
			resetAt = stamps[0].Add(limit.Window)
		}
		return &models.Result{
			Allowed:    false,
			Limit:      limit.Requests,
			ResetAt:    resetAt,
			RetryAfter: models.RetryAfterSeconds(now, resetAt),
		}, nil
	}

	stamps = append(stamps, now)
	s.buckets[key] = stamps
	return &models.Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - len(stamps),
		ResetAt:   stamps[0].Add(limit.Window),
	}, nil
}

// Reset forgets every request recorded for key.
func (s *InMemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// prune drops timestamps at or before cutoff. Timestamps are appended in order.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}
