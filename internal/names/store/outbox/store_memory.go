package outbox

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"whoami/internal/names/models"
)

// InMemoryStore is an ordered outbox for tests and dev.
type InMemoryStore struct {
	mu      sync.Mutex
	entries []*models.OutboxEntry
	nextSeq int64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entries ...*models.OutboxEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.nextSeq++
		e.Seq = s.nextSeq
		c := *e
		s.entries = append(s.entries, &c)
	}
	return nil
}

// Pending returns up to limit unpublished entries, oldest first.
func (s *InMemoryStore) Pending(_ context.Context, limit int) ([]*models.OutboxEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.OutboxEntry, 0)
	for _, e := range s.entries {
		if e.PublishedAt != nil {
			continue
		}
		c := *e
		out = append(out, &c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if slices.Contains(ids, e.ID) {
			t := at
			e.PublishedAt = &t
		}
	}
	return nil
}
