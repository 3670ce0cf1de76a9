package operator

import (
	"context"
	"fmt"
	"sync"

	"whoami/internal/names/models"
	"whoami/pkg/domain"
	"whoami/pkg/platform/sentinel"
)

type key struct {
	owner    domain.Address
	operator domain.Address
}

// InMemoryStore keeps operator grants in memory for tests and dev.
type InMemoryStore struct {
	mu     sync.RWMutex
	grants map[key]models.Operator
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{grants: make(map[key]models.Operator)}
}

// Upsert stores op, replacing any earlier grant for the same pair.
func (s *InMemoryStore) Upsert(_ context.Context, op models.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[key{op.Owner, op.Operator}] = op
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, owner, operator domain.Address) (*models.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.grants[key{owner, operator}]
	if !ok {
		return nil, fmt.Errorf("operator %s for %s: %w", operator, owner, sentinel.ErrNotFound)
	}
	return &op, nil
}

func (s *InMemoryStore) Delete(_ context.Context, owner, operator domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{owner, operator}
	if _, ok := s.grants[k]; !ok {
		return fmt.Errorf("operator %s for %s: %w", operator, owner, sentinel.ErrNotFound)
	}
	delete(s.grants, k)
	return nil
}
