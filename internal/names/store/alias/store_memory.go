package alias

import (
	"context"
	"fmt"
	"sync"

	"whoami/pkg/domain"
	"whoami/pkg/platform/sentinel"
)

// InMemoryStore maps owners to their primary alias.
type InMemoryStore struct {
	mu      sync.RWMutex
	aliases map[domain.Address]string
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{aliases: make(map[domain.Address]string)}
}

func (s *InMemoryStore) Get(_ context.Context, owner domain.Address) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.aliases[owner]
	if !ok {
		return "", fmt.Errorf("alias for %s: %w", owner, sentinel.ErrNotFound)
	}
	return id, nil
}

func (s *InMemoryStore) Set(_ context.Context, owner domain.Address, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[owner] = id
	return nil
}

// Clear removes owner's alias. Clearing an absent alias is not an error.
func (s *InMemoryStore) Clear(_ context.Context, owner domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.aliases, owner)
	return nil
}
