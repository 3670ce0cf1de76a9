package name

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"whoami/internal/names/models"
	"whoami/pkg/domain"
	"whoami/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
//   - Return sentinel.ErrNotFound when the requested name does not exist
//   - Return sentinel.ErrAlreadyUsed when CreateIfAbsent hits an existing id
//   - Return wrapped errors with context for infrastructure failures
//
// InMemoryStore keeps names in memory for tests and dev. Records are copied on
// the way in and out so callers never alias stored state.
type InMemoryStore struct {
	mu      sync.RWMutex
	names   map[string]*models.Name
	nextSeq int64
	tokens  uint64
}

// NewInMemory constructs an empty in-memory name store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{names: make(map[string]*models.Name)}
}

func clone(n *models.Name) *models.Name {
	c := *n
	c.Approvals = slices.Clone(n.Approvals)
	if n.Metadata.ImageData != nil {
		logo := *n.Metadata.ImageData
		logo.Data = slices.Clone(logo.Data)
		c.Metadata.ImageData = &logo
	}
	return &c
}

// CreateIfAbsent stores n unless its id is taken. The check and the insert
// happen under one lock. n.Seq is assigned on success.
func (s *InMemoryStore) CreateIfAbsent(_ context.Context, n *models.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[n.ID]; ok {
		return fmt.Errorf("name %q: %w", n.ID, sentinel.ErrAlreadyUsed)
	}
	s.nextSeq++
	n.Seq = s.nextSeq
	s.names[n.ID] = clone(n)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.Name, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.names[id]; ok {
		return clone(n), nil
	}
	return nil, fmt.Errorf("name %q: %w", id, sentinel.ErrNotFound)
}

// Update overwrites the mutable parts of an existing record.
func (s *InMemoryStore) Update(_ context.Context, n *models.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.names[n.ID]
	if !ok {
		return fmt.Errorf("name %q: %w", n.ID, sentinel.ErrNotFound)
	}
	updated := clone(n)
	updated.Seq = existing.Seq
	updated.ParentID = existing.ParentID
	updated.Separator = existing.Separator
	updated.CreatedAt = existing.CreatedAt
	s.names[n.ID] = updated
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[id]; !ok {
		return fmt.Errorf("name %q: %w", id, sentinel.ErrNotFound)
	}
	delete(s.names, id)
	return nil
}

// DeleteMany removes every listed id and returns how many were present.
func (s *InMemoryStore) DeleteMany(_ context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, id := range ids {
		if _, ok := s.names[id]; ok {
			delete(s.names, id)
			removed++
		}
	}
	return removed, nil
}

// ListByOwner returns owner's names matching filter, in mint order.
func (s *InMemoryStore) ListByOwner(_ context.Context, owner domain.Address, filter models.ListFilter) ([]*models.Name, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(func(n *models.Name) bool { return n.Owner == owner }, filter), nil
}

// ListAll returns every name matching filter, in mint order.
func (s *InMemoryStore) ListAll(_ context.Context, filter models.ListFilter) ([]*models.Name, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(func(*models.Name) bool { return true }, filter), nil
}

func (s *InMemoryStore) list(keep func(*models.Name) bool, filter models.ListFilter) []*models.Name {
	matched := make([]*models.Name, 0)
	for _, n := range s.names {
		if keep(n) && filter.Matches(n) {
			matched = append(matched, n)
		}
	}
	slices.SortFunc(matched, func(a, b *models.Name) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	if filter.StartAfter != "" {
		if i := slices.IndexFunc(matched, func(n *models.Name) bool { return n.ID == filter.StartAfter }); i >= 0 {
			matched = matched[i+1:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	out := make([]*models.Name, len(matched))
	for i, n := range matched {
		out[i] = clone(n)
	}
	return out
}

// CountByOwner counts every record held by owner, paths included.
func (s *InMemoryStore) CountByOwner(_ context.Context, owner domain.Address) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.names {
		if n.Owner == owner {
			count++
		}
	}
	return count, nil
}

// FindByContractAddress returns the first name, in mint order, whose profile
// declares addr as its contract address.
func (s *InMemoryStore) FindByContractAddress(_ context.Context, addr domain.Address) (*models.Name, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *models.Name
	for _, n := range s.names {
		if n.Metadata.ContractAddress == addr.String() && (best == nil || n.Seq < best.Seq) {
			best = n
		}
	}
	if best == nil {
		return nil, fmt.Errorf("contract %q: %w", addr, sentinel.ErrNotFound)
	}
	return clone(best), nil
}

// AddTokens adjusts the registry-wide token counter by delta and returns the new value.
func (s *InMemoryStore) AddTokens(_ context.Context, delta int64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if delta < 0 && uint64(-delta) > s.tokens {
		return s.tokens, fmt.Errorf("token counter underflow: %w", sentinel.ErrConflict)
	}
	s.tokens = uint64(int64(s.tokens) + delta)
	return s.tokens, nil
}

// TokenCount returns the registry-wide token counter.
func (s *InMemoryStore) TokenCount(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, nil
}
