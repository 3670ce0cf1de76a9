package settings

import (
	"context"
	"sync"

	"whoami/internal/names/models"
	"whoami/pkg/platform/sentinel"
)

// InMemoryStore holds the single registry settings record.
type InMemoryStore struct {
	mu       sync.RWMutex
	settings *models.Settings
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func cloneSettings(s *models.Settings) *models.Settings {
	c := *s
	f := &c.MintingFees
	if f.TokenCap != nil {
		v := *f.TokenCap
		f.TokenCap = &v
	}
	if f.BaseMintFee != nil {
		v := *f.BaseMintFee
		f.BaseMintFee = &v
	}
	if f.BurnPercentage != nil {
		v := *f.BurnPercentage
		f.BurnPercentage = &v
	}
	if f.ShortNameSurcharge != nil {
		v := *f.ShortNameSurcharge
		f.ShortNameSurcharge = &v
	}
	return &c
}

// Load returns the settings, or sentinel.ErrNotFound before instantiation.
func (s *InMemoryStore) Load(_ context.Context) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, sentinel.ErrNotFound
	}
	return cloneSettings(s.settings), nil
}

func (s *InMemoryStore) Save(_ context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = cloneSettings(settings)
	return nil
}
