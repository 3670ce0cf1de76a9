package alias

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"whoami/pkg/domain"
	"whoami/pkg/platform/sentinel"
	txcontext "whoami/pkg/platform/tx"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "whoami_alias_cache_lookups_total",
	Help: "Primary alias cache lookups by result",
}, []string{"result"})

const (
	aliasKeyPrefix = "whoami:alias:"
	// absentMarker caches "owner has no explicit alias" so misses stay cheap.
	absentMarker = "\x00"
)

// Store is the authoritative alias store the cache reads through to.
type Store interface {
	Get(ctx context.Context, owner domain.Address) (string, error)
	Set(ctx context.Context, owner domain.Address, id string) error
	Clear(ctx context.Context, owner domain.Address) error
}

// CachedStore is a read-through Redis cache in front of another alias store.
// Writes go to the inner store and drop the cached key once their transaction
// commits. Cache failures are logged and never fail the operation.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// CachedStoreOption configures a CachedStore.
type CachedStoreOption func(*CachedStore)

func WithTTL(ttl time.Duration) CachedStoreOption {
	return func(s *CachedStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) CachedStoreOption {
	return func(s *CachedStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewCached(inner Store, client *redis.Client, opts ...CachedStoreOption) *CachedStore {
	s := &CachedStore{
		inner:  inner,
		client: client,
		ttl:    5 * time.Minute,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func cacheKey(owner domain.Address) string {
	return aliasKeyPrefix + owner.String()
}

// versionKey is bumped on every invalidation. Fills watch it so a read of the
// old alias cannot be cached after a newer write commits.
func versionKey(owner domain.Address) string {
	return aliasKeyPrefix + owner.String() + ":v"
}

// Get reads through the cache. Reads inside a transaction go straight to the
// inner store so uncommitted aliases are never cached.
func (s *CachedStore) Get(ctx context.Context, owner domain.Address) (string, error) {
	if txcontext.InTx(ctx) {
		return s.inner.Get(ctx, owner)
	}

	cached, err := s.client.Get(ctx, cacheKey(owner)).Result()
	switch {
	case err == nil && cached == absentMarker:
		cacheLookups.WithLabelValues("hit").Inc()
		return "", sentinel.ErrNotFound
	case err == nil:
		cacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	case !errors.Is(err, redis.Nil):
		cacheLookups.WithLabelValues("error").Inc()
		s.logger.WarnContext(ctx, "alias cache read failed", "error", err, "owner", owner.String())
		return s.inner.Get(ctx, owner)
	}

	cacheLookups.WithLabelValues("miss").Inc()
	return s.fill(ctx, owner)
}

// fill loads the alias from the inner store and caches it unless the owner's
// version changed in between.
func (s *CachedStore) fill(ctx context.Context, owner domain.Address) (string, error) {
	var (
		id       string
		innerErr error
		loaded   bool
	)
	watchErr := s.client.Watch(ctx, func(tx *redis.Tx) error {
		id, innerErr = s.inner.Get(ctx, owner)
		loaded = true
		value := id
		if errors.Is(innerErr, sentinel.ErrNotFound) {
			value = absentMarker
		} else if innerErr != nil {
			return nil
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey(owner), value, s.ttl)
			return nil
		})
		return err
	}, versionKey(owner))

	switch {
	case errors.Is(watchErr, redis.TxFailedErr):
		cacheLookups.WithLabelValues("superseded").Inc()
	case watchErr != nil:
		s.logger.WarnContext(ctx, "alias cache fill failed", "error", watchErr, "owner", owner.String())
	}
	if !loaded {
		return s.inner.Get(ctx, owner)
	}
	if innerErr != nil {
		return "", innerErr
	}
	return id, nil
}

func (s *CachedStore) Set(ctx context.Context, owner domain.Address, id string) error {
	if err := s.inner.Set(ctx, owner, id); err != nil {
		return err
	}
	txcontext.AfterCommit(ctx, func(ctx context.Context) { s.invalidate(ctx, owner) })
	return nil
}

func (s *CachedStore) Clear(ctx context.Context, owner domain.Address) error {
	if err := s.inner.Clear(ctx, owner); err != nil {
		return err
	}
	txcontext.AfterCommit(ctx, func(ctx context.Context) { s.invalidate(ctx, owner) })
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context, owner domain.Address) {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(owner))
		pipe.Expire(ctx, versionKey(owner), 2*s.ttl)
		pipe.Del(ctx, cacheKey(owner))
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "alias cache invalidation failed", "error", err, "owner", owner.String())
	}
}
