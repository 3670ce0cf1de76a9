package middleware

import (
	"context"
	"errors"
	"log/slog"

	"whoami/internal/ratelimit/metrics"
	"whoami/internal/ratelimit/models"
	"whoami/pkg/platform/circuit"
)

// Store is a sliding window bucket store.
type Store interface {
	Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error)
}

// Limiter checks the primary store and fails over to an in-memory store
// while the primary is unhealthy. Errors below the breaker threshold let the
// request through.
type Limiter struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	limits   map[models.Class]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type LimiterOption func(*Limiter)

func WithFallback(store Store) LimiterOption {
	return func(l *Limiter) {
		l.fallback = store
	}
}

func WithBreaker(b *circuit.Breaker) LimiterOption {
	return func(l *Limiter) {
		if b != nil {
			l.breaker = b
		}
	}
}

func WithLimiterLogger(logger *slog.Logger) LimiterOption {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithLimiterMetrics(m *metrics.Metrics) LimiterOption {
	return func(l *Limiter) {
		l.metrics = m
	}
}

func NewLimiter(primary Store, limits map[models.Class]models.Limit, opts ...LimiterOption) (*Limiter, error) {
	if primary == nil {
		return nil, errors.New("rate limit store is required")
	}
	if len(limits) == 0 {
		return nil, errors.New("at least one rate limit is required")
	}
	l := &Limiter{
		primary: primary,
		limits:  limits,
		breaker: circuit.New("ratelimit-store"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Check records one request by subject in class. A nil result means the
// class is unlimited or the check could not be made.
func (l *Limiter) Check(ctx context.Context, class models.Class, subject string) (*models.Result, error) {
	limit, ok := l.limits[class]
	if !ok {
		return nil, nil
	}
	key := models.Key(class, subject)

	result, err := l.primary.Allow(ctx, key, limit)
	if err != nil {
		if l.metrics != nil {
			l.metrics.IncrementStoreErrors()
		}
		useFallback, change := l.breaker.RecordFailure()
		l.logChange(change)
		if useFallback && l.fallback != nil {
			return l.degraded(ctx, key, limit)
		}
		return nil, err
	}

	usePrimary, change := l.breaker.RecordSuccess()
	l.logChange(change)
	if !usePrimary && l.fallback != nil {
		return l.degraded(ctx, key, limit)
	}
	return result, nil
}

func (l *Limiter) degraded(ctx context.Context, key string, limit models.Limit) (*models.Result, error) {
	result, err := l.fallback.Allow(ctx, key, limit)
	if err != nil {
		return nil, err
	}
	result.Degraded = true
	return result, nil
}

func (l *Limiter) logChange(change circuit.StateChange) {
	switch {
	case change.Opened:
		l.logger.Warn("rate limit store unhealthy, using in-memory fallback", "breaker", l.breaker.Name())
	case change.Closed:
		l.logger.Info("rate limit store recovered", "breaker", l.breaker.Name())
	default:
		return
	}
	if l.metrics != nil {
		l.metrics.SetFallback(change.Opened)
	}
}
