package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"whoami/internal/ratelimit/metrics"
	"whoami/internal/ratelimit/models"
	"whoami/pkg/platform/httputil"
	"whoami/pkg/requestcontext"
)

// RateLimiter decides whether a request may proceed.
type RateLimiter interface {
	Check(ctx context.Context, class models.Class, subject string) (*models.Result, error)
}

type Middleware struct {
	limiter  RateLimiter
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns every check into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit applies one class budget to every request it wraps.
func (m *Middleware) Limit(class models.Class) func(http.Handler) http.Handler {
	return m.LimitBy(func(*http.Request) models.Class { return class })
}

// LimitBy applies the budget of the class chosen by classify to the
// authenticated caller, or to the client IP when the request carries no caller.
func (m *Middleware) LimitBy(classify func(*http.Request) models.Class) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			class := classify(r)
			subject := requestcontext.Caller(ctx).String()
			if subject == "" {
				subject = "ip:" + requestcontext.ClientIP(ctx)
			}

			result, err := m.limiter.Check(ctx, class, subject)
			if err != nil {
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"error", err,
					"class", string(class),
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}
			if result == nil {
				next.ServeHTTP(w, r)
				return
			}

			addHeaders(w, result)
			if !result.Allowed {
				if m.metrics != nil {
					m.metrics.IncrementRejected(string(class))
				}
				m.logger.InfoContext(ctx, "rate limit exceeded",
					"class", string(class),
					"subject", subject,
					"retry_after", result.RetryAfter,
				)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
					Error:            "rate_limit_exceeded",
					ErrorDescription: "Too many registry writes. Please try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func addHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if result.Degraded {
		w.Header().Set("X-RateLimit-Status", "degraded")
	}
}
