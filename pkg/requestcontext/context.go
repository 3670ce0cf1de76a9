// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services and stores read them without importing net/http.
//
// Usage in services (read values):
//
//	caller := requestcontext.Caller(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithCaller(ctx, addr)
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"whoami/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	callerKey      struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	clientAgentKey struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	blockHeightKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyCaller      = callerKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyUserAgent   = userAgentKey{}
	ContextKeyClientAgent = clientAgentKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyBlockHeight = blockHeightKey{}
)

// -----------------------------------------------------------------------------
// Caller
// -----------------------------------------------------------------------------

// Caller retrieves the authenticated caller address.
// Returns the empty address if the request is anonymous.
func Caller(ctx context.Context) domain.Address {
	if addr, ok := ctx.Value(ContextKeyCaller).(domain.Address); ok {
		return addr
	}
	return ""
}

// WithCaller injects the authenticated caller address.
func WithCaller(ctx context.Context, addr domain.Address) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, addr)
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent)
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the raw User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// ClientAgent retrieves the parsed "browser/os" summary of the User-Agent.
func ClientAgent(ctx context.Context) string {
	if ca, ok := ctx.Value(ContextKeyClientAgent).(string); ok {
		return ca
	}
	return ""
}

// WithClientMetadata injects client IP, raw User-Agent and its parsed summary.
// Useful for service unit tests that don't run the full HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent, clientAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	ctx = context.WithValue(ctx, ContextKeyUserAgent, userAgent)
	ctx = context.WithValue(ctx, ContextKeyClientAgent, clientAgent)
	return ctx
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Request time and ledger height
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// BlockHeight returns the ledger height the request executes at, or 0 when unknown.
// Approval expirations expressed as heights are evaluated against it.
func BlockHeight(ctx context.Context) uint64 {
	if h, ok := ctx.Value(ContextKeyBlockHeight).(uint64); ok {
		return h
	}
	return 0
}

// WithBlockHeight injects the ledger height.
func WithBlockHeight(ctx context.Context, height uint64) context.Context {
	return context.WithValue(ctx, ContextKeyBlockHeight, height)
}
