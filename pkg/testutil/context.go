package testutil

import (
	"net/http"
	"time"

	"whoami/pkg/domain"
	"whoami/pkg/requestcontext"
)

// WithCaller marks the request as authenticated by caller, as the auth
// middleware would. Invalid addresses leave the request anonymous.
func WithCaller(req *http.Request, caller string) *http.Request {
	addr, err := domain.ParseAddress(caller)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithCaller(req.Context(), addr))
}

// WithBlock pins the request time and block height used for expiry checks.
func WithBlock(req *http.Request, now time.Time, height uint64) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), now)
	ctx = requestcontext.WithBlockHeight(ctx, height)
	return req.WithContext(ctx)
}

// WithRequestID sets the request id normally assigned by the request middleware.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
