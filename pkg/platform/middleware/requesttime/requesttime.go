// Package requesttime provides middleware for request-scoped time and block
// height. All operations within a single request see the same "now", which is
// what expirations are evaluated against.
package requesttime

import (
	"net/http"
	"strconv"
	"time"

	"whoami/pkg/requestcontext"
)

// HeaderBlockHeight lets the caller pin the chain height expirations are checked against.
const HeaderBlockHeight = "X-Block-Height"

// Middleware captures the current time at the start of the request and the
// optional block height header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		if raw := r.Header.Get(HeaderBlockHeight); raw != "" {
			height, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"bad_request","error_description":"X-Block-Height must be an unsigned integer"}`))
				return
			}
			ctx = requestcontext.WithBlockHeight(ctx, height)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
