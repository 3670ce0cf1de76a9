package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"whoami/pkg/requestcontext"
)

// HeaderRequestID carries the request id in and out of the service.
const HeaderRequestID = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or mints a new one, echoes it on
// the response and stores it in the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}

// GetRequestID retrieves the request id from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
