package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"whoami/pkg/requestcontext"
)

// ClientMetadata extracts the client IP and User-Agent from the request and
// stores them, with a short client summary, in the context for audit logs.
// This middleware should be applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), ua, ClientAgent(ua))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientAgent summarises a User-Agent header as "name/version (os)", "bot:name"
// for crawlers, or "" when the header is empty.
func ClientAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if ua.Bot() {
		return "bot:" + name
	}
	if name == "" {
		name = "unknown"
	}
	summary := name
	if version != "" {
		summary += "/" + version
	}
	if osName := ua.OS(); osName != "" {
		summary += " (" + osName + ")"
	}
	return summary
}

// ClientIPFromRequest extracts the real client IP from the request, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2, ...)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port", or "[::1]:port" for IPv6
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}
