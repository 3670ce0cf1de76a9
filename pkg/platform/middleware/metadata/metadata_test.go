package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"whoami/pkg/requestcontext"
)

const chromeUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestClientMetadata(t *testing.T) {
	var ip, ua, agent string
	h := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		ua = requestcontext.UserAgent(r.Context())
		agent = requestcontext.ClientAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", chromeUA)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", ip)
	assert.Equal(t, chromeUA, ua)
	assert.Contains(t, agent, "Chrome/120")
}

func TestClientAgent(t *testing.T) {
	assert.Empty(t, ClientAgent("   "))
	assert.Contains(t, ClientAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"), "bot:")
}

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "single forwarded", headers: map[string]string{"X-Forwarded-For": " 198.51.100.2 "}, want: "198.51.100.2"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.3"}, want: "198.51.100.3"},
		{name: "remote ipv4", remote: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "remote ipv6", remote: "[::1]:5555", want: "[::1]"},
		{name: "nothing", remote: "", want: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}
