package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestContext holds the HTTP client, the caller identities and the last
// response of a scenario.
type TestContext struct {
	baseURL    string
	signingKey []byte
	issuer     string
	client     *http.Client

	callers map[string]string
	caller  string
	// run keeps names unique across runs against one long-lived server.
	run string

	lastStatus int
	lastBody   []byte
}

// NewTestContext reads E2E_BASE_URL, JWT_SIGNING_KEY and JWT_ISSUER, falling
// back to the server's dev defaults.
func NewTestContext() *TestContext {
	return &TestContext{
		baseURL:    strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/"),
		signingKey: []byte(envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production")),
		issuer:     envOr("JWT_ISSUER", "whoami"),
		client:     &http.Client{Timeout: 10 * time.Second},
		callers:    map[string]string{},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.callers = map[string]string{}
	tc.caller = ""
	tc.run = strconv.FormatInt(time.Now().UnixNano()%1_000_000_007, 36)
	tc.lastStatus = 0
	tc.lastBody = nil
}

// SetCaller makes later requests authenticate as the named account.
func (tc *TestContext) SetCaller(name, address string) {
	tc.callers[name] = address
	tc.caller = address
}

// Address resolves an account name registered with SetCaller. Unknown names
// are returned as given so steps can pass raw addresses.
func (tc *TestContext) Address(name string) string {
	if addr, ok := tc.callers[name]; ok {
		return addr
	}
	return name
}

// Name scopes a scenario token id to this run. The base name of every
// "::" path and every "/" display segment gets the run suffix.
func (tc *TestContext) Name(id string) string {
	parts := strings.Split(id, "/")
	for i, part := range parts {
		base, rest, nested := strings.Cut(part, "::")
		parts[i] = base + tc.run
		if nested {
			parts[i] += "::" + rest
		}
	}
	return strings.Join(parts, "/")
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body)
}

func (tc *TestContext) PUT(path string, body any) error {
	return tc.do(http.MethodPut, path, body)
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil)
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) LastBody() []byte {
	return tc.lastBody
}

// ResponseField returns a top level field of the last JSON response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var out map[string]any
	if err := json.Unmarshal(tc.lastBody, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w (body: %s)", err, tc.lastBody)
	}
	v, ok := out[field]
	if !ok {
		return nil, fmt.Errorf("field %q missing from response: %s", field, tc.lastBody)
	}
	return v, nil
}

func (tc *TestContext) do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.caller != "" {
		token, err := tc.token(tc.caller)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) token(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    tc.issuer,
		Audience:  jwt.ClaimStrings{"whoami"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.signingKey)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
