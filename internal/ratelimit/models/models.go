package models

import (
	"fmt"
	"time"
)

// Class groups endpoints that share one limit.
type Class string

const (
	// ClassMint covers POST /names and POST /names/paths.
	ClassMint Class = "mint"
	// ClassWrite covers every other authenticated mutation.
	ClassWrite Class = "write"
)

// Limit is a sliding window budget.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of one limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, only set when denied
	// Degraded is set when the result came from the in-memory fallback.
	Degraded bool
}

// Key builds the bucket key for a class and a subject (caller address or client IP).
func Key(class Class, subject string) string {
	return fmt.Sprintf("whoami:ratelimit:%s:%s", class, subject)
}

// RetryAfterSeconds rounds the wait until resetAt up to whole seconds.
func RetryAfterSeconds(now, resetAt time.Time) int {
	wait := resetAt.Sub(now)
	if wait <= 0 {
		return 1
	}
	secs := int(wait / time.Second)
	if wait%time.Second != 0 {
		secs++
	}
	return secs
}
