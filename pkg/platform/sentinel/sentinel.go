package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors:
//   - ErrNotFound: record does not exist in the store
//   - ErrAlreadyUsed: a unique key (name id, outbox id) is already taken
//   - ErrConflict: a concurrent writer changed the row first
//   - ErrUnavailable: a backing service (cache, broker) cannot be reached
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
