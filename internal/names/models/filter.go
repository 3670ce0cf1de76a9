package models

import "strings"

// Pagination bounds for list queries.
const (
	DefaultListLimit = 10
	MaxListLimit     = 30
)

// ListFilter narrows an owner or registry listing. Results are in mint order.
type ListFilter struct {
	Kind *Kind
	// Prefix keeps ids starting with this string.
	Prefix string
	// StartAfter is an exclusive id cursor. An unknown cursor starts from the beginning.
	StartAfter string
	// Limit of 0 means unlimited; callers clamp user input with ClampLimit.
	Limit int
}

// ClampLimit applies the default and maximum page sizes to user input. A
// missing or zero limit gets the default, so user input is never unlimited.
func ClampLimit(limit *uint32) int {
	if limit == nil || *limit == 0 {
		return DefaultListLimit
	}
	return min(int(*limit), MaxListLimit)
}

// Matches reports whether n passes the kind and prefix parts of the filter.
func (f ListFilter) Matches(n *Name) bool {
	if f.Kind != nil && n.Kind() != *f.Kind {
		return false
	}
	return strings.HasPrefix(n.ID, f.Prefix)
}
