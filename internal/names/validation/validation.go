// Package validation holds the pure checks applied to name ids, path segments
// and profile fields before anything is written.
//
// None of these functions normalize input. Callers lower-case ids with
// Normalize first; uppercase input always fails.
package validation

import (
	"strings"
	"unicode/utf8"

	"whoami/internal/names/models"
)

// Normalize lower-cases an id and trims surrounding whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func isNameSpecial(r rune) bool {
	return r == '-' || r == '_'
}

// ValidateNameCharacters reports whether s is a well-formed name: [a-z0-9_-]+
// with no two special characters in a row. A single leading special is allowed.
func ValidateNameCharacters(s string) bool {
	if s == "" {
		return false
	}
	prevSpecial := false
	for _, r := range s {
		switch {
		case isAlnum(r):
			prevSpecial = false
		case isNameSpecial(r):
			if prevSpecial {
				return false
			}
			prevSpecial = true
		default:
			return false
		}
	}
	return true
}

// ValidateNameLength reports whether s has at most limit characters (runes, not bytes).
func ValidateNameLength(s string, limit uint32) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && uint64(n) <= uint64(limit)
}

// ValidatePathCharacters reports whether s is a well-formed path segment under
// parentID: [a-z0-9_/-]+, no two specials in a row, no leading or trailing
// special, and parentID must not occur anywhere inside s.
func ValidatePathCharacters(s, parentID string) bool {
	if s == "" || ContainsParentID(s, parentID) {
		return false
	}
	prevSpecial := false
	last := utf8.RuneError
	for i, r := range s {
		switch {
		case isAlnum(r):
			prevSpecial = false
		case isNameSpecial(r) || r == '/':
			if i == 0 || prevSpecial {
				return false
			}
			prevSpecial = true
		default:
			return false
		}
		last = r
	}
	return isAlnum(last)
}

// ContainsParentID reports whether the segment re-embeds its parent's id.
func ContainsParentID(segment, parentID string) bool {
	return parentID != "" && strings.Contains(segment, parentID)
}

// IsPath reports whether id is a compound path id.
func IsPath(id string) bool {
	return strings.Contains(id, models.PathDelimiter)
}

// PathRootMatches reports whether id is namespaced directly under candidateParent.
func PathRootMatches(id, candidateParent string) bool {
	return candidateParent != "" && strings.HasPrefix(id, candidateParent+models.PathDelimiter)
}

// StripRoot removes the first occurrence of parentID from id. It is a no-op when
// parentID does not occur.
func StripRoot(id, parentID string) string {
	if parentID == "" {
		return id
	}
	return strings.Replace(id, parentID, "", 1)
}

// JoinPath builds the stored id of a path segment minted under parentID.
func JoinPath(parentID, segment string) string {
	return parentID + models.PathDelimiter + segment
}

// ImmediateParentID returns the id before the last delimiter, or "" for simple ids.
func ImmediateParentID(id string) string {
	i := strings.LastIndex(id, models.PathDelimiter)
	if i < 0 {
		return ""
	}
	return id[:i]
}

// RootID returns the namespace before the first delimiter.
func RootID(id string) string {
	root, _, _ := strings.Cut(id, models.PathDelimiter)
	return root
}
