package domain

import (
	"regexp"
	"strings"

	dErrors "whoami/pkg/domain-errors"
)

// Address is a normalized account address. It is a domain primitive: values
// built through ParseAddress are always lower-case bech32-shaped strings.
type Address string

// maxAddressLength mirrors the bech32 overall length limit.
const maxAddressLength = 90

// human-readable prefix, separator "1", then data characters from the bech32 charset.
var addressPattern = regexp.MustCompile(`^[a-z][a-z0-9]{0,82}1[02-9ac-hj-np-z]{6,}$`)

// ParseAddress validates s and returns its normalized form.
// Mixed-case input is rejected, all-upper-case input is folded.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}
	if len(s) > maxAddressLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address too long")
	}
	lower := strings.ToLower(s)
	if s != lower && s != strings.ToUpper(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address has mixed case")
	}
	if !addressPattern.MatchString(lower) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid address format")
	}
	return Address(lower), nil
}

func (a Address) String() string {
	return string(a)
}

// IsNil returns true if the address is empty.
func (a Address) IsNil() bool {
	return a == ""
}

// Prefix returns the human-readable part before the last separator.
func (a Address) Prefix() string {
	sep := strings.LastIndexByte(string(a), '1')
	if sep < 0 {
		return ""
	}
	return string(a)[:sep]
}
