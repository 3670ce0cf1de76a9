package models

import (
	"strings"
	"time"

	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
)

// PathDelimiter joins path segments inside a compound id ("alice::plans::phase1").
const PathDelimiter = "::"

// SubdomainSeparator joins a subdomain to its parent in a displayed full path.
const SubdomainSeparator = "/"

// Kind is derived from the id shape and the parent relation; it is never stored.
type Kind string

const (
	KindBase      Kind = "base"
	KindSubdomain Kind = "subdomain"
	KindPath      Kind = "path"
)

// Name is a minted registry entry.
//
// Invariants:
//   - ID is non-empty and unique across the registry (enforced by the store)
//   - ParentID is immutable after construction
//   - Separator is "" when ParentID is empty, otherwise "/" for subdomains and "::" for paths
//   - Metadata.ParentTokenID always mirrors ParentID
//
// Subdomains and paths share the single ParentID relation; only the separator
// used when displaying the edge differs.
type Name struct {
	ID        string         `json:"id"`
	Owner     domain.Address `json:"owner"`
	ParentID  string         `json:"parent_id,omitempty"`
	Separator string         `json:"separator,omitempty"`
	TokenURI  string         `json:"token_uri,omitempty"`
	Metadata  Metadata       `json:"metadata"`
	Approvals []Approval     `json:"approvals,omitempty"`
	// Seq orders names by mint time. Owner listings and the primary alias
	// fallback rely on it.
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// NewName builds a record and fixes its edge separator from the id shape.
func NewName(id string, owner domain.Address, parentID, tokenURI string, md Metadata, now time.Time) (*Name, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name id cannot be empty")
	}
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name owner cannot be empty")
	}
	sep := ""
	if parentID != "" {
		if parentID == id {
			return nil, dErrors.New(dErrors.CodeCycleDetected, "name cannot be its own parent")
		}
		sep = SubdomainSeparator
		if strings.Contains(id, PathDelimiter) {
			sep = PathDelimiter
		}
	}
	md.ParentTokenID = parentID
	return &Name{
		ID:        id,
		Owner:     owner,
		ParentID:  parentID,
		Separator: sep,
		TokenURI:  tokenURI,
		Metadata:  md,
		CreatedAt: now,
	}, nil
}

// Kind classifies the record.
func (n *Name) Kind() Kind {
	switch {
	case strings.Contains(n.ID, PathDelimiter):
		return KindPath
	case n.ParentID != "":
		return KindSubdomain
	default:
		return KindBase
	}
}

func (n *Name) IsOwnedBy(addr domain.Address) bool {
	return n.Owner == addr
}

// ApplyMetadata replaces profile fields, keeping the stored parent mirror.
func (n *Name) ApplyMetadata(md Metadata) {
	md.ParentTokenID = n.ParentID
	n.Metadata = md
}

// ResetMetadata blanks every profile field. Only the parent mirror survives
// since the parent relation is part of the record's identity.
func (n *Name) ResetMetadata() {
	n.Metadata = Metadata{ParentTokenID: n.ParentID}
}

// ApplyTransfer moves the record to a new owner. Approvals granted by the
// previous owner never follow the record.
func (n *Name) ApplyTransfer(to domain.Address) {
	n.Owner = to
	n.Approvals = nil
}
