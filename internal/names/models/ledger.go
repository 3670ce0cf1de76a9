package models

import (
	"time"

	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
)

// Expiration bounds an approval or operator grant. The zero value never expires.
type Expiration struct {
	AtHeight *uint64    `json:"at_height,omitempty"`
	AtTime   *time.Time `json:"at_time,omitempty"`
}

// IsExpired reports whether the grant is no longer valid at the given time and height.
func (e Expiration) IsExpired(now time.Time, height uint64) bool {
	if e.AtHeight != nil && height >= *e.AtHeight {
		return true
	}
	if e.AtTime != nil && !now.Before(*e.AtTime) {
		return true
	}
	return false
}

// Approval lets Spender transfer or burn one name on the owner's behalf.
type Approval struct {
	Spender domain.Address `json:"spender"`
	Expires Expiration     `json:"expires"`
}

// Operator lets Operator act on every name of Owner.
type Operator struct {
	Owner    domain.Address `json:"owner"`
	Operator domain.Address `json:"operator"`
	Expires  Expiration     `json:"expires"`
}

// CanSend checks whether caller may transfer, send or burn the name.
// op is the caller's operator grant from the owner, or nil.
func (n *Name) CanSend(caller domain.Address, op *Operator, now time.Time, height uint64) error {
	if n.Owner == caller {
		return nil
	}
	for _, a := range n.Approvals {
		if a.Spender == caller && !a.Expires.IsExpired(now, height) {
			return nil
		}
	}
	if op != nil && op.Owner == n.Owner && op.Operator == caller && !op.Expires.IsExpired(now, height) {
		return nil
	}
	return dErrors.New(dErrors.CodeUnauthorized, "caller cannot send this name")
}

// CanApprove checks whether caller may grant or revoke approvals on the name:
// the owner, or an unexpired operator of the owner.
func (n *Name) CanApprove(caller domain.Address, op *Operator, now time.Time, height uint64) error {
	if n.Owner == caller {
		return nil
	}
	if op != nil && op.Owner == n.Owner && op.Operator == caller && !op.Expires.IsExpired(now, height) {
		return nil
	}
	return dErrors.New(dErrors.CodeUnauthorized, "caller cannot manage approvals for this name")
}

// ApplyApproval adds or replaces the spender's approval.
func (n *Name) ApplyApproval(spender domain.Address, expires Expiration, now time.Time, height uint64) error {
	if expires.IsExpired(now, height) {
		return dErrors.New(dErrors.CodeValidation, "approval expiration is already in the past")
	}
	n.RemoveApproval(spender)
	n.Approvals = append(n.Approvals, Approval{Spender: spender, Expires: expires})
	return nil
}

// RemoveApproval drops any approval held by spender.
func (n *Name) RemoveApproval(spender domain.Address) {
	kept := n.Approvals[:0]
	for _, a := range n.Approvals {
		if a.Spender != spender {
			kept = append(kept, a)
		}
	}
	n.Approvals = kept
	if len(n.Approvals) == 0 {
		n.Approvals = nil
	}
}
