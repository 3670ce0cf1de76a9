package models

import (
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
)

// DefaultUsernameLengthCap is the floor for the configurable name length cap.
const DefaultUsernameLengthCap uint32 = 20

// Settings is the process-wide registry configuration.
//
// Invariants:
//   - AdminAddress is always set
//   - MintingFees.NativeDenom and NativeDecimals never change after instantiation
//   - UsernameLengthCap never drops below DefaultUsernameLengthCap or its previous value
type Settings struct {
	AdminAddress      domain.Address `json:"admin_address" yaml:"admin_address"`
	Name              string         `json:"name" yaml:"name"`
	Symbol            string         `json:"symbol" yaml:"symbol"`
	MintingFees       MintingFees    `json:"minting_fees" yaml:"minting_fees"`
	UsernameLengthCap uint32         `json:"username_length_cap" yaml:"username_length_cap"`
	DIDMethod         string         `json:"did_method,omitempty" yaml:"did_method"`
}

// Method returns the DID method documents are issued under.
func (s *Settings) Method() string {
	if s.DIDMethod == "" {
		return DefaultDIDMethod
	}
	return s.DIDMethod
}

// MintingFees is the fee schedule. Nil pointers mean "not configured".
type MintingFees struct {
	NativeDenom        string              `json:"native_denom" yaml:"native_denom"`
	NativeDecimals     uint8               `json:"native_decimals" yaml:"native_decimals"`
	TokenCap           *uint32             `json:"token_cap,omitempty" yaml:"token_cap"`
	BaseMintFee        *uint64             `json:"base_mint_fee,omitempty" yaml:"base_mint_fee"`
	BurnPercentage     *uint64             `json:"burn_percentage,omitempty" yaml:"burn_percentage"`
	ShortNameSurcharge *ShortNameSurcharge `json:"short_name_surcharge,omitempty" yaml:"short_name_surcharge"`
}

// ShortNameSurcharge is owed by names strictly shorter than MaxCharacters.
type ShortNameSurcharge struct {
	MaxCharacters uint32 `json:"max_characters" yaml:"max_characters"`
	Fee           uint64 `json:"fee" yaml:"fee"`
}

// NewSettings validates instantiation values and applies defaults.
func NewSettings(admin domain.Address, name, symbol string, fees MintingFees, lengthCap uint32) (*Settings, error) {
	if admin.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "admin address is required")
	}
	if fees.NativeDenom == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "native denom is required")
	}
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	s := &Settings{
		AdminAddress: admin,
		Name:         name,
		Symbol:       symbol,
		MintingFees:  fees,
	}
	s.UsernameLengthCap = NextUsernameLengthCap(DefaultUsernameLengthCap, lengthCap)
	return s, nil
}

// Validate checks fee values that would make the split meaningless.
func (f MintingFees) Validate() error {
	if f.BurnPercentage != nil && *f.BurnPercentage > 100 {
		return dErrors.New(dErrors.CodeValidation, "burn_percentage must be between 0 and 100")
	}
	if f.ShortNameSurcharge != nil && f.ShortNameSurcharge.MaxCharacters == 0 {
		return dErrors.New(dErrors.CodeValidation, "short_name_surcharge.max_characters must be positive")
	}
	return nil
}

// AdminCapability is proof that the holder passed the admin check. Admin-gated
// operations take it as an argument instead of consulting settings themselves.
type AdminCapability struct {
	admin domain.Address
}

// Address returns the admin the capability was issued to.
func (c AdminCapability) Address() domain.Address {
	return c.admin
}

// Valid reports whether the capability was issued by Authorize.
func (c AdminCapability) Valid() bool {
	return !c.admin.IsNil()
}

// Authorize issues an AdminCapability when caller is the configured admin.
func (s *Settings) Authorize(caller domain.Address) (AdminCapability, error) {
	if caller.IsNil() || caller != s.AdminAddress {
		return AdminCapability{}, dErrors.New(dErrors.CodeUnauthorized, "caller is not the registry admin")
	}
	return AdminCapability{admin: caller}, nil
}

// check fails unless c was issued for the current admin. A capability minted
// before SetAdminAddress stops working once the admin changes.
func (s *Settings) check(c AdminCapability) error {
	if !c.Valid() || c.admin != s.AdminAddress {
		return dErrors.New(dErrors.CodeUnauthorized, "admin capability is not valid for these settings")
	}
	return nil
}

// ApplyMintingFees replaces the whole fee structure. Denom and decimals are kept.
func (s *Settings) ApplyMintingFees(c AdminCapability, fees MintingFees) error {
	if err := s.check(c); err != nil {
		return err
	}
	if err := fees.Validate(); err != nil {
		return err
	}
	fees.NativeDenom = s.MintingFees.NativeDenom
	fees.NativeDecimals = s.MintingFees.NativeDecimals
	s.MintingFees = fees
	return nil
}

// ApplyUsernameLengthCap raises the cap according to NextUsernameLengthCap
// and returns the cap now in force.
func (s *Settings) ApplyUsernameLengthCap(c AdminCapability, requested uint32) (uint32, error) {
	if err := s.check(c); err != nil {
		return 0, err
	}
	s.UsernameLengthCap = NextUsernameLengthCap(s.UsernameLengthCap, requested)
	return s.UsernameLengthCap, nil
}

// ApplyAdminAddress hands the admin role to next. The capability used here
// is spent: it no longer authorizes anything afterwards.
func (s *Settings) ApplyAdminAddress(c AdminCapability, next domain.Address) error {
	if err := s.check(c); err != nil {
		return err
	}
	if next.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "admin address is required")
	}
	s.AdminAddress = next
	return nil
}

// NextUsernameLengthCap returns the cap that results from requesting next
// while current is in force. The cap only ever grows.
func NextUsernameLengthCap(current, next uint32) uint32 {
	switch {
	case next <= current:
		return current
	case next <= DefaultUsernameLengthCap:
		return DefaultUsernameLengthCap
	default:
		return next
	}
}
