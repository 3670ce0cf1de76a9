package service

import (
	"context"
	"errors"
	"strconv"
	"unicode/utf8"

	"whoami/internal/names/fees"
	"whoami/internal/names/models"
	"whoami/internal/names/validation"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/platform/sentinel"
)

// Genesis is the instantiation document read from the genesis YAML file.
type Genesis struct {
	AdminAddress      string             `yaml:"admin_address"`
	Name              string             `yaml:"name"`
	Symbol            string             `yaml:"symbol"`
	MintingFees       models.MintingFees `yaml:"minting_fees"`
	UsernameLengthCap uint32             `yaml:"username_length_cap"`
	DIDMethod         string             `yaml:"did_method"`
}

// Instantiate stores the registry settings described by g unless the
// registry already has settings, in which case those are returned untouched.
func (s *Service) Instantiate(ctx context.Context, g Genesis) (settings *models.Settings, err error) {
	ctx, done := s.operation(ctx, "instantiate")
	defer done(&err)

	admin, err := domain.ParseAddress(g.AdminAddress)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "genesis admin_address is invalid")
	}
	fresh, err := models.NewSettings(admin, g.Name, g.Symbol, g.MintingFees, g.UsernameLengthCap)
	if err != nil {
		return nil, err
	}
	if g.DIDMethod != "" && !validation.ValidateDIDMethod(g.DIDMethod) {
		return nil, dErrors.New(dErrors.CodeValidation, "genesis did_method must be lowercase letters and digits")
	}
	fresh.DIDMethod = g.DIDMethod

	created := false
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.settings.Load(txCtx)
		if err == nil {
			settings = existing
			return nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
		}
		if err := s.settings.Save(txCtx, fresh); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
		}
		settings, created = fresh, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logAudit(ctx, "registry_instantiated",
			"admin", settings.AdminAddress.String(),
			"name", settings.Name,
			"symbol", settings.Symbol,
			"native_denom", settings.MintingFees.NativeDenom,
			"did_method", settings.Method(),
		)
	}
	return settings, nil
}

// UpdateMintingFees replaces the whole fee schedule. Omitted optional fields
// become unset; denom and decimals never change.
func (s *Service) UpdateMintingFees(ctx context.Context, caller domain.Address, next models.MintingFees) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "update_minting_fees")
	defer done(&err)

	err = s.withAdmin(ctx, caller, func(settings *models.Settings, capability models.AdminCapability) error {
		return settings.ApplyMintingFees(capability, next)
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "minting_fees_updated", "admin", caller.String())
	return models.NewResponse("update_minting_fees").
		With("admin", caller.String()), nil
}

// SetUsernameLengthCap raises the maximum base name length. Requests at or
// below the current cap keep it; the cap never falls under the default.
func (s *Service) SetUsernameLengthCap(ctx context.Context, caller domain.Address, requested uint32) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "set_username_length_cap")
	defer done(&err)

	var applied uint32
	err = s.withAdmin(ctx, caller, func(settings *models.Settings, capability models.AdminCapability) error {
		var applyErr error
		applied, applyErr = settings.ApplyUsernameLengthCap(capability, requested)
		return applyErr
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "username_length_cap_updated",
		"admin", caller.String(),
		"requested", requested,
		"applied", applied,
	)
	return models.NewResponse("set_username_length_cap").
		With("admin", caller.String()).
		With("username_length_cap", strconv.FormatUint(uint64(applied), 10)), nil
}

// SetAdminAddress hands the admin role to next.
func (s *Service) SetAdminAddress(ctx context.Context, caller, next domain.Address) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "set_admin_address")
	defer done(&err)

	err = s.withAdmin(ctx, caller, func(settings *models.Settings, capability models.AdminCapability) error {
		return settings.ApplyAdminAddress(capability, next)
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "admin_address_updated",
		"previous_admin", caller.String(),
		"admin", next.String(),
	)
	return models.NewResponse("set_admin_address").
		With("previous_admin", caller.String()).
		With("admin_address", next.String()), nil
}

// withAdmin loads the settings, issues the caller's AdminCapability and
// saves the settings after apply succeeds.
func (s *Service) withAdmin(ctx context.Context, caller domain.Address, apply func(*models.Settings, models.AdminCapability) error) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		settings, err := s.loadSettings(txCtx)
		if err != nil {
			return err
		}
		capability, err := settings.Authorize(caller)
		if err != nil {
			return err
		}
		if err := apply(settings, capability); err != nil {
			return err
		}
		if err := s.settings.Save(txCtx, settings); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
		}
		return nil
	})
}

// Settings returns the registry settings.
func (s *Service) Settings(ctx context.Context) (*models.Settings, error) {
	return s.loadSettings(ctx)
}

// MintingFees returns the fee schedule in force.
func (s *Service) MintingFees(ctx context.Context) (*models.MintingFees, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &settings.MintingFees, nil
}

// UsernameLengthCap returns the maximum base name length in characters.
func (s *Service) UsernameLengthCap(ctx context.Context) (uint32, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.UsernameLengthCap, nil
}

// AdminAddress returns the current registry admin.
func (s *Service) AdminAddress(ctx context.Context) (domain.Address, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.AdminAddress, nil
}

// GetMintFee previews what minting name would cost and how the fee splits.
func (s *Service) GetMintFee(ctx context.Context, name string) (*fees.Quote, error) {
	id := validation.Normalize(name)
	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	quote := fees.QuoteFor(id, uint32(utf8.RuneCountInString(id)), settings)
	return &quote, nil
}

// ContractInfo is the registry's collection name and symbol.
type ContractInfo struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

func (s *Service) ContractInfo(ctx context.Context) (*ContractInfo, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &ContractInfo{Name: settings.Name, Symbol: settings.Symbol}, nil
}
