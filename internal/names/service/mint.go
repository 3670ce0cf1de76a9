package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"whoami/internal/names/fees"
	"whoami/internal/names/hierarchy"
	"whoami/internal/names/models"
	"whoami/internal/names/validation"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/platform/sentinel"
	"whoami/pkg/requestcontext"
)

// MintInput describes a base name or subdomain mint. ParentID set means subdomain.
type MintInput struct {
	TokenID  string
	Owner    domain.Address
	ParentID string
	TokenURI string
	Metadata models.Metadata
	Funds    []models.Coin
}

// MintPathInput describes a path mint. Segment is appended to ParentID with "::".
type MintPathInput struct {
	Segment  string
	Owner    domain.Address
	ParentID string
	TokenURI string
	Metadata models.Metadata
}

// Mint registers a base name or a subdomain for the caller.
//
// Every check runs before the record is created: caller is owner, profile
// fields, token cap, name rules, parent rules, and payment. The create is
// the first write.
func (s *Service) Mint(ctx context.Context, caller domain.Address, in MintInput) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "mint", attribute.String("token_id", in.TokenID))
	defer done(&err)

	if caller.IsNil() || caller != in.Owner {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "names can only be minted to the caller")
	}
	if err := validation.ValidateMetadata(in.Metadata); err != nil {
		return nil, err
	}
	id := validation.Normalize(in.TokenID)
	parentID := strings.TrimSpace(in.ParentID)

	var (
		record          *models.Name
		fee             uint64
		owed            bool
		toAdmin, toBurn uint64
		msgs            []models.Message
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		settings, err := s.loadSettings(txCtx)
		if err != nil {
			return err
		}
		if err := s.checkTokenCap(txCtx, settings, caller); err != nil {
			return err
		}
		if !validation.ValidateNameCharacters(id) || !validation.ValidateNameLength(id, settings.UsernameLengthCap) {
			return dErrors.New(dErrors.CodeTokenNameInvalid, "name contains invalid characters or is too long")
		}
		if parentID != "" {
			if err := s.checkSubdomainParent(txCtx, caller, id, parentID); err != nil {
				return err
			}
		}

		fee, owed = fees.ComputeMintFee(settings.MintingFees, uint32(utf8.RuneCountInString(id)))
		if owed {
			if err := fees.VerifyPayment(in.Funds, settings.MintingFees.NativeDenom, fee); err != nil {
				return err
			}
		}

		md, err := s.bindDocument(txCtx, in.Metadata, id)
		if err != nil {
			return err
		}
		n, err := models.NewName(id, in.Owner, parentID, in.TokenURI, md, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.ensureUnclaimed(txCtx, id); err != nil {
			return err
		}
		if owed {
			toAdmin, toBurn = fees.SplitFee(fee, settings.MintingFees.BurnPercentage)
			msgs = fees.SettlementMessages(fee, settings)
			if err := s.enqueue(txCtx, "mint", id, msgs); err != nil {
				return err
			}
		}
		if err := s.create(txCtx, n); err != nil {
			return err
		}
		record = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "name_minted",
		"token_id", record.ID,
		"kind", string(record.Kind()),
		"owner", record.Owner.String(),
		"parent_id", record.ParentID,
	)
	if s.metrics != nil {
		s.metrics.IncrementMinted(string(record.Kind()))
		if owed {
			s.metrics.AddFees(toAdmin, toBurn)
		}
	}

	resp = models.NewResponse("mint").
		With("minter", caller.String()).
		With("owner", record.Owner.String()).
		With("token_id", record.ID)
	if owed {
		resp.With("fee", strconv.FormatUint(fee, 10))
	}
	resp.Messages = msgs
	return resp, nil
}

// MintPath registers a path under an existing name owned by the caller.
// Paths are exempt from the fee, the token cap and the length cap.
func (s *Service) MintPath(ctx context.Context, caller domain.Address, in MintPathInput) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "mint_path",
		attribute.String("parent_id", in.ParentID),
		attribute.String("segment", in.Segment),
	)
	defer done(&err)

	if caller.IsNil() || caller != in.Owner {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "paths can only be minted to the caller")
	}
	if err := validation.ValidateMetadata(in.Metadata); err != nil {
		return nil, err
	}
	parentID := strings.TrimSpace(in.ParentID)
	if parentID == "" {
		return nil, dErrors.New(dErrors.CodeParentNotFound, "a path requires a parent name")
	}
	segment := validation.Normalize(in.Segment)
	if segment == parentID || validation.ContainsParentID(segment, parentID) {
		return nil, dErrors.New(dErrors.CodeCycleDetected, "path segment repeats its parent")
	}
	if !validation.ValidatePathCharacters(segment, parentID) {
		return nil, dErrors.New(dErrors.CodeTokenNameInvalid, "path contains invalid characters")
	}
	id := validation.JoinPath(parentID, segment)

	var record *models.Name
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		parent, err := s.names.FindByID(txCtx, parentID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeMissingParent, "parent name does not exist")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load parent")
		}
		if !parent.IsOwnedBy(caller) {
			return dErrors.New(dErrors.CodeUnauthorized, "parent name is owned by someone else")
		}
		if err := hierarchy.CheckAcyclic(txCtx, s.names, id, parentID); err != nil {
			return err
		}

		md, err := s.bindDocument(txCtx, in.Metadata, id)
		if err != nil {
			return err
		}
		n, err := models.NewName(id, in.Owner, parentID, in.TokenURI, md, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.create(txCtx, n); err != nil {
			return err
		}
		record = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "name_minted",
		"token_id", record.ID,
		"kind", string(record.Kind()),
		"owner", record.Owner.String(),
		"parent_id", record.ParentID,
	)
	if s.metrics != nil {
		s.metrics.IncrementMinted(string(record.Kind()))
	}
	return models.NewResponse("mint").
		With("minter", caller.String()).
		With("token_id", record.ID), nil
}

// checkTokenCap fails when owner already holds the configured maximum. A nil
// cap is unlimited.
func (s *Service) checkTokenCap(ctx context.Context, settings *models.Settings, owner domain.Address) error {
	limit := settings.MintingFees.TokenCap
	if limit == nil {
		return nil
	}
	count, err := s.names.CountByOwner(ctx, owner)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count owned names")
	}
	if count >= int(*limit) {
		return dErrors.New(dErrors.CodeTokenCapExceeded, "owner already holds the maximum number of names")
	}
	return nil
}

// checkSubdomainParent enforces the subdomain parent rules: not itself, not a
// path, existing, owned by the minter, and not making the new name its own ancestor.
func (s *Service) checkSubdomainParent(ctx context.Context, caller domain.Address, id, parentID string) error {
	if parentID == id || validation.IsPath(parentID) {
		return dErrors.New(dErrors.CodeCycleDetected, "invalid subdomain parent")
	}
	parent, err := s.names.FindByID(ctx, parentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeMissingParent, "parent name does not exist")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load parent")
	}
	if !parent.IsOwnedBy(caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "parent name is owned by someone else")
	}
	return hierarchy.CheckAcyclic(ctx, s.names, id, parentID)
}

// ensureUnclaimed fails with Claimed when id is taken. Writers are serialized,
// so the answer holds until create runs.
func (s *Service) ensureUnclaimed(ctx context.Context, id string) error {
	_, err := s.names.FindByID(ctx, id)
	switch {
	case err == nil:
		return dErrors.New(dErrors.CodeClaimed, "name is already claimed")
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load name")
	}
}

// create inserts n and bumps the token counter. Claimed ids fail without writing.
func (s *Service) create(ctx context.Context, n *models.Name) error {
	if err := s.names.CreateIfAbsent(ctx, n); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return dErrors.New(dErrors.CodeClaimed, "name is already claimed")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create name")
	}
	if _, err := s.names.AddTokens(ctx, 1); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update token count")
	}
	return nil
}
