package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"whoami/internal/names/models"
	"whoami/internal/names/validation"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
)

// UpdateMetadata replaces the profile of id. The stored parent reference is
// kept whatever the caller sends.
func (s *Service) UpdateMetadata(ctx context.Context, caller domain.Address, id string, md models.Metadata) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "update_metadata", attribute.String("token_id", id))
	defer done(&err)

	if err := validation.ValidateMetadata(md); err != nil {
		return nil, err
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.loadName(txCtx, id)
		if err != nil {
			return err
		}
		if !n.IsOwnedBy(caller) {
			return dErrors.New(dErrors.CodeUnauthorized, "only the owner can update metadata")
		}
		bound, err := s.bindDocument(txCtx, md, n.ID)
		if err != nil {
			return err
		}
		n.ApplyMetadata(bound)
		if err := s.names.Update(txCtx, n); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update name")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "metadata_updated",
		"token_id", id,
		"owner", caller.String(),
	)
	return models.NewResponse("update_metadata").
		With("owner", caller.String()).
		With("token_id", id), nil
}

// UpdatePrimaryAlias points the caller's primary alias at id. The previous
// choice is overwritten.
func (s *Service) UpdatePrimaryAlias(ctx context.Context, caller domain.Address, id string) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "update_primary_alias", attribute.String("token_id", id))
	defer done(&err)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.loadName(txCtx, id)
		if err != nil {
			return err
		}
		if !n.IsOwnedBy(caller) {
			return dErrors.New(dErrors.CodeUnauthorized, "only the owner can choose a name as primary alias")
		}
		if n.Kind() != models.KindBase {
			return dErrors.New(dErrors.CodeTokenNameInvalid, "only base names can be a primary alias")
		}
		if err := s.aliases.Set(txCtx, caller, n.ID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save primary alias")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "primary_alias_updated",
		"owner", caller.String(),
		"token_id", id,
	)
	return models.NewResponse("update_preferred_alias").
		With("address", caller.String()).
		With("username", id), nil
}
