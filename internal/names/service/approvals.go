package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"whoami/internal/names/models"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/platform/sentinel"
	"whoami/pkg/requestcontext"
)

// Approve lets spender transfer, send or burn id until expires.
func (s *Service) Approve(ctx context.Context, caller domain.Address, id string, spender domain.Address, expires models.Expiration) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "approve", attribute.String("token_id", id))
	defer done(&err)

	if spender.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "spender is required")
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.authorizeApproval(txCtx, caller, id)
		if err != nil {
			return err
		}
		if err := n.ApplyApproval(spender, expires, requestcontext.Now(txCtx), requestcontext.BlockHeight(txCtx)); err != nil {
			return err
		}
		if err := s.names.Update(txCtx, n); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update name")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "approval_granted",
		"token_id", id,
		"sender", caller.String(),
		"spender", spender.String(),
	)
	return models.NewResponse("approve").
		With("sender", caller.String()).
		With("spender", spender.String()).
		With("token_id", id), nil
}

// Revoke drops spender's approval on id. Revoking an absent approval succeeds.
func (s *Service) Revoke(ctx context.Context, caller domain.Address, id string, spender domain.Address) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "revoke", attribute.String("token_id", id))
	defer done(&err)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.authorizeApproval(txCtx, caller, id)
		if err != nil {
			return err
		}
		n.RemoveApproval(spender)
		if err := s.names.Update(txCtx, n); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update name")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "approval_revoked",
		"token_id", id,
		"sender", caller.String(),
		"spender", spender.String(),
	)
	return models.NewResponse("revoke").
		With("sender", caller.String()).
		With("spender", spender.String()).
		With("token_id", id), nil
}

// ApproveAll makes operator able to act on every name the caller owns, now
// and in the future, until expires.
func (s *Service) ApproveAll(ctx context.Context, caller, operator domain.Address, expires models.Expiration) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "approve_all")
	defer done(&err)

	if operator.IsNil() || operator == caller {
		return nil, dErrors.New(dErrors.CodeValidation, "operator must be another address")
	}
	if expires.IsExpired(requestcontext.Now(ctx), requestcontext.BlockHeight(ctx)) {
		return nil, dErrors.New(dErrors.CodeValidation, "operator expiration is already in the past")
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		grant := models.Operator{Owner: caller, Operator: operator, Expires: expires}
		if err := s.operators.Upsert(txCtx, grant); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save operator")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "operator_granted",
		"owner", caller.String(),
		"operator", operator.String(),
	)
	return models.NewResponse("approve_all").
		With("sender", caller.String()).
		With("operator", operator.String()), nil
}

// RevokeAll removes operator's grant over the caller's names.
func (s *Service) RevokeAll(ctx context.Context, caller, operator domain.Address) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "revoke_all")
	defer done(&err)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		err := s.operators.Delete(txCtx, caller, operator)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete operator")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "operator_revoked",
		"owner", caller.String(),
		"operator", operator.String(),
	)
	return models.NewResponse("revoke_all").
		With("sender", caller.String()).
		With("operator", operator.String()), nil
}

func (s *Service) authorizeApproval(ctx context.Context, caller domain.Address, id string) (*models.Name, error) {
	n, err := s.loadName(ctx, id)
	if err != nil {
		return nil, err
	}
	op, err := s.operatorFor(ctx, n.Owner, caller)
	if err != nil {
		return nil, err
	}
	if err := n.CanApprove(caller, op, requestcontext.Now(ctx), requestcontext.BlockHeight(ctx)); err != nil {
		return nil, err
	}
	return n, nil
}
