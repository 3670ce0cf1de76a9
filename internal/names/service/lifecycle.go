package service

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"whoami/internal/names/hierarchy"
	"whoami/internal/names/models"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/platform/sentinel"
	"whoami/pkg/requestcontext"
)

// TransferNft moves id to recipient after clearing everything that must not
// follow the name: the previous owner's alias pointing at it, its profile, and
// its paths.
func (s *Service) TransferNft(ctx context.Context, caller domain.Address, id string, recipient domain.Address) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "transfer_nft", attribute.String("token_id", id))
	defer done(&err)

	cascaded, err := s.changeOwner(ctx, caller, id, recipient)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "name_transferred",
		"token_id", id,
		"sender", caller.String(),
		"recipient", recipient.String(),
		"paths_removed", cascaded,
	)
	if s.metrics != nil {
		s.metrics.IncrementTransferred("transfer_nft")
		s.metrics.AddPathsCascaded(cascaded)
	}
	return models.NewResponse("transfer_nft").
		With("sender", caller.String()).
		With("recipient", recipient.String()).
		With("token_id", id).
		With("paths_removed", strconv.Itoa(cascaded)), nil
}

// SendNft transfers like TransferNft and then notifies the recipient with
// msg when it is a contract.
func (s *Service) SendNft(ctx context.Context, caller domain.Address, id string, contract domain.Address, msg []byte) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "send_nft", attribute.String("token_id", id))
	defer done(&err)

	var (
		cascaded int
		notify   []models.Message
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		notify, err = s.receiveNotification(txCtx, caller, id, contract, msg)
		if err != nil {
			return err
		}
		cascaded, err = s.changeOwnerTx(txCtx, caller, id, contract)
		if err != nil {
			return err
		}
		return s.enqueue(txCtx, "send_nft", id, notify)
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "name_sent",
		"token_id", id,
		"sender", caller.String(),
		"recipient", contract.String(),
		"paths_removed", cascaded,
		"notified", len(notify) > 0,
	)
	if s.metrics != nil {
		s.metrics.IncrementTransferred("send_nft")
		s.metrics.AddPathsCascaded(cascaded)
	}
	resp = models.NewResponse("send_nft").
		With("sender", caller.String()).
		With("recipient", contract.String()).
		With("token_id", id).
		With("paths_removed", strconv.Itoa(cascaded))
	resp.Messages = notify
	return resp, nil
}

// Burn destroys id and every path beneath it.
func (s *Service) Burn(ctx context.Context, caller domain.Address, id string) (resp *models.Response, err error) {
	ctx, done := s.operation(ctx, "burn", attribute.String("token_id", id))
	defer done(&err)

	var cascaded int
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.authorizeSend(txCtx, caller, id)
		if err != nil {
			return err
		}
		descendants, err := hierarchy.DescendantPaths(txCtx, s.names, n.Owner, n.ID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list paths")
		}

		if err := s.clearAliasIfPrimary(txCtx, n); err != nil {
			return err
		}
		if cascaded, err = s.removePaths(txCtx, descendants); err != nil {
			return err
		}
		if err := s.names.Delete(txCtx, n.ID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete name")
		}
		if _, err := s.names.AddTokens(txCtx, -1); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update token count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "name_burned",
		"token_id", id,
		"sender", caller.String(),
		"paths_removed", cascaded,
	)
	if s.metrics != nil {
		s.metrics.IncrementBurned()
		s.metrics.AddPathsCascaded(cascaded)
	}
	return models.NewResponse("burn").
		With("sender", caller.String()).
		With("token_id", id).
		With("paths_removed", strconv.Itoa(cascaded)), nil
}

// changeOwner runs the transfer sequence in its own transaction.
func (s *Service) changeOwner(ctx context.Context, caller domain.Address, id string, recipient domain.Address) (int, error) {
	var cascaded int
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		cascaded, err = s.changeOwnerTx(txCtx, caller, id, recipient)
		return err
	})
	return cascaded, err
}

// changeOwnerTx clears the alias if primary, removes descendant paths, resets
// the profile and hands the record to recipient. It returns how many paths
// were removed.
func (s *Service) changeOwnerTx(ctx context.Context, caller domain.Address, id string, recipient domain.Address) (int, error) {
	if recipient.IsNil() {
		return 0, dErrors.New(dErrors.CodeValidation, "recipient is required")
	}
	n, err := s.authorizeSend(ctx, caller, id)
	if err != nil {
		return 0, err
	}
	descendants, err := hierarchy.DescendantPaths(ctx, s.names, n.Owner, n.ID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list paths")
	}

	if err := s.clearAliasIfPrimary(ctx, n); err != nil {
		return 0, err
	}
	n.ResetMetadata()
	cascaded, err := s.removePaths(ctx, descendants)
	if err != nil {
		return 0, err
	}
	n.ApplyTransfer(recipient)
	if err := s.names.Update(ctx, n); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update name")
	}
	return cascaded, nil
}

// authorizeSend loads id and checks caller may transfer, send or burn it.
func (s *Service) authorizeSend(ctx context.Context, caller domain.Address, id string) (*models.Name, error) {
	n, err := s.loadName(ctx, id)
	if err != nil {
		return nil, err
	}
	op, err := s.operatorFor(ctx, n.Owner, caller)
	if err != nil {
		return nil, err
	}
	if err := n.CanSend(caller, op, requestcontext.Now(ctx), requestcontext.BlockHeight(ctx)); err != nil {
		return nil, err
	}
	return n, nil
}

// clearAliasIfPrimary drops the owner's explicit alias only when it points at n.
func (s *Service) clearAliasIfPrimary(ctx context.Context, n *models.Name) error {
	current, err := s.aliases.Get(ctx, n.Owner)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load primary alias")
	}
	if current != n.ID {
		return nil
	}
	if err := s.aliases.Clear(ctx, n.Owner); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear primary alias")
	}
	return nil
}

// removePaths deletes ids and decrements the token counter once per record removed.
func (s *Service) removePaths(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	removed, err := s.names.DeleteMany(ctx, ids)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete paths")
	}
	if _, err := s.names.AddTokens(ctx, -int64(removed)); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update token count")
	}
	return removed, nil
}

// receiveNotification builds the receive message for contract, or nothing
// when the recipient is not a contract.
func (s *Service) receiveNotification(ctx context.Context, caller domain.Address, id string, contract domain.Address, msg []byte) ([]models.Message, error) {
	if s.contracts != nil {
		isContract, err := s.contracts.IsContract(ctx, contract)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check recipient")
		}
		if !isContract {
			return nil, nil
		}
	}
	return []models.Message{{
		Kind:      models.MessageReceiveName,
		ToAddress: contract,
		Sender:    caller,
		TokenID:   id,
		Msg:       msg,
	}}, nil
}
