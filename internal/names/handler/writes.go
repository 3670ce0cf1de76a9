package handler

import (
	"net/http"

	"whoami/internal/names/service"
	"whoami/pkg/platform/httputil"
	"whoami/pkg/requestcontext"
)

// HandleMint handles POST /names.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	owner := req.parsedOwner
	if owner.IsNil() {
		owner = caller
	}
	resp, err := h.service.Mint(ctx, caller, service.MintInput{
		TokenID:  req.TokenID,
		Owner:    owner,
		ParentID: req.ParentID,
		TokenURI: req.TokenURI,
		Metadata: req.Metadata,
		Funds:    req.Funds,
	})
	h.writeResult(w, ctx, "mint", http.StatusCreated, resp, err)
}

// HandleMintPath handles POST /names/paths.
func (h *Handler) HandleMintPath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MintPathRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	owner := req.parsedOwner
	if owner.IsNil() {
		owner = caller
	}
	resp, err := h.service.MintPath(ctx, caller, service.MintPathInput{
		Segment:  req.Segment,
		Owner:    owner,
		ParentID: req.ParentID,
		TokenURI: req.TokenURI,
		Metadata: req.Metadata,
	})
	h.writeResult(w, ctx, "mint_path", http.StatusCreated, resp, err)
}

// HandleUpdateMetadata handles PUT /names/{id}/metadata.
func (h *Handler) HandleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateMetadataRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.UpdateMetadata(ctx, caller, tokenID(r), req.Metadata)
	h.writeResult(w, ctx, "update_metadata", http.StatusOK, resp, err)
}

// HandleUpdatePrimaryAlias handles PUT /primary-alias.
func (h *Handler) HandleUpdatePrimaryAlias(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PrimaryAliasRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.UpdatePrimaryAlias(ctx, caller, req.TokenID)
	h.writeResult(w, ctx, "update_primary_alias", http.StatusOK, resp, err)
}

// HandleTransfer handles POST /names/{id}/transfer.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.TransferNft(ctx, caller, tokenID(r), req.parsedRecipient)
	h.writeResult(w, ctx, "transfer_nft", http.StatusOK, resp, err)
}

// HandleSend handles POST /names/{id}/send.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SendRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.SendNft(ctx, caller, tokenID(r), req.parsedContract, req.Msg)
	h.writeResult(w, ctx, "send_nft", http.StatusOK, resp, err)
}

// HandleBurn handles DELETE /names/{id}.
func (h *Handler) HandleBurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	resp, err := h.service.Burn(ctx, caller, tokenID(r))
	h.writeResult(w, ctx, "burn", http.StatusOK, resp, err)
}

// HandleApprove handles POST /names/{id}/approvals.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ApproveRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.Approve(ctx, caller, tokenID(r), req.parsedSpender, req.Expires)
	h.writeResult(w, ctx, "approve", http.StatusOK, resp, err)
}

// HandleRevoke handles DELETE /names/{id}/approvals/{spender}.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	spender, err := addressParam(r, "spender")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := h.service.Revoke(ctx, caller, tokenID(r), spender)
	h.writeResult(w, ctx, "revoke", http.StatusOK, resp, err)
}

// HandleApproveAll handles POST /operators.
func (h *Handler) HandleApproveAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ApproveAllRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.ApproveAll(ctx, caller, req.parsedOperator, req.Expires)
	h.writeResult(w, ctx, "approve_all", http.StatusOK, resp, err)
}

// HandleRevokeAll handles DELETE /operators/{operator}.
func (h *Handler) HandleRevokeAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	operator, err := addressParam(r, "operator")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := h.service.RevokeAll(ctx, caller, operator)
	h.writeResult(w, ctx, "revoke_all", http.StatusOK, resp, err)
}

// HandleUpdateMintingFees handles PUT /admin/minting-fees.
func (h *Handler) HandleUpdateMintingFees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MintingFeesRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.UpdateMintingFees(ctx, caller, req.MintingFees)
	h.writeResult(w, ctx, "update_minting_fees", http.StatusOK, resp, err)
}

// HandleSetUsernameLengthCap handles PUT /admin/username-length-cap.
func (h *Handler) HandleSetUsernameLengthCap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UsernameLengthCapRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.SetUsernameLengthCap(ctx, caller, req.Cap)
	h.writeResult(w, ctx, "set_username_length_cap", http.StatusOK, resp, err)
}

// HandleSetAdminAddress handles PUT /admin/address.
func (h *Handler) HandleSetAdminAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AdminAddressRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.SetAdminAddress(ctx, caller, req.parsedAddress)
	h.writeResult(w, ctx, "set_admin_address", http.StatusOK, resp, err)
}
