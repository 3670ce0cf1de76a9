package handler

import (
	"context"
	"net/http"
	"strings"

	"whoami/internal/names/service"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/platform/httputil"
)

// FullPathResponse is returned by GET /names/{id}/full-path.
type FullPathResponse struct {
	TokenID  string `json:"token_id"`
	FullPath string `json:"full_path"`
}

// ParentIDResponse is returned by GET /names/{id}/parent.
type ParentIDResponse struct {
	ParentID string `json:"parent_id"`
}

// ContractResponse is returned by GET /names/{id}/contract.
type ContractResponse struct {
	ContractAddress string `json:"contract_address"`
}

// AliasResponse is returned by GET /owners/{owner}/primary-alias.
type AliasResponse struct {
	Username string `json:"username"`
}

// TokensResponse is returned by every listing endpoint.
type TokensResponse struct {
	Tokens []string `json:"tokens"`
}

// CountResponse is returned by GET /registry/num-tokens.
type CountResponse struct {
	Count uint64 `json:"count"`
}

// LengthCapResponse is returned by GET /registry/username-length-cap.
type LengthCapResponse struct {
	UsernameLengthCap uint32 `json:"username_length_cap"`
}

// AdminResponse is returned by GET /registry/admin.
type AdminResponse struct {
	AdminAddress string `json:"admin_address"`
}

// HandleGetName handles GET /names/{id}.
func (h *Handler) HandleGetName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := h.service.Name(ctx, tokenID(r))
	h.writeResult(w, ctx, "get_name", http.StatusOK, n, err)
}

// HandleFullPath handles GET /names/{id}/full-path.
func (h *Handler) HandleFullPath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := tokenID(r)
	full, err := h.service.ResolveFullPath(ctx, id)
	h.writeResult(w, ctx, "full_path", http.StatusOK, FullPathResponse{TokenID: id, FullPath: full}, err)
}

// HandleParentID handles GET /names/{id}/parent.
func (h *Handler) HandleParentID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parent, err := h.service.GetParentId(ctx, tokenID(r))
	h.writeResult(w, ctx, "parent_id", http.StatusOK, ParentIDResponse{ParentID: parent}, err)
}

// HandleParentInfo handles GET /names/{id}/parent-info.
func (h *Handler) HandleParentInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info, err := h.service.GetParentInfo(ctx, tokenID(r))
	h.writeResult(w, ctx, "parent_info", http.StatusOK, info, err)
}

// HandleIsContract handles GET /names/{id}/contract.
func (h *Handler) HandleIsContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, err := h.service.IsContract(ctx, tokenID(r))
	h.writeResult(w, ctx, "is_contract", http.StatusOK, ContractResponse{ContractAddress: addr}, err)
}

// HandleResolveDocument handles GET /dids/{did}.
func (h *Handler) HandleResolveDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := h.service.ResolveDocument(ctx, didParam(r))
	h.writeResult(w, ctx, "resolve_document", http.StatusOK, doc, err)
}

// HandleAddressOf handles GET /names/{id}/address-of.
func (h *Handler) HandleAddressOf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.AddressOf(ctx, tokenID(r))
	h.writeResult(w, ctx, "address_of", http.StatusOK, out, err)
}

// HandleOwnerOf handles GET /names/{id}/owner.
func (h *Handler) HandleOwnerOf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.OwnerOf(ctx, tokenID(r), includeExpired(r))
	h.writeResult(w, ctx, "owner_of", http.StatusOK, out, err)
}

// HandleNftInfo handles GET /names/{id}/info.
func (h *Handler) HandleNftInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.NftInfo(ctx, tokenID(r))
	h.writeResult(w, ctx, "nft_info", http.StatusOK, out, err)
}

// HandleAllNftInfo handles GET /names/{id}/all-info.
func (h *Handler) HandleAllNftInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.AllNftInfo(ctx, tokenID(r), includeExpired(r))
	h.writeResult(w, ctx, "all_nft_info", http.StatusOK, out, err)
}

// HandlePathsForToken handles GET /names/{id}/paths?owner=.
func (h *Handler) HandlePathsForToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := requiredAddress(r.URL.Query().Get("owner"), "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	page, err := pageFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ids, err := h.service.PathsForToken(ctx, owner, tokenID(r), page)
	h.writeResult(w, ctx, "paths_for_token", http.StatusOK, TokensResponse{Tokens: ids}, err)
}

// HandlePrimaryAlias handles GET /owners/{owner}/primary-alias.
func (h *Handler) HandlePrimaryAlias(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := addressParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	alias, err := h.service.PrimaryAlias(ctx, owner)
	h.writeResult(w, ctx, "primary_alias", http.StatusOK, AliasResponse{Username: alias}, err)
}

// HandleOwnerTokens handles GET /owners/{owner}/names.
func (h *Handler) HandleOwnerTokens(w http.ResponseWriter, r *http.Request) {
	h.ownerListing(w, r, "tokens", h.service.Tokens)
}

// HandleOwnerPaths handles GET /owners/{owner}/paths.
func (h *Handler) HandleOwnerPaths(w http.ResponseWriter, r *http.Request) {
	h.ownerListing(w, r, "paths", h.service.Paths)
}

// HandleOwnerBaseTokens handles GET /owners/{owner}/base-names.
func (h *Handler) HandleOwnerBaseTokens(w http.ResponseWriter, r *http.Request) {
	h.ownerListing(w, r, "base_tokens", h.service.BaseTokens)
}

type ownerLister func(ctx context.Context, owner domain.Address, page service.Page) ([]string, error)

func (h *Handler) ownerListing(w http.ResponseWriter, r *http.Request, op string, list ownerLister) {
	ctx := r.Context()
	owner, err := addressParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	page, err := pageFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ids, err := list(ctx, owner, page)
	h.writeResult(w, ctx, op, http.StatusOK, TokensResponse{Tokens: ids}, err)
}

// HandleAllTokens handles GET /names.
func (h *Handler) HandleAllTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := pageFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ids, err := h.service.AllTokens(ctx, page)
	h.writeResult(w, ctx, "all_tokens", http.StatusOK, TokensResponse{Tokens: ids}, err)
}

// HandleContractInfo handles GET /registry/info.
func (h *Handler) HandleContractInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info, err := h.service.ContractInfo(ctx)
	h.writeResult(w, ctx, "contract_info", http.StatusOK, info, err)
}

// HandleNumTokens handles GET /registry/num-tokens.
func (h *Handler) HandleNumTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := h.service.NumTokens(ctx)
	h.writeResult(w, ctx, "num_tokens", http.StatusOK, CountResponse{Count: count}, err)
}

// HandleMintingFees handles GET /registry/minting-fees.
func (h *Handler) HandleMintingFees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.MintingFees(ctx)
	h.writeResult(w, ctx, "minting_fees", http.StatusOK, out, err)
}

// HandleMintFee handles GET /registry/mint-fee?name=.
func (h *Handler) HandleMintFee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "name is required"))
		return
	}
	quote, err := h.service.GetMintFee(ctx, name)
	h.writeResult(w, ctx, "mint_fee", http.StatusOK, quote, err)
}

// HandleUsernameLengthCap handles GET /registry/username-length-cap.
func (h *Handler) HandleUsernameLengthCap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := h.service.UsernameLengthCap(ctx)
	h.writeResult(w, ctx, "username_length_cap", http.StatusOK, LengthCapResponse{UsernameLengthCap: limit}, err)
}

// HandleAdminAddress handles GET /registry/admin.
func (h *Handler) HandleAdminAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin, err := h.service.AdminAddress(ctx)
	h.writeResult(w, ctx, "admin_address", http.StatusOK, AdminResponse{AdminAddress: admin.String()}, err)
}
