// Package handler exposes the name registry over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"whoami/internal/names/fees"
	"whoami/internal/names/models"
	"whoami/internal/names/service"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/platform/httputil"
	authmw "whoami/pkg/platform/middleware/auth"
	"whoami/pkg/requestcontext"
)

// Service defines the registry operations the handler serves.
type Service interface {
	Mint(ctx context.Context, caller domain.Address, in service.MintInput) (*models.Response, error)
	MintPath(ctx context.Context, caller domain.Address, in service.MintPathInput) (*models.Response, error)
	UpdateMetadata(ctx context.Context, caller domain.Address, id string, md models.Metadata) (*models.Response, error)
	UpdatePrimaryAlias(ctx context.Context, caller domain.Address, id string) (*models.Response, error)
	TransferNft(ctx context.Context, caller domain.Address, id string, recipient domain.Address) (*models.Response, error)
	SendNft(ctx context.Context, caller domain.Address, id string, contract domain.Address, msg []byte) (*models.Response, error)
	Burn(ctx context.Context, caller domain.Address, id string) (*models.Response, error)
	Approve(ctx context.Context, caller domain.Address, id string, spender domain.Address, expires models.Expiration) (*models.Response, error)
	Revoke(ctx context.Context, caller domain.Address, id string, spender domain.Address) (*models.Response, error)
	ApproveAll(ctx context.Context, caller, operator domain.Address, expires models.Expiration) (*models.Response, error)
	RevokeAll(ctx context.Context, caller, operator domain.Address) (*models.Response, error)
	UpdateMintingFees(ctx context.Context, caller domain.Address, next models.MintingFees) (*models.Response, error)
	SetUsernameLengthCap(ctx context.Context, caller domain.Address, requested uint32) (*models.Response, error)
	SetAdminAddress(ctx context.Context, caller, next domain.Address) (*models.Response, error)

	Name(ctx context.Context, id string) (*models.Name, error)
	ResolveFullPath(ctx context.Context, id string) (string, error)
	GetParentId(ctx context.Context, id string) (string, error)
	GetParentInfo(ctx context.Context, id string) (*service.ParentInfo, error)
	IsContract(ctx context.Context, id string) (string, error)
	AddressOf(ctx context.Context, id string) (*service.AddressOf, error)
	OwnerOf(ctx context.Context, id string, includeExpired bool) (*service.OwnerOf, error)
	NftInfo(ctx context.Context, id string) (*service.NftInfo, error)
	AllNftInfo(ctx context.Context, id string, includeExpired bool) (*service.AllNftInfo, error)
	PathsForToken(ctx context.Context, owner domain.Address, id string, page service.Page) ([]string, error)
	PrimaryAlias(ctx context.Context, owner domain.Address) (string, error)
	ResolveDocument(ctx context.Context, did string) (*models.DIDDocument, error)
	Tokens(ctx context.Context, owner domain.Address, page service.Page) ([]string, error)
	Paths(ctx context.Context, owner domain.Address, page service.Page) ([]string, error)
	BaseTokens(ctx context.Context, owner domain.Address, page service.Page) ([]string, error)
	AllTokens(ctx context.Context, page service.Page) ([]string, error)
	ContractInfo(ctx context.Context) (*service.ContractInfo, error)
	NumTokens(ctx context.Context) (uint64, error)
	MintingFees(ctx context.Context) (*models.MintingFees, error)
	GetMintFee(ctx context.Context, name string) (*fees.Quote, error)
	UsernameLengthCap(ctx context.Context) (uint32, error)
	AdminAddress(ctx context.Context) (domain.Address, error)
}

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Handler wires registry endpoints to the names service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a names handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterWrites mounts the state-changing endpoints. The caller must wrap
// the router with the auth middleware.
func (h *Handler) RegisterWrites(r chi.Router) {
	r.Post("/names", h.HandleMint)
	r.Post("/names/paths", h.HandleMintPath)
	r.Put("/names/{id}/metadata", h.HandleUpdateMetadata)
	r.Put("/primary-alias", h.HandleUpdatePrimaryAlias)
	r.Post("/names/{id}/transfer", h.HandleTransfer)
	r.Post("/names/{id}/send", h.HandleSend)
	r.Delete("/names/{id}", h.HandleBurn)
	r.Post("/names/{id}/approvals", h.HandleApprove)
	r.Delete("/names/{id}/approvals/{spender}", h.HandleRevoke)
	r.Post("/operators", h.HandleApproveAll)
	r.Delete("/operators/{operator}", h.HandleRevokeAll)

	r.Put("/admin/minting-fees", h.HandleUpdateMintingFees)
	r.Put("/admin/username-length-cap", h.HandleSetUsernameLengthCap)
	r.Put("/admin/address", h.HandleSetAdminAddress)
}

// RegisterReads mounts the public query endpoints.
func (h *Handler) RegisterReads(r chi.Router) {
	r.Get("/names", h.HandleAllTokens)
	r.Get("/names/{id}", h.HandleGetName)
	r.Get("/names/{id}/full-path", h.HandleFullPath)
	r.Get("/names/{id}/parent", h.HandleParentID)
	r.Get("/names/{id}/parent-info", h.HandleParentInfo)
	r.Get("/names/{id}/contract", h.HandleIsContract)
	r.Get("/names/{id}/address-of", h.HandleAddressOf)
	r.Get("/names/{id}/owner", h.HandleOwnerOf)
	r.Get("/names/{id}/info", h.HandleNftInfo)
	r.Get("/names/{id}/all-info", h.HandleAllNftInfo)
	r.Get("/names/{id}/paths", h.HandlePathsForToken)

	r.Get("/owners/{owner}/primary-alias", h.HandlePrimaryAlias)
	r.Get("/dids/{did}", h.HandleResolveDocument)
	r.Get("/owners/{owner}/names", h.HandleOwnerTokens)
	r.Get("/owners/{owner}/paths", h.HandleOwnerPaths)
	r.Get("/owners/{owner}/base-names", h.HandleOwnerBaseTokens)

	r.Get("/registry/info", h.HandleContractInfo)
	r.Get("/registry/num-tokens", h.HandleNumTokens)
	r.Get("/registry/minting-fees", h.HandleMintingFees)
	r.Get("/registry/mint-fee", h.HandleMintFee)
	r.Get("/registry/username-length-cap", h.HandleUsernameLengthCap)
	r.Get("/registry/admin", h.HandleAdminAddress)
}

// requireCaller returns the authenticated caller or writes 401.
func (h *Handler) requireCaller(w http.ResponseWriter, ctx context.Context) (domain.Address, bool) {
	caller := authmw.GetCaller(ctx)
	if caller.IsNil() {
		h.logger.WarnContext(ctx, "caller missing from context",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return caller, true
}

// writeResult logs a failed operation or writes the response with status.
func (h *Handler) writeResult(w http.ResponseWriter, ctx context.Context, op string, status int, resp any, err error) {
	if err != nil {
		level := slog.LevelWarn
		if dErrors.GetCode(err) == dErrors.CodeInternal {
			level = slog.LevelError
		}
		h.logger.Log(ctx, level, "request failed",
			"operation", op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, status, resp)
}

func tokenID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

func didParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "did"))
}

func addressParam(r *http.Request, key string) (domain.Address, error) {
	addr, err := domain.ParseAddress(chi.URLParam(r, key))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeValidation, key+" is not a valid address")
	}
	return addr, nil
}

// pageFrom reads start_after and limit from the query string.
func pageFrom(r *http.Request) (service.Page, error) {
	q := r.URL.Query()
	page := service.Page{StartAfter: strings.TrimSpace(q.Get("start_after"))}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return service.Page{}, dErrors.New(dErrors.CodeValidation, "limit must be a non-negative integer")
		}
		l := uint32(limit)
		page.Limit = &l
	}
	return page, nil
}

func includeExpired(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("include_expired"))
	return err == nil && v
}
