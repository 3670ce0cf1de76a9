package service

import (
	"context"
	"errors"
	"strings"

	"whoami/internal/names/hierarchy"
	"whoami/internal/names/models"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/platform/sentinel"
	"whoami/pkg/requestcontext"
)

// Page is a user-supplied page request. A nil Limit means the default page size.
type Page struct {
	StartAfter string
	Limit      *uint32
}

func (p Page) filter(kind *models.Kind, prefix string) models.ListFilter {
	return models.ListFilter{
		Kind:       kind,
		Prefix:     prefix,
		StartAfter: p.StartAfter,
		Limit:      models.ClampLimit(p.Limit),
	}
}

func kindOf(k models.Kind) *models.Kind {
	return &k
}

// ParentInfo is a record's parent id together with the parent record.
type ParentInfo struct {
	ParentID string       `json:"parent_id"`
	Parent   *models.Name `json:"parent"`
}

// AddressOf is the set of addresses a name resolves to.
type AddressOf struct {
	Owner                    domain.Address `json:"owner"`
	ContractAddress          string         `json:"contract_address,omitempty"`
	ValidatorOperatorAddress string         `json:"validator_operator_address,omitempty"`
}

// OwnerOf is the owner of a name and the approvals it carries.
type OwnerOf struct {
	Owner     domain.Address    `json:"owner"`
	Approvals []models.Approval `json:"approvals"`
}

// NftInfo is the public content of a name.
type NftInfo struct {
	TokenURI  string          `json:"token_uri,omitempty"`
	Extension models.Metadata `json:"extension"`
}

// AllNftInfo combines OwnerOf and NftInfo.
type AllNftInfo struct {
	Access OwnerOf `json:"access"`
	Info   NftInfo `json:"info"`
}

// ResolveFullPath renders id with its ancestors, root first.
func (s *Service) ResolveFullPath(ctx context.Context, id string) (string, error) {
	full, err := hierarchy.ResolveFullPath(ctx, s.names, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", dErrors.New(dErrors.CodeNotFound, "name not found")
	}
	if err != nil {
		return "", s.readError(err, "failed to resolve full path")
	}
	return full, nil
}

// GetParentId returns the parent id of id.
func (s *Service) GetParentId(ctx context.Context, id string) (string, error) {
	n, err := s.loadName(ctx, id)
	if err != nil {
		return "", err
	}
	if n.ParentID == "" {
		return "", dErrors.New(dErrors.CodeNotFound, "name has no parent")
	}
	return n.ParentID, nil
}

// GetParentInfo returns the parent id of id and the parent record.
func (s *Service) GetParentInfo(ctx context.Context, id string) (*ParentInfo, error) {
	parentID, err := s.GetParentId(ctx, id)
	if err != nil {
		return nil, err
	}
	parent, err := s.names.FindByID(ctx, parentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeMissingParent, "parent name no longer exists")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load parent")
	}
	return &ParentInfo{ParentID: parentID, Parent: parent}, nil
}

// ResolveDocument returns the DID document behind did, which must be issued
// under the registry's DID method.
func (s *Service) ResolveDocument(ctx context.Context, did string) (*models.DIDDocument, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	prefix := models.DIDFor(settings.Method(), "")
	id, ok := strings.CutPrefix(did, prefix)
	if !ok || id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "did must start with "+prefix)
	}
	n, err := s.loadName(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Metadata.Document == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "name has no DID document")
	}
	return n.Metadata.Document, nil
}

// PrimaryAlias returns owner's chosen alias, or else the first base name
// owner still holds. The fallback is never stored.
func (s *Service) PrimaryAlias(ctx context.Context, owner domain.Address) (string, error) {
	alias, err := s.aliases.Get(ctx, owner)
	if err == nil {
		return alias, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load primary alias")
	}

	first, err := s.names.ListByOwner(ctx, owner, models.ListFilter{Kind: kindOf(models.KindBase), Limit: 1})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to list names")
	}
	if len(first) == 0 {
		return "", dErrors.New(dErrors.CodeNoPrimaryAlias, "owner has no primary alias")
	}
	return first[0].ID, nil
}

// PathsForToken lists owner's paths namespaced under id, nested paths included.
func (s *Service) PathsForToken(ctx context.Context, owner domain.Address, id string, page Page) ([]string, error) {
	return s.listOwned(ctx, owner, page.filter(kindOf(models.KindPath), id+models.PathDelimiter))
}

// Paths lists every path owner holds.
func (s *Service) Paths(ctx context.Context, owner domain.Address, page Page) ([]string, error) {
	return s.listOwned(ctx, owner, page.filter(kindOf(models.KindPath), ""))
}

// BaseTokens lists owner's base names.
func (s *Service) BaseTokens(ctx context.Context, owner domain.Address, page Page) ([]string, error) {
	return s.listOwned(ctx, owner, page.filter(kindOf(models.KindBase), ""))
}

// Tokens lists every record owner holds.
func (s *Service) Tokens(ctx context.Context, owner domain.Address, page Page) ([]string, error) {
	return s.listOwned(ctx, owner, page.filter(nil, ""))
}

// AllTokens lists every record in the registry.
func (s *Service) AllTokens(ctx context.Context, page Page) ([]string, error) {
	names, err := s.names.ListAll(ctx, page.filter(nil, ""))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list names")
	}
	return ids(names), nil
}

// NumTokens returns how many records exist.
func (s *Service) NumTokens(ctx context.Context) (uint64, error) {
	count, err := s.names.TokenCount(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count names")
	}
	return count, nil
}

// IsContract returns the contract address declared by id.
func (s *Service) IsContract(ctx context.Context, id string) (string, error) {
	n, err := s.loadName(ctx, id)
	if err != nil {
		return "", err
	}
	if n.Metadata.ContractAddress == "" {
		return "", dErrors.New(dErrors.CodeNotFound, "No contract address")
	}
	return n.Metadata.ContractAddress, nil
}

// AddressOf returns the addresses id resolves to.
func (s *Service) AddressOf(ctx context.Context, id string) (*AddressOf, error) {
	n, err := s.loadName(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AddressOf{
		Owner:                    n.Owner,
		ContractAddress:          n.Metadata.ContractAddress,
		ValidatorOperatorAddress: n.Metadata.ValidatorOperatorAddress,
	}, nil
}

// OwnerOf returns the owner of id and its approvals. Expired approvals are
// dropped unless includeExpired is set.
func (s *Service) OwnerOf(ctx context.Context, id string, includeExpired bool) (*OwnerOf, error) {
	n, err := s.loadName(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ownerOf(ctx, n, includeExpired), nil
}

// NftInfo returns the token uri and profile of id.
func (s *Service) NftInfo(ctx context.Context, id string) (*NftInfo, error) {
	n, err := s.loadName(ctx, id)
	if err != nil {
		return nil, err
	}
	return &NftInfo{TokenURI: n.TokenURI, Extension: n.Metadata}, nil
}

// AllNftInfo returns ownership and content of id in one read.
func (s *Service) AllNftInfo(ctx context.Context, id string, includeExpired bool) (*AllNftInfo, error) {
	n, err := s.loadName(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AllNftInfo{
		Access: *s.ownerOf(ctx, n, includeExpired),
		Info:   NftInfo{TokenURI: n.TokenURI, Extension: n.Metadata},
	}, nil
}

// Name returns the stored record for id.
func (s *Service) Name(ctx context.Context, id string) (*models.Name, error) {
	return s.loadName(ctx, id)
}

func (s *Service) ownerOf(ctx context.Context, n *models.Name, includeExpired bool) *OwnerOf {
	now, height := requestcontext.Now(ctx), requestcontext.BlockHeight(ctx)
	approvals := make([]models.Approval, 0, len(n.Approvals))
	for _, a := range n.Approvals {
		if includeExpired || !a.Expires.IsExpired(now, height) {
			approvals = append(approvals, a)
		}
	}
	return &OwnerOf{Owner: n.Owner, Approvals: approvals}
}

func (s *Service) listOwned(ctx context.Context, owner domain.Address, filter models.ListFilter) ([]string, error) {
	names, err := s.names.ListByOwner(ctx, owner, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list names")
	}
	return ids(names), nil
}

// readError keeps coded errors from the hierarchy walk and wraps anything else.
func (s *Service) readError(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func ids(names []*models.Name) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n.ID)
	}
	return out
}
