package handler

import (
	"strings"

	"whoami/internal/names/models"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
)

// maxTokenIDLength bounds ids before they reach the service's length rules.
const maxTokenIDLength = 1024

// MintRequest is the body of POST /names. Owner defaults to the caller.
type MintRequest struct {
	TokenID  string          `json:"token_id"`
	Owner    string          `json:"owner,omitempty"`
	ParentID string          `json:"parent_id,omitempty"`
	TokenURI string          `json:"token_uri,omitempty"`
	Metadata models.Metadata `json:"extension"`
	Funds    []models.Coin   `json:"funds,omitempty"`

	parsedOwner domain.Address
}

// Validate implements httputil.Validatable.
func (r *MintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.TokenID = strings.TrimSpace(r.TokenID)
	if r.TokenID == "" {
		return dErrors.New(dErrors.CodeValidation, "token_id is required")
	}
	if len(r.TokenID) > maxTokenIDLength || len(r.ParentID) > maxTokenIDLength {
		return dErrors.New(dErrors.CodeValidation, "token_id is too long")
	}
	owner, err := optionalAddress(r.Owner, "owner")
	if err != nil {
		return err
	}
	r.parsedOwner = owner
	for _, c := range r.Funds {
		if strings.TrimSpace(c.Denom) == "" {
			return dErrors.New(dErrors.CodeValidation, "funds denom is required")
		}
	}
	return nil
}

// MintPathRequest is the body of POST /names/paths.
type MintPathRequest struct {
	ParentID string          `json:"parent_token_id"`
	Segment  string          `json:"token_id"`
	Owner    string          `json:"owner,omitempty"`
	TokenURI string          `json:"token_uri,omitempty"`
	Metadata models.Metadata `json:"extension"`

	parsedOwner domain.Address
}

// Validate implements httputil.Validatable.
func (r *MintPathRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.ParentID = strings.TrimSpace(r.ParentID)
	r.Segment = strings.TrimSpace(r.Segment)
	if r.ParentID == "" {
		return dErrors.New(dErrors.CodeValidation, "parent_token_id is required")
	}
	if r.Segment == "" {
		return dErrors.New(dErrors.CodeValidation, "token_id is required")
	}
	if len(r.ParentID)+len(r.Segment) > maxTokenIDLength {
		return dErrors.New(dErrors.CodeValidation, "path is too long")
	}
	owner, err := optionalAddress(r.Owner, "owner")
	if err != nil {
		return err
	}
	r.parsedOwner = owner
	return nil
}

// UpdateMetadataRequest is the body of PUT /names/{id}/metadata.
type UpdateMetadataRequest struct {
	Metadata models.Metadata `json:"metadata"`
}

func (r *UpdateMetadataRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// PrimaryAliasRequest is the body of PUT /primary-alias.
type PrimaryAliasRequest struct {
	TokenID string `json:"token_id"`
}

func (r *PrimaryAliasRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.TokenID = strings.TrimSpace(r.TokenID)
	if r.TokenID == "" {
		return dErrors.New(dErrors.CodeValidation, "token_id is required")
	}
	return nil
}

// TransferRequest is the body of POST /names/{id}/transfer.
type TransferRequest struct {
	Recipient string `json:"recipient"`

	parsedRecipient domain.Address
}

func (r *TransferRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	recipient, err := requiredAddress(r.Recipient, "recipient")
	if err != nil {
		return err
	}
	r.parsedRecipient = recipient
	return nil
}

// SendRequest is the body of POST /names/{id}/send. Msg is base64 in JSON.
type SendRequest struct {
	Contract string `json:"contract"`
	Msg      []byte `json:"msg,omitempty"`

	parsedContract domain.Address
}

func (r *SendRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	contract, err := requiredAddress(r.Contract, "contract")
	if err != nil {
		return err
	}
	r.parsedContract = contract
	return nil
}

// ApproveRequest is the body of POST /names/{id}/approvals.
type ApproveRequest struct {
	Spender string            `json:"spender"`
	Expires models.Expiration `json:"expires"`

	parsedSpender domain.Address
}

func (r *ApproveRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	spender, err := requiredAddress(r.Spender, "spender")
	if err != nil {
		return err
	}
	r.parsedSpender = spender
	return nil
}

// ApproveAllRequest is the body of POST /operators.
type ApproveAllRequest struct {
	Operator string            `json:"operator"`
	Expires  models.Expiration `json:"expires"`

	parsedOperator domain.Address
}

func (r *ApproveAllRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	operator, err := requiredAddress(r.Operator, "operator")
	if err != nil {
		return err
	}
	r.parsedOperator = operator
	return nil
}

// MintingFeesRequest is the body of PUT /admin/minting-fees. It replaces
// the whole schedule; the native denom and decimals are kept by the service.
type MintingFeesRequest struct {
	models.MintingFees
}

func (r *MintingFeesRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.BurnPercentage != nil && *r.BurnPercentage > 100 {
		return dErrors.New(dErrors.CodeValidation, "burn_percentage must be at most 100")
	}
	return nil
}

// UsernameLengthCapRequest is the body of PUT /admin/username-length-cap.
type UsernameLengthCapRequest struct {
	Cap uint32 `json:"username_length_cap"`
}

func (r *UsernameLengthCapRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// AdminAddressRequest is the body of PUT /admin/address.
type AdminAddressRequest struct {
	Address string `json:"admin_address"`

	parsedAddress domain.Address
}

func (r *AdminAddressRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	addr, err := requiredAddress(r.Address, "admin_address")
	if err != nil {
		return err
	}
	r.parsedAddress = addr
	return nil
}

func requiredAddress(raw, field string) (domain.Address, error) {
	if strings.TrimSpace(raw) == "" {
		return "", dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	addr, err := domain.ParseAddress(raw)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeValidation, field+" is not a valid address")
	}
	return addr, nil
}

func optionalAddress(raw, field string) (domain.Address, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return requiredAddress(raw, field)
}
