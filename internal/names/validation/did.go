package validation

import (
	"net/url"

	"whoami/internal/names/models"
	dErrors "whoami/pkg/domain-errors"
)

// ValidateDIDMethod reports whether method is a DID method name: one or more
// lowercase ASCII letters or digits.
func ValidateDIDMethod(method string) bool {
	if method == "" {
		return false
	}
	for _, r := range method {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// ValidateDocument checks the shape of a DID document. Binding to a subject
// happens in models.Metadata.BindDocument.
func ValidateDocument(doc *models.DIDDocument) error {
	if doc == nil {
		return nil
	}
	for _, vm := range doc.VerificationMethod {
		if vm.ID == "" {
			return dErrors.New(dErrors.CodeValidation, "verification method id is required")
		}
		switch vm.Type {
		case models.VerificationEd25519:
			if vm.PublicKeyBase58 == "" {
				return dErrors.New(dErrors.CodeValidation, "ed25519 verification method needs public_key_base_58")
			}
		case models.VerificationPGP:
			if !ValidatePGPPublicKey(vm.PublicKeyPGP) {
				return dErrors.New(dErrors.CodeInvalidPGPKey, "pgp verification method needs an armored public key block")
			}
		case models.VerificationBlockchainAccount:
			if vm.BlockchainAccountID == "" {
				return dErrors.New(dErrors.CodeValidation, "blockchain verification method needs blockchain_account_id")
			}
		default:
			return dErrors.New(dErrors.CodeValidation, "unknown verification method type "+vm.Type)
		}
	}
	for _, svc := range doc.Service {
		if svc.Type == "" {
			return dErrors.New(dErrors.CodeValidation, "service type is required")
		}
		u, err := url.Parse(svc.ServiceEndpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return dErrors.New(dErrors.CodeValidation, "service endpoint must be an absolute url")
		}
	}
	return nil
}
