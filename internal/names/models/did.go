package models

import (
	"fmt"
	"slices"

	dErrors "whoami/pkg/domain-errors"
)

// DIDContext is the JSON-LD context every document carries.
const DIDContext = "https://www.w3.org/ns/did/v1"

// DefaultDIDMethod names documents when settings predate the did_method field.
const DefaultDIDMethod = "whoami"

// Verification method types.
const (
	VerificationEd25519           = "Ed25519VerificationKey2018"
	VerificationPGP               = "PgpVerificationKey2021"
	VerificationBlockchainAccount = "EcdsaSecp256k1RecoveryMethod2020"
)

// DIDDocument is the optional decentralized identifier document embedded in
// a name's metadata. Its controller is always the subject itself.
type DIDDocument struct {
	Context            string               `json:"@context"`
	ID                 string               `json:"id"`
	Controller         []string             `json:"controller,omitempty"`
	VerificationMethod []VerificationMethod `json:"verification_method,omitempty"`
	Service            []DIDService         `json:"service,omitempty"`
}

// VerificationMethod is one key or account the subject can prove control with.
// Exactly one of the key fields is set, matching Type.
type VerificationMethod struct {
	ID                  string `json:"id"`
	Type                string `json:"type"`
	Controller          string `json:"controller"`
	PublicKeyBase58     string `json:"public_key_base_58,omitempty"`
	PublicKeyPGP        string `json:"public_key_pgp,omitempty"`
	BlockchainAccountID string `json:"blockchain_account_id,omitempty"`
}

// DIDService is an endpoint the subject is reachable through.
type DIDService struct {
	Type            string `json:"type"`
	ServiceEndpoint string `json:"service_endpoint"`
}

// DIDFor returns the identifier of tokenID under method.
func DIDFor(method, tokenID string) string {
	return fmt.Sprintf("did:%s:%s", method, tokenID)
}

func (d *DIDDocument) clone() *DIDDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.Controller = slices.Clone(d.Controller)
	c.VerificationMethod = slices.Clone(d.VerificationMethod)
	c.Service = slices.Clone(d.Service)
	return &c
}

// BindDocument returns md with its document tied to tokenID. Missing context,
// id and controller are filled in; values naming another subject are rejected.
func (m Metadata) BindDocument(method, tokenID string) (Metadata, error) {
	if m.Document == nil {
		return m, nil
	}
	doc := m.Document.clone()
	did := DIDFor(method, tokenID)

	switch doc.Context {
	case "":
		doc.Context = DIDContext
	case DIDContext:
	default:
		return m, dErrors.New(dErrors.CodeValidation, "document @context must be "+DIDContext)
	}
	switch doc.ID {
	case "":
		doc.ID = did
	case did:
	default:
		return m, dErrors.New(dErrors.CodeValidation, "document id must be "+did)
	}
	for _, c := range doc.Controller {
		if c != did {
			return m, dErrors.New(dErrors.CodeValidation, "document controller must be the subject")
		}
	}
	doc.Controller = []string{did}
	for i := range doc.VerificationMethod {
		vm := &doc.VerificationMethod[i]
		if vm.Controller == "" {
			vm.Controller = did
		}
		if vm.Controller != did {
			return m, dErrors.New(dErrors.CodeValidation, "verification method controller must be the subject")
		}
	}
	m.Document = doc
	return m, nil
}
