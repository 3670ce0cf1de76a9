package validation

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/crypto/openpgp/armor"

	"whoami/internal/names/models"
	dErrors "whoami/pkg/domain-errors"
)

const (
	pgpPublicKeyBlockType = "PGP PUBLIC KEY BLOCK"
	pgpPublicKeyHeader    = "-----BEGIN " + pgpPublicKeyBlockType + "-----"

	// maxLogoBytes bounds embedded logos.
	maxLogoBytes = 5 * 1024
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

// ValidatePGPPublicKey reports whether s is an ASCII-armored public key block
// whose armor and checksum decode cleanly. The key packets themselves are not parsed.
func ValidatePGPPublicKey(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, pgpPublicKeyHeader) {
		return false
	}
	block, err := armor.Decode(strings.NewReader(s))
	if err != nil || block.Type != pgpPublicKeyBlockType {
		return false
	}
	body, err := io.ReadAll(block.Body)
	return err == nil && len(body) > 0
}

// ValidateLogo accepts embedded SVG or PNG images and rejects links.
func ValidateLogo(logo *models.Logo) error {
	if logo == nil {
		return nil
	}
	switch logo.Kind {
	case models.LogoURL:
		return dErrors.New(dErrors.CodeNoLinksPermitted, "logo links are not permitted")
	case models.LogoEmbedded:
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown logo kind")
	}
	if len(logo.Data) == 0 || len(logo.Data) > maxLogoBytes {
		return dErrors.New(dErrors.CodeValidation, "embedded logo must be between 1 byte and 5KiB")
	}
	switch logo.Format {
	case models.EmbeddedSVG:
		head := bytes.TrimSpace(logo.Data)
		if !bytes.HasPrefix(head, []byte("<?xml ")) && !bytes.HasPrefix(head, []byte("<svg")) {
			return dErrors.New(dErrors.CodeValidation, "embedded logo is not valid svg")
		}
	case models.EmbeddedPNG:
		if !bytes.HasPrefix(logo.Data, pngHeader) {
			return dErrors.New(dErrors.CodeValidation, "embedded logo is not valid png")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown embedded logo format")
	}
	return nil
}

// ValidateMetadata runs the embedded-field checks applied on mint and on update.
func ValidateMetadata(md models.Metadata) error {
	if err := ValidateLogo(md.ImageData); err != nil {
		return err
	}
	if md.PGPPublicKey != "" && !ValidatePGPPublicKey(md.PGPPublicKey) {
		return dErrors.New(dErrors.CodeInvalidPGPKey, "pgp_public_key is not an armored public key block")
	}
	return ValidateDocument(md.Document)
}
