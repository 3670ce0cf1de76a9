package validation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp/armor"

	"whoami/internal/names/models"
	dErrors "whoami/pkg/domain-errors"
)

func TestValidateNameCharacters(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"jeffvader", true},
		{"jeff-vader", true},
		{"jeff--vader", false},
		{"_jeff-vader", true},
		{"jeff_vader", true},
		{"_jeff_vader", true},
		{"-jeff_vader", true},
		{"__jeffvader", false},
		{"j3ffv4d3r", true},
		{"j3ff_v4d3r", true},
		{"j3ff__v4d3r", false},
		{"jeff_-vader", false},
		{"JeffVader", false},
		{"Jeff", false},
		{"jeff/vader", false},
		{"jeff::vader", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateNameCharacters(tt.input))
		})
	}
}

func TestValidateNameLength(t *testing.T) {
	t.Run("name at the cap passes", func(t *testing.T) {
		assert.True(t, ValidateNameLength(strings.Repeat("a", 20), 20))
	})
	t.Run("name one over the cap fails", func(t *testing.T) {
		assert.False(t, ValidateNameLength(strings.Repeat("a", 21), 20))
	})
	t.Run("characters are counted, not bytes", func(t *testing.T) {
		assert.True(t, ValidateNameLength(strings.Repeat("é", 20), 20))
	})
	t.Run("empty fails", func(t *testing.T) {
		assert.False(t, ValidateNameLength("", 20))
	})
}

func TestValidatePathCharacters(t *testing.T) {
	const parent = "death-star-employees"
	tests := []struct {
		name    string
		segment string
		parent  string
		want    bool
	}{
		{"plain", "jeffvader", parent, true},
		{"hyphenated", "jeffvader-notable-works", parent, true},
		{"delimiter inside segment", "jeff::vader", parent, false},
		{"hyphen", "jeff-vader", parent, true},
		{"underscore", "jeff_vader", parent, true},
		{"special after slash", "_jeff_vader/_past_employment", parent, false},
		{"leading special", "-jeff_vader", parent, false},
		{"double slash", "jeffvader/past-construction-projects//death-star-one", parent, false},
		{"digits", "j3ffv4d3r", parent, true},
		{"digits underscore", "j3ff_v4d3r", parent, true},
		{"double underscore", "j3ff__v4d3r", parent, false},
		{"mixed specials", "jeff_-vader", parent, false},
		{"uppercase", "JeffVader", parent, false},
		{"trailing hyphen", "jeffvader-", parent, false},
		{"trailing slash", "jeff/vader/trying/to/screw/up/parsing/", parent, false},
		{"parent as prefix", "jeff-vader-trying-his-best", "jeff-vader", false},
		{"parent as suffix", "trying-his-best-it-is-jeff-vader", "jeff-vader", false},
		{"nested slashes", "employment/death-star-1", "jeffvader", true},
		{"empty", "", parent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePathCharacters(tt.segment, tt.parent))
		})
	}
}

func TestPathHelpers(t *testing.T) {
	t.Run("StripRoot removes the namespace once", func(t *testing.T) {
		assert.Equal(t, "::employment", StripRoot("jeffvader::employment", "jeffvader"))
		assert.Equal(t, "::notable-works/star-wars/a-new-hope",
			StripRoot("jeffvader::notable-works/star-wars/a-new-hope", "jeffvader"))
		assert.Equal(t, "employment", StripRoot("employment", "vader"))
		assert.Equal(t, "::employment/death-star-1", StripRoot("jeffvader::employment/death-star-1", "jeffvader"))
	})

	t.Run("IsPath", func(t *testing.T) {
		assert.True(t, IsPath("jeffvader::employment"))
		assert.True(t, IsPath("jeff/vader::employment"))
		assert.False(t, IsPath("jeffvader/employment/death-star-1"))
	})

	t.Run("PathRootMatches needs the delimiter right after the parent", func(t *testing.T) {
		assert.True(t, PathRootMatches("jeffvader::employment", "jeffvader"))
		assert.True(t, PathRootMatches("vader::employment", "vader"))
		assert.False(t, PathRootMatches("jeffvader::employment/death-star-1", "vader"))
		assert.False(t, PathRootMatches("jeffvader::employment/death-star-1", "yoda"))
	})

	t.Run("parent and root ids", func(t *testing.T) {
		id := "deeper::secret-plans::death-star-1"
		assert.Equal(t, "deeper::secret-plans", ImmediateParentID(id))
		assert.Equal(t, "deeper", RootID(id))
		assert.Equal(t, "", ImmediateParentID("deeper"))
		assert.Equal(t, id, JoinPath("deeper::secret-plans", "death-star-1"))
	})
}

func armoredKey(t *testing.T, blockType string) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, blockType, nil)
	require.NoError(t, err)
	_, err = w.Write([]byte("not a real key packet, only the armor is checked"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.String()
}

func TestValidatePGPPublicKey(t *testing.T) {
	t.Run("armored public key block passes", func(t *testing.T) {
		assert.True(t, ValidatePGPPublicKey(armoredKey(t, "PGP PUBLIC KEY BLOCK")))
	})

	t.Run("missing header fails", func(t *testing.T) {
		key := armoredKey(t, "PGP PUBLIC KEY BLOCK")
		_, body, _ := strings.Cut(key, "\n")
		assert.False(t, ValidatePGPPublicKey(body))
	})

	t.Run("private key block fails", func(t *testing.T) {
		assert.False(t, ValidatePGPPublicKey(armoredKey(t, "PGP PRIVATE KEY BLOCK")))
	})

	t.Run("header without armor body fails", func(t *testing.T) {
		assert.False(t, ValidatePGPPublicKey("-----BEGIN PGP PUBLIC KEY BLOCK-----"))
	})
}

func TestValidateMetadata(t *testing.T) {
	t.Run("link logos are rejected", func(t *testing.T) {
		err := ValidateMetadata(models.Metadata{
			ImageData: &models.Logo{Kind: models.LogoURL, URL: "https://example.com/logo.png"},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNoLinksPermitted))
	})

	t.Run("embedded svg is accepted", func(t *testing.T) {
		err := ValidateMetadata(models.Metadata{
			ImageData: &models.Logo{Kind: models.LogoEmbedded, Format: models.EmbeddedSVG, Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)},
		})
		require.NoError(t, err)
	})

	t.Run("png without header is rejected", func(t *testing.T) {
		err := ValidateMetadata(models.Metadata{
			ImageData: &models.Logo{Kind: models.LogoEmbedded, Format: models.EmbeddedPNG, Data: []byte("GIF89a")},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("bad pgp key is rejected", func(t *testing.T) {
		err := ValidateMetadata(models.Metadata{PGPPublicKey: "hello"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidPGPKey))
	})
}

func TestValidateDIDMethod(t *testing.T) {
	assert.True(t, ValidateDIDMethod("whoami"))
	assert.True(t, ValidateDIDMethod("web3"))
	assert.False(t, ValidateDIDMethod(""))
	assert.False(t, ValidateDIDMethod("Who"))
	assert.False(t, ValidateDIDMethod("who-ami"))
}

func TestValidateDocument(t *testing.T) {
	pgp := armoredKey(t, "PGP PUBLIC KEY BLOCK")

	assert.NoError(t, ValidateDocument(nil))
	assert.NoError(t, ValidateDocument(&models.DIDDocument{
		VerificationMethod: []models.VerificationMethod{
			{ID: "#k1", Type: models.VerificationEd25519, PublicKeyBase58: "H3C2AVvLMv6gmMNam3uVAjZpfkcJCwDwnZn6z3wXmqPV"},
			{ID: "#k2", Type: models.VerificationPGP, PublicKeyPGP: pgp},
			{ID: "#k3", Type: models.VerificationBlockchainAccount, BlockchainAccountID: "juno1a2ce4x5z6q"},
		},
		Service: []models.DIDService{{Type: "profile", ServiceEndpoint: "https://alice.example"}},
	}))

	tests := []struct {
		name string
		doc  models.DIDDocument
		code dErrors.Code
	}{
		{"method without id", models.DIDDocument{VerificationMethod: []models.VerificationMethod{{Type: models.VerificationEd25519, PublicKeyBase58: "x"}}}, dErrors.CodeValidation},
		{"unknown method type", models.DIDDocument{VerificationMethod: []models.VerificationMethod{{ID: "#k", Type: "Rsa"}}}, dErrors.CodeValidation},
		{"ed25519 without key", models.DIDDocument{VerificationMethod: []models.VerificationMethod{{ID: "#k", Type: models.VerificationEd25519}}}, dErrors.CodeValidation},
		{"pgp with bad key", models.DIDDocument{VerificationMethod: []models.VerificationMethod{{ID: "#k", Type: models.VerificationPGP, PublicKeyPGP: "nope"}}}, dErrors.CodeInvalidPGPKey},
		{"account without id", models.DIDDocument{VerificationMethod: []models.VerificationMethod{{ID: "#k", Type: models.VerificationBlockchainAccount}}}, dErrors.CodeValidation},
		{"service without type", models.DIDDocument{Service: []models.DIDService{{ServiceEndpoint: "https://a.example"}}}, dErrors.CodeValidation},
		{"relative endpoint", models.DIDDocument{Service: []models.DIDService{{Type: "profile", ServiceEndpoint: "/me"}}}, dErrors.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(&tt.doc)
			assert.True(t, dErrors.HasCode(err, tt.code), "got %v", err)
		})
	}

	t.Run("metadata runs document checks", func(t *testing.T) {
		err := ValidateMetadata(models.Metadata{Document: &models.DIDDocument{Service: []models.DIDService{{Type: "x"}}}})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
