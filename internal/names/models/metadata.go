package models

// Metadata is the public profile attached to a name.
type Metadata struct {
	Image                    string `json:"image,omitempty"`
	ImageData                *Logo  `json:"image_data,omitempty"`
	Email                    string `json:"email,omitempty"`
	ExternalURL              string `json:"external_url,omitempty"`
	PublicName               string `json:"public_name,omitempty"`
	PublicBio                string `json:"public_bio,omitempty"`
	TwitterID                string `json:"twitter_id,omitempty"`
	DiscordID                string `json:"discord_id,omitempty"`
	TelegramID               string `json:"telegram_id,omitempty"`
	KeybaseID                string `json:"keybase_id,omitempty"`
	ValidatorOperatorAddress string `json:"validator_operator_address,omitempty"`
	ContractAddress          string `json:"contract_address,omitempty"`
	PGPPublicKey             string `json:"pgp_public_key,omitempty"`
	ParentTokenID            string `json:"parent_token_id,omitempty"`

	// Document is the optional DID document of the name.
	Document *DIDDocument `json:"document,omitempty"`
}

// IsEmpty reports whether every profile field is unset. The parent mirror is ignored.
func (m Metadata) IsEmpty() bool {
	m.ParentTokenID = ""
	return m == (Metadata{})
}

// LogoKind selects how a logo is carried.
type LogoKind string

const (
	LogoURL      LogoKind = "url"
	LogoEmbedded LogoKind = "embedded"
)

// EmbeddedFormat is the encoding of an embedded logo.
type EmbeddedFormat string

const (
	EmbeddedSVG EmbeddedFormat = "svg"
	EmbeddedPNG EmbeddedFormat = "png"
)

// Logo is either a link or inline image bytes.
type Logo struct {
	Kind   LogoKind       `json:"kind"`
	URL    string         `json:"url,omitempty"`
	Format EmbeddedFormat `json:"format,omitempty"`
	Data   []byte         `json:"data,omitempty"`
}
