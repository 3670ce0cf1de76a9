package models

import "whoami/pkg/domain"

// Coin is an amount of a single denomination, in base units.
type Coin struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount"`
}

// MessageKind names an outbound instruction carried out after commit.
type MessageKind string

const (
	MessageBankSend    MessageKind = "bank_send"
	MessageBankBurn    MessageKind = "bank_burn"
	MessageReceiveName MessageKind = "receive_nft"
)

// Message is an outbound instruction emitted by a successful operation.
// Which fields are set depends on Kind.
type Message struct {
	Kind      MessageKind    `json:"kind"`
	ToAddress domain.Address `json:"to_address,omitempty"`
	Amount    []Coin         `json:"amount,omitempty"`
	Sender    domain.Address `json:"sender,omitempty"`
	TokenID   string         `json:"token_id,omitempty"`
	Msg       []byte         `json:"msg,omitempty"`
}

// Attribute is a key/value pair describing what an operation did.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the result of a write operation.
type Response struct {
	Action     string      `json:"action"`
	Attributes []Attribute `json:"attributes"`
	Messages   []Message   `json:"messages,omitempty"`
}

// NewResponse starts a response for action.
func NewResponse(action string) *Response {
	return &Response{
		Action:     action,
		Attributes: []Attribute{{Key: "action", Value: action}},
	}
}

// With appends an attribute and returns the response for chaining.
func (r *Response) With(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// Attr returns the first value recorded under key.
func (r *Response) Attr(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
