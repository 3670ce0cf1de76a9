// Package events relays committed settlement and notification messages from
// the outbox to the message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"whoami/internal/names/models"
)

// Publisher delivers a batch of outbox entries. A returned error leaves the
// whole batch pending so it is retried on the next drain.
type Publisher interface {
	Publish(ctx context.Context, entries []*models.OutboxEntry) error
}

//go:generate mockgen -source=publisher.go -destination=mocks/mocks.go -package=mocks Publisher

// Envelope is the wire form of a relayed message. MessageID is the outbox
// entry id so consumers can deduplicate redeliveries.
type Envelope struct {
	MessageID uuid.UUID      `json:"message_id"`
	Seq       int64          `json:"seq"`
	Action    string         `json:"action"`
	TokenID   string         `json:"token_id"`
	RequestID string         `json:"request_id,omitempty"`
	Message   models.Message `json:"message"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewEnvelope wraps an outbox entry for the wire.
func NewEnvelope(e *models.OutboxEntry) Envelope {
	return Envelope{
		MessageID: e.ID,
		Seq:       e.Seq,
		Action:    e.Action,
		TokenID:   e.TokenID,
		RequestID: e.RequestID,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}

// Encode returns the JSON body of the envelope.
func (e Envelope) Encode() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode envelope %s: %w", e.MessageID, err)
	}
	return body, nil
}

// LogPublisher writes envelopes to the log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, entries []*models.OutboxEntry) error {
	for _, e := range entries {
		env := NewEnvelope(e)
		p.logger.InfoContext(ctx, "settlement message",
			"message_id", env.MessageID.String(),
			"action", env.Action,
			"token_id", env.TokenID,
			"kind", string(env.Message.Kind),
			"to_address", env.Message.ToAddress.String(),
			"request_id", env.RequestID,
		)
	}
	return nil
}
