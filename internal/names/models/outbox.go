package models

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is a settlement or notification message waiting to be relayed
// after the operation that produced it committed.
type OutboxEntry struct {
	ID          uuid.UUID
	Seq         int64
	Action      string
	TokenID     string
	RequestID   string
	Message     Message
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// NewOutboxEntry wraps msg for the outbox.
func NewOutboxEntry(action, tokenID, requestID string, msg Message, now time.Time) *OutboxEntry {
	return &OutboxEntry{
		ID:        uuid.New(),
		Action:    action,
		TokenID:   tokenID,
		RequestID: requestID,
		Message:   msg,
		CreatedAt: now,
	}
}
