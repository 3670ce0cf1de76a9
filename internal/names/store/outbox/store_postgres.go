package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"whoami/internal/names/models"
	txcontext "whoami/pkg/platform/tx"
)

// PostgresStore is the settlement_outbox table. Append joins the caller's
// transaction so messages commit atomically with the state change.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entries ...*models.OutboxEntry) error {
	conn := txcontext.Conn(ctx, s.db)
	for _, e := range entries {
		msg, err := json.Marshal(e.Message)
		if err != nil {
			return fmt.Errorf("encode outbox message: %w", err)
		}
		err = conn.QueryRowContext(ctx, `
			INSERT INTO settlement_outbox (id, action, token_id, request_id, message, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING seq
		`, e.ID, e.Action, e.TokenID, e.RequestID, msg, e.CreatedAt).Scan(&e.Seq)
		if err != nil {
			return fmt.Errorf("append outbox entry: %w", err)
		}
	}
	return nil
}

// Pending locks the returned rows so concurrent relays skip each other.
// It must be called inside a transaction for the lock to matter.
func (s *PostgresStore) Pending(ctx context.Context, limit int) ([]*models.OutboxEntry, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT id, seq, action, token_id, request_id, message, created_at
		FROM settlement_outbox
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox: %w", err)
	}
	defer rows.Close()

	out := make([]*models.OutboxEntry, 0)
	for rows.Next() {
		var (
			e   models.OutboxEntry
			msg []byte
		)
		if err := rows.Scan(&e.ID, &e.Seq, &e.Action, &e.TokenID, &e.RequestID, &msg, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		if err := json.Unmarshal(msg, &e.Message); err != nil {
			return nil, fmt.Errorf("decode outbox message %s: %w", e.ID, err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE settlement_outbox SET published_at = $2 WHERE id = ANY($1::uuid[])`, pq.Array(strs), at)
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
