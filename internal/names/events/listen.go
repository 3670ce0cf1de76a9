package events

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// OutboxChannel is the Postgres notification channel fired on every outbox insert.
const OutboxChannel = "settlement_outbox"

const listenRetryDelay = 5 * time.Second

// Listen holds a dedicated Postgres connection subscribed to OutboxChannel
// and wakes the relay on each notification. It reconnects until ctx ends.
func (r *Relay) Listen(ctx context.Context, databaseURL string) error {
	for {
		err := r.listenOnce(ctx, databaseURL)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.WarnContext(ctx, "outbox listener disconnected", "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(listenRetryDelay):
		}
	}
}

func (r *Relay) listenOnce(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect listener: %w", err)
	}
	defer func() {
		_ = conn.Close(context.Background())
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{OutboxChannel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", OutboxChannel, err)
	}
	// Entries written while disconnected raised no notification we saw.
	r.Notify()

	for {
		if _, err := conn.WaitForNotification(ctx); err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		r.Notify()
	}
}
