package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	txcontext "whoami/pkg/platform/tx"
)

const defaultDrainTimeout = 30 * time.Second

// sqlDrainTx runs each drain in its own transaction. It never takes the
// registry lock: claimed rows are held by FOR UPDATE SKIP LOCKED alone, so
// a slow broker does not stall registry writers.
type sqlDrainTx struct {
	db      *sql.DB
	timeout time.Duration
}

// NewSQLDrainTx returns a TxRunner for the Postgres outbox.
func NewSQLDrainTx(db *sql.DB, timeout time.Duration) TxRunner {
	if timeout <= 0 {
		timeout = defaultDrainTimeout
	}
	return &sqlDrainTx{db: db, timeout: timeout}
}

func (t *sqlDrainTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin drain: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit drain: %w", err)
	}
	return nil
}

// localDrainTx serializes drains of the in-memory outbox with its own mutex.
type localDrainTx struct {
	mu      sync.Mutex
	timeout time.Duration
}

// NewLocalDrainTx returns a TxRunner for the in-memory outbox.
func NewLocalDrainTx(timeout time.Duration) TxRunner {
	if timeout <= 0 {
		timeout = defaultDrainTimeout
	}
	return &localDrainTx{timeout: timeout}
}

func (t *localDrainTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
