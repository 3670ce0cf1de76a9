package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	dErrors "whoami/pkg/domain-errors"
	txcontext "whoami/pkg/platform/tx"
)

// StoreTx provides the transactional boundary for registry mutations.
// Implementations may wrap a database transaction or, in-memory, a lock.
// Callbacks registered with txcontext.AfterCommit run once fn succeeds.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// defaultTxTimeout is the maximum duration for a registry transaction.
const defaultTxTimeout = 5 * time.Second

// registryLockKey is the advisory lock that serializes registry writers.
const registryLockKey int64 = 0x77686f616d69

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func aborted(err error) error {
	return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
}

// inMemoryTx serializes writers with one mutex. The memory stores cannot roll
// back, so operations run every fallible check before their first write.
type inMemoryTx struct {
	mu      sync.Mutex
	timeout time.Duration
}

// NewInMemoryTx returns a StoreTx for the in-memory stores.
func NewInMemoryTx(timeout time.Duration) StoreTx {
	return &inMemoryTx{timeout: timeout}
}

func (t *inMemoryTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return aborted(err)
	}
	txCtx, commitHooks := txcontext.WithCommitHooks(ctx)
	if err := t.run(txCtx, fn); err != nil {
		return err
	}
	commitHooks(context.WithoutCancel(ctx))
	return nil
}

func (t *inMemoryTx) run(ctx context.Context, fn func(txCtx context.Context) error) error {
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	t.mu.Lock()
	defer t.mu.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return aborted(err)
	}
	return fn(ctx)
}

// postgresTx runs fn in a sql.Tx carried through the context. A transaction
// scoped advisory lock serializes registry writers so cap checks and parent
// ownership checks cannot race.
type postgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresTx returns a StoreTx backed by db.
func NewPostgresTx(db *sql.DB, timeout time.Duration) StoreTx {
	return &postgresTx{db: db, timeout: timeout}
}

func (t *postgresTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return aborted(err)
	}
	hookCtx := context.WithoutCancel(ctx)
	ctx, commitHooks := txcontext.WithCommitHooks(ctx)
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, registryLockKey); err != nil {
		if ctx.Err() != nil {
			return aborted(ctx.Err())
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire registry lock")
	}

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(fmt.Errorf("commit: %w", err), dErrors.CodeInternal, "failed to commit transaction")
	}
	commitHooks(hookCtx)
	return nil
}
