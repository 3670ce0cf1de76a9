// Package tx carries an open SQL transaction through context so stores can
// join the caller's transaction without changing their signatures.
package tx

import (
	"context"
	"database/sql"
	"sync"
)

type ctxKey struct{}

var txKey = ctxKey{}

// Querier is the subset of *sql.DB and *sql.Tx used by stores.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Conn returns the transaction in ctx, or db when none is open.
func Conn(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

type hooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

// WithCommitHooks marks ctx as inside a transaction and returns the function
// that runs the callbacks registered with AfterCommit, in registration order.
// Callers invoke it only once the transaction has committed.
func WithCommitHooks(ctx context.Context) (context.Context, func(context.Context)) {
	hooks := &commitHooks{}
	run := func(runCtx context.Context) {
		hooks.mu.Lock()
		fns := hooks.fns
		hooks.fns = nil
		hooks.mu.Unlock()
		for _, fn := range fns {
			fn(runCtx)
		}
	}
	return context.WithValue(ctx, hooksKey{}, hooks), run
}

// AfterCommit defers fn until the surrounding transaction commits. Outside a
// transaction fn runs immediately. Rolled back transactions drop their hooks.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	hooks, ok := ctx.Value(hooksKey{}).(*commitHooks)
	if !ok {
		fn(ctx)
		return
	}
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.fns = append(hooks.fns, fn)
}

// InTx reports whether ctx belongs to an open transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(hooksKey{}).(*commitHooks)
	return ok
}
