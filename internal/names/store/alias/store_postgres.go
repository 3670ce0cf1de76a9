package alias

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"whoami/pkg/domain"
	"whoami/pkg/platform/sentinel"
	txcontext "whoami/pkg/platform/tx"
)

// PostgresStore persists primary aliases in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, owner domain.Address) (string, error) {
	var id string
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT name_id FROM primary_aliases WHERE owner = $1`, owner.String()).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("alias for %s: %w", owner, sentinel.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("find alias: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Set(ctx context.Context, owner domain.Address, id string) error {
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO primary_aliases (owner, name_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (owner) DO UPDATE SET name_id = EXCLUDED.name_id, updated_at = now()
	`, owner.String(), id)
	if err != nil {
		return fmt.Errorf("set alias: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, owner domain.Address) error {
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM primary_aliases WHERE owner = $1`, owner.String()); err != nil {
		return fmt.Errorf("clear alias: %w", err)
	}
	return nil
}
