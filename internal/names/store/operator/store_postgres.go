package operator

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"whoami/internal/names/models"
	"whoami/pkg/domain"
	"whoami/pkg/platform/sentinel"
	txcontext "whoami/pkg/platform/tx"
)

// PostgresStore persists operator grants in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, op models.Operator) error {
	expires, err := json.Marshal(op.Expires)
	if err != nil {
		return fmt.Errorf("encode expiration: %w", err)
	}
	_, err = txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO operators (owner, operator, expires)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner, operator) DO UPDATE SET expires = EXCLUDED.expires
	`, op.Owner.String(), op.Operator.String(), expires)
	if err != nil {
		return fmt.Errorf("upsert operator: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, owner, operator domain.Address) (*models.Operator, error) {
	var expires []byte
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT expires FROM operators WHERE owner = $1 AND operator = $2`,
		owner.String(), operator.String(),
	).Scan(&expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("operator %s for %s: %w", operator, owner, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find operator: %w", err)
	}
	op := &models.Operator{Owner: owner, Operator: operator}
	if err := json.Unmarshal(expires, &op.Expires); err != nil {
		return nil, fmt.Errorf("decode expiration: %w", err)
	}
	return op, nil
}

func (s *PostgresStore) Delete(ctx context.Context, owner, operator domain.Address) error {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM operators WHERE owner = $1 AND operator = $2`, owner.String(), operator.String())
	if err != nil {
		return fmt.Errorf("delete operator: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("operator %s for %s: %w", operator, owner, sentinel.ErrNotFound)
	}
	return nil
}
