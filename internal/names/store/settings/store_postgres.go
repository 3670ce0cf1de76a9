package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"whoami/internal/names/models"
	"whoami/pkg/platform/sentinel"
	txcontext "whoami/pkg/platform/tx"
)

// PostgresStore keeps the settings as one JSONB document in a singleton row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) (*models.Settings, error) {
	var raw []byte
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT settings FROM registry_settings WHERE singleton`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	var out models.Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &out, nil
}

func (s *PostgresStore) Save(ctx context.Context, settings *models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO registry_settings (singleton, settings, updated_at)
		VALUES (TRUE, $1, now())
		ON CONFLICT (singleton) DO UPDATE SET settings = EXCLUDED.settings, updated_at = now()
	`, raw)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
