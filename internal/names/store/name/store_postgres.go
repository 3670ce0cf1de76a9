package name

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"whoami/internal/names/models"
	"whoami/pkg/domain"
	"whoami/pkg/platform/sentinel"
	txcontext "whoami/pkg/platform/tx"
)

const tokenCounterKey = "num_tokens"

const nameColumns = `id, seq, owner, COALESCE(parent_id, ''), separator, token_uri, metadata, approvals, created_at`

// PostgresStore persists names in PostgreSQL. Every method joins the
// transaction carried in ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed name store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanName(row rowScanner) (*models.Name, error) {
	var (
		n         models.Name
		owner     string
		metadata  []byte
		approvals []byte
	)
	if err := row.Scan(&n.ID, &n.Seq, &owner, &n.ParentID, &n.Separator, &n.TokenURI, &metadata, &approvals, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Owner = domain.Address(owner)
	if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata for %q: %w", n.ID, err)
	}
	if len(approvals) > 0 {
		if err := json.Unmarshal(approvals, &n.Approvals); err != nil {
			return nil, fmt.Errorf("decode approvals for %q: %w", n.ID, err)
		}
	}
	return &n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateIfAbsent inserts n, relying on the primary key for atomic uniqueness.
func (s *PostgresStore) CreateIfAbsent(ctx context.Context, n *models.Name) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	approvals, err := json.Marshal(n.Approvals)
	if err != nil {
		return fmt.Errorf("encode approvals: %w", err)
	}
	query := `
		INSERT INTO names (id, owner, parent_id, separator, kind, token_uri, metadata, approvals, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
		RETURNING seq
	`
	err = txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query,
		n.ID, n.Owner.String(), nullable(n.ParentID), n.Separator, string(n.Kind()),
		n.TokenURI, metadata, approvals, n.CreatedAt,
	).Scan(&n.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("name %q: %w", n.ID, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert name: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Name, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT `+nameColumns+` FROM names WHERE id = $1`, id)
	n, err := scanName(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("name %q: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find name: %w", err)
	}
	return n, nil
}

// Update writes owner, uri, metadata and approvals. Identity columns are never touched.
func (s *PostgresStore) Update(ctx context.Context, n *models.Name) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	approvals, err := json.Marshal(n.Approvals)
	if err != nil {
		return fmt.Errorf("encode approvals: %w", err)
	}
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE names
		SET owner = $2, token_uri = $3, metadata = $4, approvals = $5
		WHERE id = $1
	`, n.ID, n.Owner.String(), n.TokenURI, metadata, approvals)
	if err != nil {
		return fmt.Errorf("update name: %w", err)
	}
	return expectRow(res, n.ID)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM names WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete name: %w", err)
	}
	return expectRow(res, id)
}

// DeleteMany removes every listed id in one round trip and returns how many rows went away.
func (s *PostgresStore) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM names WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("delete names batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete names batch: %w", err)
	}
	return int(n), nil
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("name %q: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner domain.Address, filter models.ListFilter) ([]*models.Name, error) {
	return s.list(ctx, nullable(owner.String()), filter)
}

func (s *PostgresStore) ListAll(ctx context.Context, filter models.ListFilter) ([]*models.Name, error) {
	return s.list(ctx, sql.NullString{}, filter)
}

// list pages by seq. An unknown StartAfter cursor resolves to seq 0.
func (s *PostgresStore) list(ctx context.Context, owner sql.NullString, filter models.ListFilter) ([]*models.Name, error) {
	var kind sql.NullString
	if filter.Kind != nil {
		kind = nullable(string(*filter.Kind))
	}
	var limit sql.NullInt64
	if filter.Limit > 0 {
		limit = sql.NullInt64{Int64: int64(filter.Limit), Valid: true}
	}
	query := `
		SELECT ` + nameColumns + `
		FROM names
		WHERE ($1::text IS NULL OR owner = $1)
		  AND ($2::text IS NULL OR kind = $2)
		  AND left(id, length($3)) = $3
		  AND seq > COALESCE((SELECT seq FROM names WHERE id = $4), 0)
		ORDER BY seq
		LIMIT $5
	`
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, owner, kind, filter.Prefix, filter.StartAfter, limit)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Name, 0)
	for rows.Next() {
		n, err := scanName(rows)
		if err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByOwner(ctx context.Context, owner domain.Address) (int, error) {
	var count int
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT count(*) FROM names WHERE owner = $1`, owner.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count names: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) FindByContractAddress(ctx context.Context, addr domain.Address) (*models.Name, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+nameColumns+`
		FROM names
		WHERE metadata->>'contract_address' = $1
		ORDER BY seq
		LIMIT 1
	`, addr.String())
	n, err := scanName(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contract %q: %w", addr, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find by contract address: %w", err)
	}
	return n, nil
}

// AddTokens adjusts the token counter. The counter row is seeded by the
// schema; its CHECK constraint rejects underflow.
func (s *PostgresStore) AddTokens(ctx context.Context, delta int64) (uint64, error) {
	var value int64
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, `
		UPDATE registry_counters SET value = value + $2 WHERE name = $1 RETURNING value
	`, tokenCounterKey, delta).Scan(&value)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "check_violation" {
			return 0, fmt.Errorf("token counter underflow: %w", sentinel.ErrConflict)
		}
		return 0, fmt.Errorf("adjust token counter: %w", err)
	}
	return uint64(value), nil
}

func (s *PostgresStore) TokenCount(ctx context.Context) (uint64, error) {
	var value int64
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT value FROM registry_counters WHERE name = $1`, tokenCounterKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read token counter: %w", err)
	}
	return uint64(value), nil
}
