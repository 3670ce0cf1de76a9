package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"whoami/internal/names/events"
	"whoami/internal/names/models"
	"whoami/internal/names/service"
	aliasstore "whoami/internal/names/store/alias"
	namestore "whoami/internal/names/store/name"
	operatorstore "whoami/internal/names/store/operator"
	outboxstore "whoami/internal/names/store/outbox"
	settingsstore "whoami/internal/names/store/settings"
	"whoami/internal/platform/config"
	"whoami/internal/platform/database"
	"whoami/internal/platform/redis"
)

type outbox interface {
	Append(ctx context.Context, entries ...*models.OutboxEntry) error
	Pending(ctx context.Context, limit int) ([]*models.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// backend bundles the stores and the transaction boundaries for one
// persistence mode. The relay drains under drainTx, never under tx.
type backend struct {
	names     service.NameStore
	operators service.OperatorStore
	aliases   aliasstore.Store
	settings  service.SettingsStore
	outbox    outbox
	tx        service.StoreTx
	drainTx   events.TxRunner

	db    *sql.DB
	redis *redis.Client
}

// openBackend selects Postgres when a database URL is configured and the
// in-memory stores otherwise. A configured Redis fronts the alias store.
func openBackend(ctx context.Context, cfg config.Server, logger *slog.Logger) (*backend, error) {
	b := &backend{}
	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, registry state is kept in memory")
		b.names = namestore.NewInMemory()
		b.operators = operatorstore.NewInMemory()
		b.aliases = aliasstore.NewInMemory()
		b.settings = settingsstore.NewInMemory()
		b.outbox = outboxstore.NewInMemory()
		b.tx = service.NewInMemoryTx(cfg.TxTimeout)
		b.drainTx = events.NewLocalDrainTx(0)
	} else {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		b.db = db
		b.names = namestore.NewPostgres(db)
		b.operators = operatorstore.NewPostgres(db)
		b.aliases = aliasstore.NewPostgres(db)
		b.settings = settingsstore.NewPostgres(db)
		b.outbox = outboxstore.NewPostgres(db)
		b.tx = service.NewPostgresTx(db, cfg.TxTimeout)
		b.drainTx = events.NewSQLDrainTx(db, 0)
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if client != nil {
		b.redis = client
		b.aliases = aliasstore.NewCached(b.aliases, client.Client,
			aliasstore.WithTTL(cfg.Redis.AliasTTL),
			aliasstore.WithLogger(logger),
		)
	}
	return b, nil
}

// Close releases the database pool and the Redis client.
func (b *backend) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.db != nil {
		_ = b.db.Close()
	}
}
