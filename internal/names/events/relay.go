package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"whoami/internal/names/metrics"
	"whoami/internal/names/models"
	"whoami/pkg/platform/circuit"
)

// OutboxStore is the relay's view of the settlement outbox.
type OutboxStore interface {
	Pending(ctx context.Context, limit int) ([]*models.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// TxRunner scopes a drain to one transaction so claimed rows stay locked
// until they are marked published. It must not be the registry's StoreTx,
// which would hold the writer lock for the length of a publish.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Relay drains the outbox into a Publisher. It wakes on a timer and on
// Notify, and publishes in mint order. While the broker breaker is open
// each drain sends a single entry as a probe.
type Relay struct {
	outbox    OutboxStore
	tx        TxRunner
	publisher Publisher
	breaker   *circuit.Breaker
	metrics   *metrics.Metrics
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	wake      chan struct{}
	now       func() time.Time
}

// RelayOption configures a Relay.
type RelayOption func(*Relay)

func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithRelayLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithRelayMetrics(m *metrics.Metrics) RelayOption {
	return func(r *Relay) {
		r.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) RelayOption {
	return func(r *Relay) {
		if b != nil {
			r.breaker = b
		}
	}
}

func WithClock(now func() time.Time) RelayOption {
	return func(r *Relay) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRelay(outbox OutboxStore, tx TxRunner, publisher Publisher, opts ...RelayOption) (*Relay, error) {
	if outbox == nil {
		return nil, errors.New("outbox store is required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	r := &Relay{
		outbox:    outbox,
		tx:        tx,
		publisher: publisher,
		breaker:   circuit.New("settlement-broker"),
		logger:    slog.Default(),
		interval:  2 * time.Second,
		batchSize: 100,
		wake:      make(chan struct{}, 1),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Notify asks the relay to drain soon. It never blocks.
func (r *Relay) Notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run drains the outbox until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-r.wake:
		}
		if _, err := r.Drain(ctx); err != nil && ctx.Err() == nil {
			r.logger.WarnContext(ctx, "outbox drain failed", "error", err, "circuit", r.breaker.State().String())
		}
	}
}

// Drain publishes pending entries batch by batch and returns how many were
// published. It stops at the first failed batch, and after the probe when
// the breaker is open.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		probing := r.breaker.IsOpen()
		limit := r.batchSize
		if probing {
			limit = 1
		}
		n, err := r.drainBatch(ctx, limit)
		total += n
		if err != nil {
			return total, err
		}
		if probing || n < limit {
			return total, nil
		}
	}
}

func (r *Relay) drainBatch(ctx context.Context, limit int) (int, error) {
	published := 0
	err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		pending, err := r.outbox.Pending(txCtx, limit)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}
		if err := r.publisher.Publish(txCtx, pending); err != nil {
			r.recordFailure(ctx)
			return err
		}
		r.recordSuccess(ctx)

		ids := make([]uuid.UUID, len(pending))
		for i, e := range pending {
			ids[i] = e.ID
		}
		if err := r.outbox.MarkPublished(txCtx, ids, r.now()); err != nil {
			return err
		}
		published = len(pending)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 && r.metrics != nil {
		r.metrics.AddPublished(published)
	}
	return published, nil
}

func (r *Relay) recordFailure(ctx context.Context) {
	if r.metrics != nil {
		r.metrics.IncrementPublishFailures()
	}
	if _, change := r.breaker.RecordFailure(); change.Opened {
		r.logger.ErrorContext(ctx, "settlement broker circuit opened", "breaker", r.breaker.Name())
		if r.metrics != nil {
			r.metrics.SetCircuitOpen(true)
		}
	}
}

func (r *Relay) recordSuccess(ctx context.Context) {
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "settlement broker circuit closed", "breaker", r.breaker.Name())
		if r.metrics != nil {
			r.metrics.SetCircuitOpen(false)
		}
	}
}
