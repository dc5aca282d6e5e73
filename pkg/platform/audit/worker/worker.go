package worker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "verifyflow/pkg/platform/audit"
	"verifyflow/pkg/platform/audit/store/postgres"
)

// Outbox is the slice of the postgres outbox store the relay drives.
type Outbox interface {
	DB() *sql.DB
	FetchUnpublished(ctx context.Context, tx *sql.Tx, limit int) ([]postgres.Entry, error)
	MarkPublished(ctx context.Context, tx *sql.Tx, ids []uuid.UUID, at time.Time) error
}

// Relay moves outbox entries to a sink (normally the Kafka store) on a
// fixed interval. Entries are marked published only after the sink accepts
// them, so delivery is at-least-once.
type Relay struct {
	outbox   Outbox
	sink     audit.Store
	logger   *slog.Logger
	interval time.Duration
	batch    int
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func NewRelay(outbox Outbox, sink audit.Store, opts ...Option) *Relay {
	r := &Relay{
		outbox:   outbox,
		sink:     sink,
		logger:   slog.Default(),
		interval: time.Second,
		batch:    100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.logger.WarnContext(ctx, "audit outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce relays a single batch and returns how many entries were sent.
// A sink failure stops the batch; entries already sent are still marked.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	tx, err := r.outbox.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin relay tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	entries, err := r.outbox.FetchUnpublished(ctx, tx, r.batch)
	if err != nil {
		return 0, err
	}

	sent := make([]uuid.UUID, 0, len(entries))
	var sinkErr error
	for _, e := range entries {
		if err := r.sink.Append(ctx, e.Event); err != nil {
			sinkErr = fmt.Errorf("relay entry %s: %w", e.ID, err)
			break
		}
		sent = append(sent, e.ID)
	}

	if err := r.outbox.MarkPublished(ctx, tx, sent, time.Now()); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit relay tx: %w", err)
	}
	return len(sent), sinkErr
}
