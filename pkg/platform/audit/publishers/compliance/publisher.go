// Package compliance provides a fail-closed audit publisher for case events.
//
// Emit writes synchronously and the caller blocks until the write succeeds.
// If the write fails, an error is returned and the calling operation MUST fail.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	audit "verifyflow/pkg/platform/audit"
	"verifyflow/pkg/requestcontext"
)

// Publisher emits audit events with fail-closed semantics.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// New creates a compliance publisher over store.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit enriches the event with request metadata and writes it.
// Returns error if persistence fails; the caller MUST fail its operation.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	start := time.Now()

	if event.UserID.IsNil() {
		return fmt.Errorf("audit event requires UserID")
	}
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}

	event = event.Normalize(requestcontext.Now(ctx))
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.Device(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.IncPersistFailures()
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: audit write failed",
				"action", event.Action,
				"case_id", event.CaseID,
				"user_id", event.UserID,
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	if p.metrics != nil {
		p.metrics.ObservePersistDuration(time.Since(start).Seconds())
		p.metrics.IncEventsEmitted(event.Category)
	}
	return nil
}
