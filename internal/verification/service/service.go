// Package service is the reference Verification Service: it owns cases,
// enforces ownership and roles, and has the final word on every transition.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"verifyflow/internal/casework/aggregate"
	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/schema"
	"verifyflow/internal/platform/config"
	"verifyflow/internal/verification/metrics"
	id "verifyflow/pkg/domain"
	audit "verifyflow/pkg/platform/audit"
)

// Store is the case persistence the service needs. Execute must run
// validate and mutate atomically for the case.
type Store interface {
	Create(ctx context.Context, c *models.Case) error
	FindByID(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	ListDocuments(ctx context.Context, caseID id.CaseID) ([]models.Document, error)
	FindDocument(ctx context.Context, docID id.DocumentID) (models.Document, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Case, error)
	ListByStatus(ctx context.Context, statuses ...models.Status) ([]*models.Case, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
	Execute(ctx context.Context, caseID id.CaseID, validate func(*models.Case) error, mutate func(*models.Case)) (*models.Case, error)
}

// AuditPublisher records case events. Emit failing fails the operation.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service implements ports.VerificationService.
type Service struct {
	store     Store
	tx        StoreTx
	evaluator *aggregate.Evaluator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auditor   AuditPublisher
	tracer    trace.Tracer
	mode      config.ConcurrencyMode
}

var _ ports.VerificationService = (*Service)(nil)

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithTx sets the transaction boundary shared by case writes and audit.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// WithEvaluator replaces the default completion and submission rules.
func WithEvaluator(e *aggregate.Evaluator) Option {
	return func(s *Service) {
		s.evaluator = e
	}
}

func WithConcurrencyMode(mode config.ConcurrencyMode) Option {
	return func(s *Service) {
		s.mode = mode
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		tx:        passthroughTx{},
		evaluator: aggregate.NewEvaluator(schema.NewRegistry()),
		logger:    slog.Default(),
		tracer:    otel.Tracer("verifyflow/verification"),
		mode:      config.LastWriteWins,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, op string, caseID id.CaseID) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("verification.operation", op)}
	if !caseID.IsNil() {
		attrs = append(attrs, attribute.String("case_id", caseID.String()))
	}
	return s.tracer.Start(ctx, "verification."+op, trace.WithAttributes(attrs...))
}

// finish closes the span and records the operation duration.
func (s *Service) finish(span trace.Span, op string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	return s.auditor.Emit(ctx, event)
}

// change runs fn against a copy of the case while the store holds it. The
// copy replaces the stored case only when fn succeeds, so every fallible
// step happens before anything is written.
func (s *Service) change(ctx context.Context, caseID id.CaseID, fn func(c *models.Case) error) (*models.Case, error) {
	var next *models.Case
	c, err := s.store.Execute(ctx, caseID,
		func(c *models.Case) error {
			working := c.Clone()
			if err := fn(working); err != nil {
				return err
			}
			next = working
			return nil
		},
		func(c *models.Case) { *c = *next },
	)
	if err != nil {
		return nil, storeError(err, "case")
	}
	return c, nil
}
