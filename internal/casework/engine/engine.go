// Package engine is the client-side case workflow. It checks every action
// against the workflow and the schema before the Verification Service is
// called, and refreshes its view of the case after each change.
//
// The engine keeps no authentication state; callers pass a ports.Session
// into each operation. Errors returned by the service are passed back as is.
package engine

import (
	"context"
	"log/slog"
	"time"

	"verifyflow/internal/casework/aggregate"
	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/review"
	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
)

type Engine struct {
	svc       ports.VerificationService
	evaluator *aggregate.Evaluator
	logger    *slog.Logger
	clock     func() time.Time
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the time used for age and date rules.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

func New(svc ports.VerificationService, evaluator *aggregate.Evaluator, opts ...Option) *Engine {
	e := &Engine{
		svc:       svc,
		evaluator: evaluator,
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) CreateCase(ctx context.Context, sess ports.Session, caseType models.CaseType) (*models.Case, error) {
	if err := requireRole(sess, workflow.ActorApplicant); err != nil {
		return nil, err
	}
	if _, err := models.ParseCaseType(string(caseType)); err != nil {
		return nil, err
	}
	created, err := e.svc.CreateCase(ctx, sess, caseType)
	if err != nil {
		return nil, err
	}
	e.logger.InfoContext(ctx, "case created", "case_id", created.ID, "application_type", caseType)
	return e.GetCompleteCase(ctx, sess, created.ID)
}

func (e *Engine) GetCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (*models.Case, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	c, err := e.svc.GetCase(ctx, sess, caseID)
	if err != nil {
		return nil, err
	}
	e.evaluator.Refresh(c)
	return c, nil
}

// GetCompleteCase fetches the case with profile and documents and recomputes
// the cached completion percentage.
func (e *Engine) GetCompleteCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (*models.Case, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	c, err := e.svc.GetCompleteCase(ctx, sess, caseID)
	if err != nil {
		return nil, err
	}
	e.evaluator.Refresh(c)
	return c, nil
}

// SaveProfile stores a draft profile. The profile need not be valid; the
// snapshot's version travels with the request as a concurrency hint.
func (e *Engine) SaveProfile(ctx context.Context, sess ports.Session, snapshot *models.Case, profile models.Profile) (*models.Case, error) {
	if err := e.guard(ctx, sess, snapshot, workflow.ActionEdit); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "profile is required")
	}
	if profile.CaseType() != snapshot.CaseType {
		return nil, dErrors.New(dErrors.CodeInvariantViolation,
			"profile variant "+string(profile.CaseType())+" does not match case type "+string(snapshot.CaseType))
	}
	if _, err := e.svc.SaveProfile(ctx, sess, snapshot.ID, profile, snapshot.Version); err != nil {
		return nil, err
	}
	return e.GetCompleteCase(ctx, sess, snapshot.ID)
}

func (e *Engine) ValidateForSubmission(c *models.Case) (models.ValidationErrors, error) {
	return e.evaluator.ValidateForSubmission(c, e.clock())
}

func (e *Engine) ComputeCompletion(c *models.Case) int {
	return e.evaluator.ComputeCompletion(c)
}

// Submit sends a draft for review. Validation failures come back as a
// CodeValidation error carrying the field list, and the service is not called.
func (e *Engine) Submit(ctx context.Context, sess ports.Session, snapshot *models.Case) (*models.Case, error) {
	if err := e.guard(ctx, sess, snapshot, workflow.ActionSubmit); err != nil {
		return nil, err
	}
	if err := e.evaluator.ReadyForSubmission(snapshot, e.clock()); err != nil {
		e.logger.InfoContext(ctx, "submission blocked by validation",
			"case_id", snapshot.ID,
			"fields", dErrors.FieldsOf(err).Paths(),
		)
		return nil, err
	}
	if _, err := e.svc.SubmitCase(ctx, sess, snapshot.ID); err != nil {
		return nil, err
	}
	e.logger.InfoContext(ctx, "case submitted", "case_id", snapshot.ID)
	return e.GetCompleteCase(ctx, sess, snapshot.ID)
}

func (e *Engine) UploadDocument(ctx context.Context, sess ports.Session, snapshot *models.Case, upload ports.Upload) (*models.Case, error) {
	if err := e.guard(ctx, sess, snapshot, workflow.ActionEdit); err != nil {
		return nil, err
	}
	if err := e.evaluator.Policy().Accept(upload.DocumentType, &upload.File); err != nil {
		return nil, err
	}
	if _, err := e.svc.UploadDocument(ctx, sess, snapshot.ID, upload); err != nil {
		return nil, err
	}
	return e.GetCompleteCase(ctx, sess, snapshot.ID)
}

func (e *Engine) DeleteDocument(ctx context.Context, sess ports.Session, snapshot *models.Case, documentID id.DocumentID) (*models.Case, error) {
	if err := e.guard(ctx, sess, snapshot, workflow.ActionEdit); err != nil {
		return nil, err
	}
	if _, ok := snapshot.Document(documentID); !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "document not found on case")
	}
	if err := e.svc.DeleteDocument(ctx, sess, documentID); err != nil {
		return nil, err
	}
	return e.GetCompleteCase(ctx, sess, snapshot.ID)
}

func (e *Engine) ListMyCases(ctx context.Context, sess ports.Session) ([]*models.Case, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	cases, err := e.svc.ListCasesForUser(ctx, sess, sess.UserID)
	if err != nil {
		return nil, err
	}
	for _, c := range cases {
		e.evaluator.Refresh(c)
	}
	return cases, nil
}

func (e *Engine) ListPending(ctx context.Context, sess ports.Session) ([]*models.Case, error) {
	if err := requireRole(sess, workflow.ActorReviewer); err != nil {
		return nil, err
	}
	cases, err := e.svc.ListPendingCases(ctx, sess)
	if err != nil {
		return nil, err
	}
	for _, c := range cases {
		e.evaluator.Refresh(c)
	}
	return cases, nil
}

// Claim moves a submitted case under review.
func (e *Engine) Claim(ctx context.Context, sess ports.Session, snapshot *models.Case) (*models.Case, error) {
	if err := e.guard(ctx, sess, snapshot, workflow.ActionClaim); err != nil {
		return nil, err
	}
	if _, err := e.svc.ClaimCase(ctx, sess, snapshot.ID); err != nil {
		return nil, err
	}
	return e.GetCompleteCase(ctx, sess, snapshot.ID)
}

// Review records a reviewer decision. A submitted case is claimed by the
// service as part of the decision.
func (e *Engine) Review(ctx context.Context, sess ports.Session, snapshot *models.Case, in review.Input) (*models.Case, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := review.Guard(snapshot.Status, sess.Role); err != nil {
		e.logRejected(ctx, snapshot, workflow.ActionApprove, err)
		return nil, err
	}
	if _, err := e.svc.ReviewCase(ctx, sess, snapshot.ID, in); err != nil {
		return nil, err
	}
	e.logger.InfoContext(ctx, "case reviewed", "case_id", snapshot.ID, "decision", in.Decision)
	return e.GetCompleteCase(ctx, sess, snapshot.ID)
}

func (e *Engine) DashboardStats(ctx context.Context, sess ports.Session) (*models.DashboardStats, error) {
	if err := requireRole(sess, workflow.ActorReviewer); err != nil {
		return nil, err
	}
	return e.svc.DashboardStats(ctx, sess)
}

// guard runs the workflow check for action on the snapshot's status.
func (e *Engine) guard(ctx context.Context, sess ports.Session, snapshot *models.Case, action workflow.Action) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if snapshot == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "case snapshot is required")
	}
	if err := workflow.Check(snapshot.Status, action, sess.Role); err != nil {
		e.logRejected(ctx, snapshot, action, err)
		return err
	}
	return nil
}

func (e *Engine) logRejected(ctx context.Context, c *models.Case, action workflow.Action, err error) {
	e.logger.DebugContext(ctx, "action rejected before service call",
		"case_id", c.ID,
		"status", c.Status,
		"action", action,
		"error", err,
	)
}

func requireSession(sess ports.Session) error {
	if !sess.Authenticated() {
		return dErrors.New(dErrors.CodeUnauthorized, "a session is required")
	}
	return nil
}

func requireRole(sess ports.Session, role workflow.Actor) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if sess.Role != role {
		return dErrors.New(dErrors.CodeForbidden, string(role)+" role required")
	}
	return nil
}
