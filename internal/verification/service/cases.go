package service

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/workflow"
	"verifyflow/internal/platform/config"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
	audit "verifyflow/pkg/platform/audit"
	"verifyflow/pkg/requestcontext"
)

func (s *Service) CreateCase(ctx context.Context, sess ports.Session, caseType models.CaseType) (_ *models.Case, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "CreateCase", id.CaseID{})
	defer func() { s.finish(span, "CreateCase", start, err) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if sess.Role != workflow.ActorApplicant {
		return nil, dErrors.New(dErrors.CodeForbidden, "only applicants can create cases")
	}
	ct, err := models.ParseCaseType(string(caseType))
	if err != nil {
		return nil, err
	}
	c, err := models.NewCase(id.NewCaseID(), sess.UserID, ct, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	s.evaluator.Refresh(c)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Create(txCtx, c); err != nil {
			return storeError(err, "case")
		}
		return s.emit(txCtx, audit.Event{
			UserID:  sess.UserID,
			ActorID: sess.UserID.String(),
			CaseID:  c.ID.String(),
			Action:  string(audit.EventCaseCreated),
			Reason:  string(ct),
		})
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementCreated(string(ct))
	}
	s.logger.InfoContext(ctx, "case created",
		"case_id", c.ID,
		"user_id", sess.UserID,
		"case_type", ct,
	)
	return c, nil
}

// GetCase returns the case row. Documents are not loaded.
func (s *Service) GetCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (*models.Case, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return nil, storeError(err, "case")
	}
	if err := canView(sess, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCompleteCase loads the case row and its documents concurrently.
func (s *Service) GetCompleteCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (_ *models.Case, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "GetCompleteCase", caseID)
	defer func() { s.finish(span, "GetCompleteCase", start, err) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	var (
		c    *models.Case
		docs []models.Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.store.FindByID(gctx, caseID)
		return err
	})
	g.Go(func() error {
		var err error
		docs, err = s.store.ListDocuments(gctx, caseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeError(err, "case")
	}
	if err := canView(sess, c); err != nil {
		return nil, err
	}
	c.Documents = docs
	return c, nil
}

// SaveProfile replaces the draft profile. Under the strict concurrency mode
// a non-zero expectedVersion must match the stored version.
func (s *Service) SaveProfile(ctx context.Context, sess ports.Session, caseID id.CaseID, profile models.Profile, expectedVersion int64) (_ *models.Case, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "SaveProfile", caseID)
	defer func() { s.finish(span, "SaveProfile", start, err) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "profile is required")
	}
	now := requestcontext.Now(ctx)

	var saved *models.Case
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.change(txCtx, caseID, func(c *models.Case) error {
			if err := canEdit(sess, c); err != nil {
				return err
			}
			if s.mode == config.Strict && expectedVersion != 0 && expectedVersion != c.Version {
				return dErrors.New(dErrors.CodeConflict,
					"case version is "+strconv.FormatInt(c.Version, 10)+", not "+strconv.FormatInt(expectedVersion, 10))
			}
			if err := c.SetProfile(withOwnerIDs(profile)); err != nil {
				return err
			}
			c.Touch(now)
			s.evaluator.Refresh(c)
			return nil
		})
		if err != nil {
			return err
		}
		saved = c
		return s.emit(txCtx, audit.Event{
			UserID:  c.UserID,
			ActorID: sess.UserID.String(),
			CaseID:  c.ID.String(),
			Action:  string(audit.EventProfileSaved),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile saved",
		"case_id", caseID,
		"user_id", sess.UserID,
		"version", saved.Version,
		"completion_percentage", saved.CompletionPercentage,
	)
	return saved, nil
}

// withOwnerIDs copies profile and gives every unsaved beneficial owner a
// persistent ID.
func withOwnerIDs(profile models.Profile) models.Profile {
	p := profile.Clone()
	if bp, ok := p.(*models.BusinessProfile); ok {
		bp.EnsureOwnerLocalIDs()
		for i := range bp.BeneficialOwners {
			if bp.BeneficialOwners[i].ID.IsNil() {
				bp.BeneficialOwners[i].ID = id.NewOwnerID()
			}
		}
	}
	return p
}

// SubmitCase re-runs the full submission check under the case lock and
// moves the case to submitted.
func (s *Service) SubmitCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (_ *models.Case, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "SubmitCase", caseID)
	defer func() { s.finish(span, "SubmitCase", start, err) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var submitted *models.Case
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.change(txCtx, caseID, func(c *models.Case) error {
			if c.UserID != sess.UserID {
				return dErrors.New(dErrors.CodeForbidden, "case belongs to another user")
			}
			if err := workflow.Check(c.Status, workflow.ActionSubmit, sess.Role); err != nil {
				return err
			}
			if err := s.evaluator.ReadyForSubmission(c, now); err != nil {
				return err
			}
			return workflow.Apply(c, workflow.ActionSubmit, sess.Role, now)
		})
		if err != nil {
			return err
		}
		submitted = c
		return s.emit(txCtx, audit.Event{
			UserID:  c.UserID,
			ActorID: sess.UserID.String(),
			CaseID:  c.ID.String(),
			Action:  string(audit.EventCaseSubmitted),
		})
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			if s.metrics != nil {
				s.metrics.IncrementSubmitRejected()
			}
			s.logger.InfoContext(ctx, "submission refused",
				"case_id", caseID,
				"user_id", sess.UserID,
				"fields", len(dErrors.FieldsOf(err)),
			)
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementSubmitted()
	}
	s.logger.InfoContext(ctx, "case submitted",
		"case_id", caseID,
		"user_id", sess.UserID,
	)
	return submitted, nil
}

// ListCasesForUser lets applicants list their own cases; reviewers may list
// anyone's.
func (s *Service) ListCasesForUser(ctx context.Context, sess ports.Session, userID id.UserID) ([]*models.Case, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if sess.Role != workflow.ActorReviewer && userID != sess.UserID {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot list another user's cases")
	}
	cases, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "cases")
	}
	return cases, nil
}
