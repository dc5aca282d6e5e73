package service

import (
	"context"
	"time"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/review"
	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
	audit "verifyflow/pkg/platform/audit"
	"verifyflow/pkg/requestcontext"
)

// ListPendingCases returns submitted and under-review cases, oldest first.
func (s *Service) ListPendingCases(ctx context.Context, sess ports.Session) ([]*models.Case, error) {
	if err := requireReviewer(sess); err != nil {
		return nil, err
	}
	cases, err := s.store.ListByStatus(ctx, models.StatusSubmitted, models.StatusUnderReview)
	if err != nil {
		return nil, storeError(err, "cases")
	}
	return cases, nil
}

// ClaimCase moves a submitted case to under review.
func (s *Service) ClaimCase(ctx context.Context, sess ports.Session, caseID id.CaseID) (_ *models.Case, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "ClaimCase", caseID)
	defer func() { s.finish(span, "ClaimCase", start, err) }()

	if err := requireReviewer(sess); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var claimed *models.Case
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.change(txCtx, caseID, func(c *models.Case) error {
			return workflow.Apply(c, workflow.ActionClaim, sess.Role, now)
		})
		if err != nil {
			return err
		}
		claimed = c
		return s.emit(txCtx, audit.Event{
			UserID:  c.UserID,
			ActorID: sess.UserID.String(),
			CaseID:  c.ID.String(),
			Action:  string(audit.EventReviewClaimed),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "case claimed",
		"case_id", caseID,
		"reviewer_id", sess.UserID,
	)
	return claimed, nil
}

// ReviewCase records a reviewer's terminal decision. A submitted case is
// claimed on the way.
func (s *Service) ReviewCase(ctx context.Context, sess ports.Session, caseID id.CaseID, in review.Input) (_ *models.Case, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "ReviewCase", caseID)
	defer func() { s.finish(span, "ReviewCase", start, err) }()

	if err := requireReviewer(sess); err != nil {
		return nil, err
	}
	in, err = in.Normalize()
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	action := audit.EventCaseApproved
	if in.Decision == models.DecisionRejected {
		action = audit.EventCaseRejected
	}

	var decided *models.Case
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.change(txCtx, caseID, func(c *models.Case) error {
			if err := review.Guard(c.Status, sess.Role); err != nil {
				return err
			}
			return review.Apply(c, in, sess.UserID, now)
		})
		if err != nil {
			return err
		}
		decided = c
		event := audit.Event{
			UserID:   c.UserID,
			ActorID:  sess.UserID.String(),
			CaseID:   c.ID.String(),
			Action:   string(action),
			Decision: string(in.Decision),
			Reason:   in.Notes,
		}
		return s.emit(txCtx, event)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementDecided(string(in.Decision))
	}
	s.logger.InfoContext(ctx, "case reviewed",
		"case_id", caseID,
		"reviewer_id", sess.UserID,
		"decision", in.Decision,
	)
	return decided, nil
}

// DashboardStats counts cases by status for reviewers.
func (s *Service) DashboardStats(ctx context.Context, sess ports.Session) (*models.DashboardStats, error) {
	if err := requireReviewer(sess); err != nil {
		return nil, err
	}
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, storeError(err, "cases")
	}
	stats := &models.DashboardStats{}
	for _, st := range models.AllStatuses() {
		for range counts[st] {
			stats.Tally(st)
		}
	}
	return stats, nil
}
