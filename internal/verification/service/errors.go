package service

import (
	"errors"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/workflow"
	dErrors "verifyflow/pkg/domain-errors"
	"verifyflow/pkg/platform/sentinel"
)

// storeError translates store sentinels into coded errors. Errors that
// already carry a code pass through unchanged.
func storeError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if dErrors.CodeOf(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed), errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, entity+" was changed concurrently")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeIllegalTransition, entity+" is in the wrong state")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to access "+entity)
	}
}

func requireSession(sess ports.Session) error {
	if !sess.Authenticated() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return nil
}

func requireReviewer(sess ports.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if sess.Role != workflow.ActorReviewer {
		return dErrors.New(dErrors.CodeForbidden, "reviewer role required")
	}
	return nil
}

// canView allows the owning applicant and any reviewer.
func canView(sess ports.Session, c *models.Case) error {
	if sess.Role == workflow.ActorReviewer || c.UserID == sess.UserID {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "case belongs to another user")
}

// canEdit allows only the owner, and only while the workflow permits edits.
func canEdit(sess ports.Session, c *models.Case) error {
	if c.UserID != sess.UserID {
		return dErrors.New(dErrors.CodeForbidden, "case belongs to another user")
	}
	return workflow.Check(c.Status, workflow.ActionEdit, sess.Role)
}
