// Package ports declares the collaborators the case engine depends on: the
// Verification Service that owns cases and the Identity Provider that issues
// sessions.
package ports

import (
	"context"
	"io"
	"time"

	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/review"
	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
)

// Session is the credential passed explicitly into every service call.
type Session struct {
	Token     string         `json:"token"`
	UserID    id.UserID      `json:"user_id"`
	Role      workflow.Actor `json:"role"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Authenticated reports whether the session names a user and a role.
func (s Session) Authenticated() bool {
	return !s.UserID.IsNil() && s.Role != ""
}

// Upload is one document upload. Content may be nil when only metadata is
// being checked; File.SizeBytes is the declared size.
type Upload struct {
	DocumentType models.DocumentType
	File         models.File
	Content      io.Reader
}

// VerificationService persists cases and has the final word on transitions.
type VerificationService interface {
	CreateCase(ctx context.Context, sess Session, caseType models.CaseType) (*models.Case, error)
	GetCase(ctx context.Context, sess Session, caseID id.CaseID) (*models.Case, error)
	// GetCompleteCase returns the case with profile and documents populated.
	GetCompleteCase(ctx context.Context, sess Session, caseID id.CaseID) (*models.Case, error)
	// SaveProfile stores profile. expectedVersion is the version the caller
	// last saw; zero means the caller makes no claim.
	SaveProfile(ctx context.Context, sess Session, caseID id.CaseID, profile models.Profile, expectedVersion int64) (*models.Case, error)
	SubmitCase(ctx context.Context, sess Session, caseID id.CaseID) (*models.Case, error)
	UploadDocument(ctx context.Context, sess Session, caseID id.CaseID, upload Upload) (*models.Document, error)
	DeleteDocument(ctx context.Context, sess Session, documentID id.DocumentID) error
	ListCasesForUser(ctx context.Context, sess Session, userID id.UserID) ([]*models.Case, error)
	ListPendingCases(ctx context.Context, sess Session) ([]*models.Case, error)
	ClaimCase(ctx context.Context, sess Session, caseID id.CaseID) (*models.Case, error)
	ReviewCase(ctx context.Context, sess Session, caseID id.CaseID, in review.Input) (*models.Case, error)
	DashboardStats(ctx context.Context, sess Session) (*models.DashboardStats, error)
}

// Registration is a new account request.
type Registration struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	FullName string         `json:"full_name"`
	Role     workflow.Actor `json:"role,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityProvider issues and revokes sessions.
type IdentityProvider interface {
	Register(ctx context.Context, reg Registration) (*Session, error)
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Validate(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, sess Session) error
}
