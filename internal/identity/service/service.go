// Package service is the Identity Provider: it registers accounts and issues
// and revokes the session tokens every case operation carries.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/validation"
	"verifyflow/internal/casework/workflow"
	"verifyflow/internal/identity/models"
	"verifyflow/internal/identity/revocation"
	"verifyflow/internal/identity/secrets"
	"verifyflow/internal/identity/token"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
	"verifyflow/pkg/email"
	audit "verifyflow/pkg/platform/audit"
	"verifyflow/pkg/platform/sentinel"
	"verifyflow/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// RevocationList remembers logged-out token IDs until they would expire.
type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	users   UserStore
	tokens  *token.JWTService
	trl     RevocationList
	auditor AuditPublisher
	logger  *slog.Logger
}

var _ ports.IdentityProvider = (*Service)(nil)

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithRevocationList(trl RevocationList) Option {
	return func(s *Service) {
		s.trl = trl
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func New(users UserStore, tokens *token.JWTService, opts ...Option) *Service {
	s := &Service{
		users:  users,
		tokens: tokens,
		trl:    revocation.NewInMemoryTRL(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register is the public sign-up path. It only ever creates applicants; a
// request naming any other role is refused. Reviewers come from Provision.
func (s *Service) Register(ctx context.Context, reg ports.Registration) (*ports.Session, error) {
	var fields dErrors.FieldErrors
	if reg.Role != "" && reg.Role != workflow.ActorApplicant {
		fields = append(fields, dErrors.FieldError{FieldPath: "role", Message: "Only applicant accounts can be registered"})
	}
	user, err := s.createUser(ctx, reg, workflow.ActorApplicant, fields)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user)
}

// Provision creates an account with an operator-chosen role, used to seed
// reviewers at startup. It opens no session. An empty role provisions a reviewer.
func (s *Service) Provision(ctx context.Context, reg ports.Registration) (*models.User, error) {
	role := reg.Role
	if role == "" {
		role = workflow.ActorReviewer
	}
	var fields dErrors.FieldErrors
	if role != workflow.ActorApplicant && role != workflow.ActorReviewer {
		fields = append(fields, dErrors.FieldError{FieldPath: "role", Message: "Role must be applicant or reviewer"})
	}
	return s.createUser(ctx, reg, role, fields)
}

func (s *Service) createUser(ctx context.Context, reg ports.Registration, role workflow.Actor, fields dErrors.FieldErrors) (*models.User, error) {
	address := email.Normalize(reg.Email)
	var checks dErrors.FieldErrors
	if err := validation.Email(address); err != nil {
		checks = append(checks, dErrors.FieldError{FieldPath: "email", Message: err.Error()})
	}
	if err := validation.Password(reg.Password); err != nil {
		checks = append(checks, dErrors.FieldError{FieldPath: "password", Message: err.Error()})
	}
	checks = append(checks, fields...)
	if len(checks) > 0 {
		return nil, dErrors.Wrap(checks, dErrors.CodeValidation, "registration is invalid")
	}

	hash, err := secrets.Hash(reg.Password)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(reg.FullName)
	if fullName == "" {
		fullName = email.DisplayName(address)
	}
	user := &models.User{
		ID:           id.NewUserID(),
		Email:        address,
		FullName:     fullName,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	if err := s.emit(ctx, audit.Event{
		UserID:  user.ID,
		ActorID: user.ID.String(),
		Action:  string(audit.EventUserRegistered),
		Reason:  string(user.Role),
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		"user_id", user.ID,
		"role", user.Role,
		"request_id", requestcontext.RequestID(ctx),
	)
	return user, nil
}

// Login exchanges credentials for a session. Unknown emails and wrong
// passwords fail the same way.
func (s *Service) Login(ctx context.Context, creds ports.Credentials) (*ports.Session, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	user, err := s.users.FindByEmail(ctx, email.Normalize(creds.Email))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := secrets.Verify(creds.Password, user.PasswordHash); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credentials")
		}
		// Auth failures are recorded best effort; the caller already gets a rejection.
		if auditErr := s.emit(ctx, audit.Event{
			UserID:  user.ID,
			ActorID: user.ID.String(),
			Action:  string(audit.EventAuthFailed),
			Reason:  "bad_password",
		}); auditErr != nil {
			s.logger.WarnContext(ctx, "failed to record auth failure", "user_id", user.ID, "error", auditErr)
		}
		return nil, invalid
	}
	return s.openSession(ctx, user)
}

// Validate resolves a bearer token into the session it stands for.
func (s *Service) Validate(ctx context.Context, tokenString string) (*ports.Session, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := s.trl.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to check session")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session has been revoked")
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	role, err := workflow.ParseActor(claims.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &ports.Session{
		Token:     tokenString,
		UserID:    userID,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session token for the rest of its lifetime. Logging
// out an already revoked session succeeds.
func (s *Service) Logout(ctx context.Context, sess ports.Session) error {
	claims, err := s.tokens.ValidateToken(sess.Token)
	if err != nil {
		return err
	}
	ttl := claims.ExpiresAt.Time.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		return nil
	}
	if err := s.trl.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to revoke session")
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	s.logger.InfoContext(ctx, "session revoked",
		"user_id", userID,
		"jti", claims.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return s.emit(ctx, audit.Event{
		UserID:  userID,
		ActorID: userID.String(),
		Action:  string(audit.EventSessionRevoked),
	})
}

func (s *Service) openSession(ctx context.Context, user *models.User) (*ports.Session, error) {
	issued, err := s.tokens.Issue(user.ID, string(user.Role), requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.emit(ctx, audit.Event{
		UserID:  user.ID,
		ActorID: user.ID.String(),
		Action:  string(audit.EventSessionCreated),
	}); err != nil {
		return nil, err
	}
	return &ports.Session{
		Token:     issued.Token,
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	return s.auditor.Emit(ctx, event)
}
