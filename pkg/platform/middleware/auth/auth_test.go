package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
	"verifyflow/pkg/requestcontext"
)

type stubValidator struct {
	claims *Claims
	err    error
}

func (v stubValidator) ValidateToken(string) (*Claims, error) { return v.claims, v.err }

type stubRevocation struct {
	revoked bool
	err     error
}

func (r stubRevocation) IsRevoked(context.Context, string) (bool, error) { return r.revoked, r.err }

type AuthMiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
	claims *Claims
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.claims = &Claims{
		UserID:    id.NewUserID(),
		Role:      "reviewer",
		JTI:       "jti-1",
		ExpiresAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func (s *AuthMiddlewareSuite) serve(mw func(http.Handler) http.Handler, header string) (*httptest.ResponseRecorder, context.Context) {
	var seen context.Context
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func (s *AuthMiddlewareSuite) TestRequireAuth() {
	s.Run("valid token populates context", func() {
		mw := RequireAuth(stubValidator{claims: s.claims}, stubRevocation{}, s.logger)
		rec, ctx := s.serve(mw, "Bearer tok")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Require().NotNil(ctx)
		s.Equal(s.claims.UserID, requestcontext.UserID(ctx))
		s.Equal("reviewer", requestcontext.Role(ctx))
		s.Equal("tok", requestcontext.BearerToken(ctx))
		s.Equal("jti-1", requestcontext.TokenID(ctx))
		s.Equal(s.claims.ExpiresAt, requestcontext.TokenExpiresAt(ctx))
	})

	s.Run("missing header", func() {
		rec, ctx := s.serve(RequireAuth(stubValidator{claims: s.claims}, nil, s.logger), "")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Nil(ctx)
	})

	s.Run("wrong scheme", func() {
		rec, _ := s.serve(RequireAuth(stubValidator{claims: s.claims}, nil, s.logger), "Basic abc")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("invalid token", func() {
		v := stubValidator{err: dErrors.New(dErrors.CodeUnauthorized, "invalid token")}
		rec, _ := s.serve(RequireAuth(v, nil, s.logger), "Bearer tok")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("revoked token", func() {
		rec, _ := s.serve(RequireAuth(stubValidator{claims: s.claims}, stubRevocation{revoked: true}, s.logger), "Bearer tok")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Contains(rec.Body.String(), "Token has been revoked")
	})

	s.Run("revocation backend failure is internal", func() {
		rec, _ := s.serve(RequireAuth(stubValidator{claims: s.claims}, stubRevocation{err: errors.New("redis down")}, s.logger), "Bearer tok")
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "redis down")
	})

	s.Run("missing jti with revocation enabled", func() {
		claims := *s.claims
		claims.JTI = ""
		rec, _ := s.serve(RequireAuth(stubValidator{claims: &claims}, stubRevocation{}, s.logger), "Bearer tok")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *AuthMiddlewareSuite) TestRequireRole() {
	chain := func(role string) func(http.Handler) http.Handler {
		claims := *s.claims
		claims.Role = role
		return func(next http.Handler) http.Handler {
			return RequireAuth(stubValidator{claims: &claims}, nil, s.logger)(RequireRole(s.logger, "reviewer")(next))
		}
	}

	rec, _ := s.serve(chain("reviewer"), "Bearer tok")
	s.Equal(http.StatusNoContent, rec.Code)

	rec, _ = s.serve(chain("applicant"), "Bearer tok")
	s.Equal(http.StatusForbidden, rec.Code)
}
