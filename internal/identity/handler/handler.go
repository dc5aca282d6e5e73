// Package handler serves the session endpoints of the Identity Provider.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/workflow"
	dErrors "verifyflow/pkg/domain-errors"
	"verifyflow/pkg/platform/httputil"
	"verifyflow/pkg/platform/middleware/auth"
	"verifyflow/pkg/requestcontext"
)

type Handler struct {
	idp    ports.IdentityProvider
	logger *slog.Logger
}

func New(idp ports.IdentityProvider, logger *slog.Logger) *Handler {
	return &Handler{idp: idp, logger: logger}
}

// Register mounts the auth routes. They read the bearer token themselves and
// must not sit behind the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/register", h.handleRegister)
	r.Post("/api/auth/login", h.handleLogin)
	r.Post("/api/auth/logout", h.handleLogout)
	r.Get("/api/auth/session", h.handleSession)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (r *registerRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.Wrap(dErrors.FieldErrors{{FieldPath: "email", Message: "Email is required"}},
			dErrors.CodeValidation, "registration is invalid")
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email and password are required")
	}
	return nil
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[registerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sess, err := h.idp.Register(ctx, ports.Registration{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     workflow.Actor(strings.ToLower(strings.TrimSpace(req.Role))),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sess)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[loginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sess, err := h.idp.Login(ctx, ports.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.logger.WarnContext(ctx, "login failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
		return
	}
	if err := h.idp.Logout(ctx, ports.Session{Token: token}); err != nil {
		h.logger.WarnContext(ctx, "logout failed", "request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
		return
	}
	sess, err := h.idp.Validate(ctx, token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess)
}
