// Package httptransport assembles the public HTTP surface: the case API, the
// session endpoints, health and metrics, behind the shared middleware chain.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"verifyflow/internal/casework/workflow"
	"verifyflow/internal/platform/metrics"
	"verifyflow/internal/platform/middleware"
	"verifyflow/internal/platform/ratelimit"
	"verifyflow/pkg/platform/httputil"
	"verifyflow/pkg/platform/middleware/auth"
	"verifyflow/pkg/platform/middleware/metadata"
	"verifyflow/pkg/platform/middleware/requestid"
	"verifyflow/pkg/platform/middleware/requesttime"
)

// Registrar is a handler group that mounts its own routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Cases      Registrar
	Sessions   Registrar
	Validator  auth.TokenValidator
	Revocation auth.RevocationChecker
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Health     map[string]HealthCheck
	Timeout    time.Duration
	// AuthLimiter throttles the session endpoints per client IP when set.
	AuthLimiter *ratelimit.SlidingWindow
}

// NewRouter wires every endpoint. Case routes require a session; the admin
// subtree additionally requires the reviewer role.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.LatencyMiddleware(d.Metrics))
	if d.Timeout > 0 {
		r.Use(middleware.Timeout(d.Timeout))
	}

	r.Get("/healthz", healthHandler(d.Health))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if d.AuthLimiter != nil {
			r.Use(ratelimit.PerIP(d.AuthLimiter, d.Logger))
		}
		d.Sessions.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.Validator, d.Revocation, d.Logger))
		r.Use(adminOnly(d.Logger))
		d.Cases.Register(r)
	})
	return r
}

// adminOnly applies the reviewer role check to /api/admin routes only, so the
// case handler can keep registering its routes in one place.
func adminOnly(logger *slog.Logger) func(http.Handler) http.Handler {
	requireReviewer := auth.RequireRole(logger, string(workflow.ActorReviewer))
	return func(next http.Handler) http.Handler {
		guarded := requireReviewer(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isAdminPath(r.URL.Path) {
				guarded.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isAdminPath(path string) bool {
	return strings.HasPrefix(path, "/api/admin/")
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
