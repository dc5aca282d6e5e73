package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	dErrors "verifyflow/pkg/domain-errors"
	"verifyflow/pkg/platform/httputil"
	"verifyflow/pkg/requestcontext"
)

// PerIP rejects requests once the client IP exhausts the window. Must run
// after the client metadata middleware.
func PerIP(limiter *SlidingWindow, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			result := limiter.Allow(ip)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retry := max(int(time.Until(result.ResetAt).Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				logger.WarnContext(ctx, "rate limit exceeded",
					"path", r.URL.Path,
					"client_ip", ip,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "Too many requests, try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
