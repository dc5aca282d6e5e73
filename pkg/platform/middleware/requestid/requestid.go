package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"verifyflow/pkg/requestcontext"
)

// Header carries the correlation ID in and out of the service.
const Header = "X-Request-ID"

// Middleware reuses an inbound X-Request-ID (up to 128 chars) or generates one,
// stores it in the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		w.Header().Set(Header, reqID)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), reqID)))
	})
}
