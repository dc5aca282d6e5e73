package testutil

import (
	"net/http"

	id "verifyflow/pkg/domain"
	"verifyflow/pkg/requestcontext"
)

// WithAuth simulates what the auth middleware does for an authenticated
// request: user ID and role land in the request context.
func WithAuth(req *http.Request, userID id.UserID, role string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithRole(ctx, role)
	ctx = requestcontext.WithBearerToken(ctx, "test-token")
	return req.WithContext(ctx)
}

// WithRequestID sets a fixed request ID so log and audit assertions are stable.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
