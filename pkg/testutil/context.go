package testutil

import (
	"net/http"

	"rollcall/pkg/requestcontext"
)

// WithPrincipal adds an authenticated principal to the request context.
// This simulates what the auth middleware does for bearer-token requests.
func WithPrincipal(req *http.Request, id int64, role requestcontext.Role) *http.Request {
	ctx := requestcontext.WithPrincipal(req.Context(), requestcontext.AuthPrincipal{ID: id, Role: role})
	return req.WithContext(ctx)
}
