// Package requesttime provides middleware for request-scoped time.
// Every store write and day-boundary check within a request sees the same "now",
// so a request that straddles midnight is judged against a single calendar day.
package requesttime

import (
	"net/http"
	"time"

	"rollcall/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
