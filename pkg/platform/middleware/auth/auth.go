package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	request "rollcall/pkg/platform/middleware/request"
	"rollcall/pkg/requestcontext"
)

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims the middleware needs from a validated token.
type JWTClaims struct {
	UserID int64
	Role   string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth validates the bearer token and injects a typed principal into the
// request context. Downstream code only ever sees requestcontext.AuthPrincipal.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Token required")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, requestcontext.AuthPrincipal{
				ID:   claims.UserID,
				Role: requestcontext.Role(claims.Role),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects principals that hold none of roles. It must run after RequireAuth.
func RequireRole(logger *slog.Logger, roles ...requestcontext.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principal, ok := requestcontext.Principal(ctx)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Token required")
				return
			}
			if !principal.HasRole(roles...) {
				logger.WarnContext(ctx, "forbidden - role not permitted",
					"role", principal.Role,
					"principal_id", principal.ID,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
