// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
//
//	principal, ok := requestcontext.Principal(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithPrincipal(ctx, requestcontext.AuthPrincipal{ID: 7, Role: requestcontext.RoleLecturer})
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

// Role is the caller's authorization role as asserted by the auth middleware.
type Role string

const (
	RoleLecturer Role = "lecturer"
	RoleHOD      Role = "hod"
	RoleAdmin    Role = "admin"
)

// Known reports whether r is one of the roles the service issues.
func (r Role) Known() bool {
	switch r {
	case RoleLecturer, RoleHOD, RoleAdmin:
		return true
	}
	return false
}

// AuthPrincipal is the authenticated caller. The core never sees raw tokens.
type AuthPrincipal struct {
	ID   int64
	Role Role
}

// HasRole reports whether the principal holds any of roles.
func (p AuthPrincipal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type (
	principalKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyPrincipal   = principalKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// Principal retrieves the authenticated caller from the context.
func Principal(ctx context.Context) (AuthPrincipal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(AuthPrincipal)
	return p, ok
}

// WithPrincipal injects an authenticated caller into the context.
func WithPrincipal(ctx context.Context, p AuthPrincipal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (CLI commands, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
