// Package metadata records the caller's network address and user agent on the
// request context for access logs.
package metadata

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKeyClientIP struct{}
type contextKeyUserAgent struct{}

// ClientMetadata stores the client IP and User-Agent on the context. Mount it
// before the access logger.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP returns the client IP stored by ClientMetadata.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(contextKeyClientIP{}).(string)
	return ip
}

// GetUserAgent returns the User-Agent stored by ClientMetadata.
func GetUserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(contextKeyUserAgent{}).(string)
	return ua
}

// WithClientMetadata stores ip and userAgent on ctx.
func WithClientMetadata(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, ip)
	return context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
}

// ClientIPFromRequest prefers the first X-Forwarded-For hop, then X-Real-IP,
// then the host part of RemoteAddr. Capture kiosks usually sit behind a proxy.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
