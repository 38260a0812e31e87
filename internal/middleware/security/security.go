// Package security decorates every response with fixed security headers,
// a content security policy outside development, and a per-response
// request identifier.
package security

import (
	"context"
	"net/http"
	"strings"

	"notespy/pkg/requestid"
)

// securityHeaders are added to all responses regardless of route.
var securityHeaders = map[string]string{
	// Prevent MIME type sniffing
	"X-Content-Type-Options": "nosniff",
	// Prevent clickjacking
	"X-Frame-Options": "DENY",
	// XSS protection for legacy browsers
	"X-XSS-Protection": "1; mode=block",
	"Referrer-Policy":  "strict-origin-when-cross-origin",
	// Restrict browser features; the recorder needs the microphone
	"Permissions-Policy":     "camera=(), microphone=(self), geolocation=(), payment=()",
	"X-DNS-Prefetch-Control": "on",
}

// cspDirectives restrict resource loading to the app itself and the two
// upstream services.
var cspDirectives = []string{
	"default-src 'self'",
	"img-src 'self' data: blob: https:",
	"media-src 'self' blob: https:",
	"connect-src 'self' https://itunes.apple.com https://*.vercel.app",
	"frame-ancestors 'none'",
	"base-uri 'self'",
	"form-action 'self'",
}

// Config holds security middleware configuration
type Config struct {
	// Development disables the CSP header
	Development bool
	// ExtraConnectSrc extends the CSP connect-src with the configured
	// upstream hosts
	ExtraConnectSrc []string
}

type contextKey struct{}

// RequestID returns the correlation id attached by the middleware, or
// an empty string.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Middleware returns the process-wide response decorator.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	csp := buildCSP(cfg.ExtraConnectSrc)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for key, value := range securityHeaders {
				h.Set(key, value)
			}

			if !cfg.Development {
				h.Set("Content-Security-Policy", csp)
			}

			id := requestid.Generate()
			h.Set("X-Request-Id", id)

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
		})
	}
}

func buildCSP(extraConnectSrc []string) string {
	directives := make([]string, len(cspDirectives))
	copy(directives, cspDirectives)

	if len(extraConnectSrc) > 0 {
		for i, d := range directives {
			if strings.HasPrefix(d, "connect-src ") {
				directives[i] = d + " " + strings.Join(extraConnectSrc, " ")
			}
		}
	}

	return strings.Join(directives, "; ")
}
