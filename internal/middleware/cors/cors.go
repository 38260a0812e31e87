// Package cors decides whether a request origin may reach the API and
// produces the headers expressing that decision.
package cors

import (
	"net/http"
	"strconv"
	"strings"
)

// Config holds CORS configuration
type Config struct {
	// AllowedOrigins is the exact-match allow-list
	AllowedOrigins []string
	// AllowedMethods is a list of allowed HTTP methods
	AllowedMethods []string
	// AllowedHeaders is a list of allowed request headers
	AllowedHeaders []string
	// MaxAge indicates how long (in seconds) a preflight result may be cached
	MaxAge int
	// PreviewSuffix additionally allows origins ending in this suffix,
	// e.g. ".vercel.app" for preview deployments
	PreviewSuffix string
	// PreviewMarker must appear in the origin for the suffix rule to
	// apply, so an arbitrary deployment on the shared suffix does not
	// qualify
	PreviewMarker string
}

// DefaultConfig returns the deployment's CORS configuration: production
// and development origins plus the uptime monitors that ping the API to
// prevent cold starts.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{
			"https://notespy.vercel.app",
			"https://www.notespy.vercel.app",
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"https://uptimerobot.com",
			"https://api.uptimerobot.com",
			"https://cronitor.io",
			"https://betteruptime.com",
			"https://uptime.com",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Requested-With",
			"Accept",
			"Origin",
		},
		MaxAge:        86400,
		PreviewSuffix: ".vercel.app",
		PreviewMarker: "notespy",
	}
}

// Policy is an immutable origin policy. Swap the whole value to change
// configuration at runtime.
type Policy struct {
	config         Config
	allowedOrigins map[string]bool
	methods        string
	headers        string
	maxAge         string
}

// New creates a policy from config
func New(config Config) *Policy {
	if len(config.AllowedMethods) == 0 {
		config.AllowedMethods = DefaultConfig().AllowedMethods
	}
	if config.MaxAge == 0 {
		config.MaxAge = 86400
	}

	// Pre-process allowed origins for faster lookup
	allowedOrigins := make(map[string]bool, len(config.AllowedOrigins))
	for _, origin := range config.AllowedOrigins {
		allowedOrigins[strings.ToLower(origin)] = true
	}

	return &Policy{
		config:         config,
		allowedOrigins: allowedOrigins,
		methods:        strings.Join(config.AllowedMethods, ", "),
		headers:        strings.Join(config.AllowedHeaders, ", "),
		maxAge:         strconv.Itoa(config.MaxAge),
	}
}

// OriginAllowed checks if the origin is allowed. No origin is never
// allowed.
func (p *Policy) OriginAllowed(origin string) bool {
	if origin == "" {
		return false
	}

	lower := strings.ToLower(origin)
	if p.allowedOrigins[lower] {
		return true
	}

	// Preview deployments share a hosting suffix; require the project
	// marker so unrelated deployments on the same suffix stay blocked
	if p.config.PreviewSuffix != "" &&
		strings.HasSuffix(lower, p.config.PreviewSuffix) &&
		strings.Contains(lower, p.config.PreviewMarker) {
		return true
	}

	return false
}

// SetHeaders attaches CORS headers for the given origin. Methods,
// headers, and max-age are always present; Allow-Origin (exact echo,
// never a wildcard) and Allow-Credentials only when the origin is
// allowed. Their absence is what signals denial to the browser.
func (p *Policy) SetHeaders(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Methods", p.methods)
	h.Set("Access-Control-Allow-Headers", p.headers)
	h.Set("Access-Control-Max-Age", p.maxAge)

	if p.OriginAllowed(origin) {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")
	}
}

// Preflight writes the response to a CORS preflight request.
func (p *Policy) Preflight(w http.ResponseWriter, origin string) {
	p.SetHeaders(w.Header(), origin)
	w.WriteHeader(http.StatusNoContent)
}
