// Package handler implements the API endpoints and the governance
// pipeline each request passes through: origin policy, rate limit,
// input validation, upstream forward, response classification.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"notespy/internal/middleware/cors"
	"notespy/internal/middleware/ratelimit"
	"notespy/internal/upstream"
	"notespy/pkg/metrics"
)

// PolicyFunc returns the current origin policy. Indirection lets config
// reloads swap the policy without touching the handlers.
type PolicyFunc func() *cors.Policy

// Handler serves the API endpoints.
type Handler struct {
	policy  PolicyFunc
	limiter *ratelimit.Limiter
	match   *upstream.MatchClient
	catalog *upstream.CatalogClient
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates the API handler.
func New(policy PolicyFunc, limiter *ratelimit.Limiter, match *upstream.MatchClient, catalog *upstream.CatalogClient, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		policy:  policy,
		limiter: limiter,
		match:   match,
		catalog: catalog,
		logger:  logger,
		metrics: m,
	}
}

// Preflight answers CORS preflight requests for the API routes.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	h.policy().Preflight(w, r.Header.Get("Origin"))
}

// checkOrigin attaches CORS headers and rejects disallowed origins with
// 403. Browsers would drop the uncredentialed response on their own;
// the explicit check also stops non-browser clients that ignore CORS.
// Requests without an Origin header pass through.
func (h *Handler) checkOrigin(w http.ResponseWriter, r *http.Request, logger *slog.Logger) bool {
	origin := r.Header.Get("Origin")
	policy := h.policy()
	policy.SetHeaders(w.Header(), origin)

	if origin != "" && !policy.OriginAllowed(origin) {
		h.metrics.OriginDenied.WithLabelValues(r.URL.Path).Inc()
		logger.Warn("origin denied", "origin", origin, "path", r.URL.Path)
		writeError(w, http.StatusForbidden, "Origin not allowed")
		return false
	}
	return true
}

// checkRateLimit attaches rate-limit headers and rejects limited
// clients with 429.
func (h *Handler) checkRateLimit(w http.ResponseWriter, r *http.Request, class string, logger *slog.Logger) bool {
	result := h.limiter.Check(r.Context(), class, ratelimit.ClientID(r))
	result.SetHeaders(w.Header())

	if result.Limited {
		h.metrics.RateLimitRejected.WithLabelValues(class).Inc()
		logger.Warn("rate limited", "class", class, "client", ratelimit.ClientID(r))
		writeError(w, http.StatusTooManyRequests, result.Message)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError emits the stable error shape every failure path shares.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
