package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownClient is the shared bucket for requests without identifying
// headers. Deliberate coarsening for a single-origin deployment behind a
// proxy that always sets forwarding headers.
const UnknownClient = "unknown"

// ClientID derives the client identifier from forwarding headers: the
// first hop of X-Forwarded-For, then X-Real-IP, else UnknownClient.
func ClientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First IP in the chain is the original client; a malformed
		// header with an empty first hop falls through
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return UnknownClient
}
