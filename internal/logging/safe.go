package logging

import (
	"log/slog"
	"strings"

	"notespy/pkg/requestid"
)

// Generic messages returned to clients in place of raw failure detail.
const (
	msgUnavailable = "Service temporarily unavailable. Please try again later."
	msgDenied      = "Access denied."
	msgGeneric     = "An unexpected error occurred. Please try again."
)

// maxSafeMessageLength is the longest raw error message allowed to pass
// through to a client unchanged.
const maxSafeMessageLength = 200

// SafeErrorMessage maps low-level failure text to a client-safe message.
// Network/timeout-shaped errors generalize to an unavailability message,
// auth-shaped errors to a denial, and anything long or sensitive-looking
// collapses to a generic fallback.
func SafeErrorMessage(err error) string {
	if err == nil {
		return msgGeneric
	}

	message := err.Error()
	lower := strings.ToLower(message)

	if strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "econnrefused") ||
		strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "network") {
		return msgUnavailable
	}

	if strings.Contains(lower, "unauthorized") || strings.Contains(lower, "forbidden") {
		return msgDenied
	}

	if len(message) < maxSafeMessageLength && !IsSensitiveValue(message) {
		return message
	}

	return msgGeneric
}

// ForRequest returns a request-scoped logger carrying the correlation id.
func ForRequest(logger *slog.Logger, requestID string) *slog.Logger {
	if requestID == "" {
		requestID = requestid.Generate()
	}
	return logger.With("request_id", requestID)
}
