// Package recovery converts handler panics into structured 500 responses.
package recovery

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Config holds recovery middleware configuration
type Config struct {
	// StackTrace enables stack trace logging
	StackTrace bool
}

// Middleware creates panic recovery middleware
func Middleware(config Config, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"panic", rec,
						"path", r.URL.Path,
						"method", r.Method,
					)

					if config.StackTrace {
						logger.Error("stack trace",
							"stack", string(debug.Stack()),
						)
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "An unexpected error occurred. Please try again.",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Default creates recovery middleware with default configuration
func Default(logger *slog.Logger) func(http.Handler) http.Handler {
	return Middleware(Config{
		StackTrace: true,
	}, logger)
}
