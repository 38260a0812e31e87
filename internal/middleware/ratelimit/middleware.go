package ratelimit

import (
	"encoding/json"
	"net/http"
)

// Middleware enforces the given endpoint class for every request passing
// through it. The proxy handlers call the limiter directly so they can
// attach the headers to early-exit responses; this wrapper covers routes
// without their own governance pipeline.
func Middleware(limiter *Limiter, class string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := limiter.Check(r.Context(), class, ClientID(r))
			result.SetHeaders(w.Header())

			if result.Limited {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": result.Message})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
