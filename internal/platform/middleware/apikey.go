package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequireAPIKey gates every workflow-triggering route behind the shared
// secret. It short-circuits before any body parsing or validation runs.
// This is a binary gate, not an authorization system: it does not scope
// which requests a caller may see or act on.
func RequireAPIKey(expectedKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			// Use constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(key), []byte(expectedKey)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "api key mismatch",
					"request_id", chimiddleware.GetReqID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"valid API key required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
