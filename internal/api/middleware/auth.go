package middleware

import (
	"net/http"
	"strings"

	"github.com/converso/chat-api/internal/api/response"
)

// APIKeyMiddleware guards admin routes with a static Bearer key
type APIKeyMiddleware struct {
	adminAPIKey string
}

// NewAPIKeyMiddleware creates a new API key middleware
func NewAPIKeyMiddleware(adminAPIKey string) *APIKeyMiddleware {
	return &APIKeyMiddleware{adminAPIKey: adminAPIKey}
}

// Verify checks the Authorization header against the configured key.
// A missing or malformed header is 401; a wrong key is 403.
func (m *APIKeyMiddleware) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing Authorization header")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 {
			response.Unauthorized(w, "Invalid authorization format")
			return
		}
		if strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "Invalid authorization scheme")
			return
		}

		if parts[1] != m.adminAPIKey {
			response.Forbidden(w, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
