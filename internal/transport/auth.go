package transport

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// AuthMiddleware enforces a static bearer token. An empty key disables the check.
func AuthMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized.Error() + ": missing bearer token"})
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized.Error() + ": invalid bearer token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
