package auth

import (
	"fmt"
	"net/http"
)

// ProtectedRoute reports whether an HTTP request needs a token.
type ProtectedRoute func(r *http.Request) bool

// HTTPMiddleware validates the Bearer token of protected requests and
// stores its claims on the request context.
func HTTPMiddleware(next http.Handler, jwtSecret string, isProtected ProtectedRoute) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtected(r) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := extractTokenFromHeader(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}
	return bearerToken(authHeader)
}
