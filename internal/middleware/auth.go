package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// OperatorAuth validates the static operator bearer token on every
// request except public endpoints. The API is operator-facing: customers
// never call it directly, so a single shared token is sufficient.
type OperatorAuth struct {
	token func() string
}

// NewOperatorAuth creates the auth middleware. token is called per
// request so config reloads take effect without a restart.
func NewOperatorAuth(token func() string) *OperatorAuth {
	return &OperatorAuth{token: token}
}

// Middleware returns an HTTP middleware that enforces the operator token.
func (a *OperatorAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		var tokenString string
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			http.Error(w, "Missing authentication token", http.StatusUnauthorized)
			return
		}

		expected := a.token()
		if expected == "" || subtle.ConstantTimeCompare([]byte(tokenString), []byte(expected)) != 1 {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isPublicEndpoint determines if an endpoint can be accessed without authentication.
func isPublicEndpoint(path string) bool {
	publicPrefixes := []string{
		"/health",
		"/version",
		"/metrics",
	}

	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
