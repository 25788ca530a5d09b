package middle

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/mstgnz/gopos/infra/response"
)

// APIKeyHeader is accepted in place of a Bearer Authorization header
const APIKeyHeader = "X-API-Key"

// AuthMiddleware requires the API key, sent either as
// "Authorization: Bearer <key>" or in the X-API-Key header
func AuthMiddleware(expectedAPIKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expectedAPIKey == "" {
				response.Error(w, http.StatusInternalServerError, "API key not configured", nil)
				return
			}

			apiKey, msg := presentedKey(r)
			if msg == "" && subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedAPIKey)) != 1 {
				msg = "Invalid API key"
			}
			if msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="gopos"`)
				response.Error(w, http.StatusUnauthorized, msg, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// presentedKey returns the key of the request, or a rejection message
func presentedKey(r *http.Request) (string, string) {
	if key := strings.TrimSpace(r.Header.Get(APIKeyHeader)); key != "" {
		return key, ""
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "Authorization header required"
	}
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return "", "Invalid authorization format. Use: Bearer <api_key>"
	}
	if strings.TrimSpace(token) == "" {
		return "", "API key required"
	}
	return token, ""
}
