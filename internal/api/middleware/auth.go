package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/futig/rag-playground/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
)

// RequireBearer rejects requests whose Authorization header does not carry
// token. An empty token disables the check.
func RequireBearer(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				ctxzap.Warn(r.Context(), "rejected internal request without valid token")
				response.Error(w, http.StatusUnauthorized, "unauthorized", "missing or invalid bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
