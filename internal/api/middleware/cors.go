package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets the front end call the API with its session cookie. Credentials
// rule out a wildcard origin, so matching origins are echoed back.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-RAG-Chunks", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}
