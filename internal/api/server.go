package api

import (
	"net/http"
	"time"

	chatapi "github.com/futig/rag-playground/internal/api/chat"
	"github.com/futig/rag-playground/internal/api/docs"
	documentapi "github.com/futig/rag-playground/internal/api/document"
	"github.com/futig/rag-playground/internal/api/middleware"
	sessionapi "github.com/futig/rag-playground/internal/api/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Document *documentapi.Handler
	Chat     *chatapi.Handler
	Session  *sessionapi.Handler
}

type RouterConfig struct {
	// RequestTimeout bounds every route except the chat stream.
	RequestTimeout time.Duration
	// InternalToken guards /process-document when set.
	InternalToken string
	// AllowedOrigins may call the API from a browser; one "*" wildcard each.
	AllowedOrigins []string
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(cfg RouterConfig, h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)             // Recover from panics
	r.Use(chimiddleware.RequestID)             // Add request ID
	r.Use(middleware.Logger(logger))           // Log requests
	r.Use(middleware.CORS(cfg.AllowedOrigins)) // Handle CORS

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		}
		documentapi.RegisterRoutes(r, h.Document, middleware.RequireBearer(cfg.InternalToken))
		sessionapi.RegisterRoutes(r, h.Session)
	})

	// Streams stay open as long as the provider keeps sending.
	chatapi.RegisterRoutes(r, h.Chat)

	return r
}
