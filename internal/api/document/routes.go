package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes. internal guards the
// server-to-server endpoint.
func RegisterRoutes(r chi.Router, h *Handler, internal func(http.Handler) http.Handler) {
	r.Post("/upload", h.Upload)
	r.Get("/documents", h.ListDocuments)
	r.With(internal).Post("/process-document", h.ProcessDocument)
}
