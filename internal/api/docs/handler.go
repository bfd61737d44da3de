package docs

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// SpecPath is where the OpenAPI description is read from, relative to the
// working directory.
const SpecPath = "docs/swagger.yaml"

const specRoute = "/docs/swagger.yaml"

// UIHandler serves Swagger UI pointed at the playground API description.
func UIHandler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(specRoute),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

// SpecHandler serves the YAML description at path.
func SpecHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(path); err != nil {
			http.Error(w, "API description not available", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, path)
	}
}

// RegisterRoutes registers Swagger documentation routes on the router.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get(specRoute, SpecHandler(SpecPath))
	r.Get("/docs/*", UIHandler())
}
