// Package http exposes the catalog search API over HTTP: free-text search,
// taxon browsing and the index administration endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/service"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/health"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/middleware"
)

// NewRouter creates a chi router with all catalog search routes registered.
func NewRouter(
	searchService *service.SearchService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog-search"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	searchHandler := NewSearchHandler(searchService, logger)
	taxonHandler := NewTaxonHandler(searchService, logger)
	indexHandler := NewIndexHandler(searchService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RequestScope)
			r.Get("/search", searchHandler.Search)
			r.Get("/taxons/{slug}/products", taxonHandler.Browse)
		})

		r.Route("/index", func(r chi.Router) {
			r.Post("/products", indexHandler.BulkIndex)
			r.Post("/products/{code}", indexHandler.IndexProduct)
			r.Delete("/products/{id}", indexHandler.DeleteProduct)
			r.Post("/reindex", indexHandler.Reindex)
		})
	})

	return r
}
