package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/service"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/httputil"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/pagination"
)

var taxonSortFields = map[string]bool{
	"price":      true,
	"name":       true,
	"created-at": true,
	"position":   true,
}

// TaxonHandler handles the taxon product-listing endpoint.
type TaxonHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewTaxonHandler creates a new taxon HTTP handler.
func NewTaxonHandler(svc *service.SearchService, logger *slog.Logger) *TaxonHandler {
	return &TaxonHandler{service: svc, logger: logger}
}

// Browse handles GET /api/v1/taxons/{slug}/products
func (h *TaxonHandler) Browse(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	sorting, err := parseSorting(r, taxonSortFields)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: err.Error()},
		})
		return
	}

	page, err := h.service.Browse(r.Context(), service.BrowseRequest{
		TaxonSlug:  slug,
		Pagination: pagination.FromRequest(r),
		Sorting:    sorting,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}
