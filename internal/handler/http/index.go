package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/service"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/httputil"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/validator"
)

type bulkIndexRequest struct {
	Codes []string `json:"codes" validate:"required,min=1,max=500,dive,required"`
}

// IndexHandler handles the index administration endpoints.
type IndexHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewIndexHandler creates a new index administration handler.
func NewIndexHandler(svc *service.SearchService, logger *slog.Logger) *IndexHandler {
	return &IndexHandler{service: svc, logger: logger}
}

// IndexProduct handles POST /api/v1/index/products/{code}
func (h *IndexHandler) IndexProduct(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.service.IndexProduct(r.Context(), code); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"code": code, "status": "indexed"}})
}

// BulkIndex handles POST /api/v1/index/products
func (h *IndexHandler) BulkIndex(w http.ResponseWriter, r *http.Request) {
	var req bulkIndexRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.BulkIndexProducts(r.Context(), req.Codes); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"codes": req.Codes, "status": "indexed"}})
}

// DeleteProduct handles DELETE /api/v1/index/products/{id}
func (h *IndexHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id, "status": "deleted"}})
}

// Reindex handles POST /api/v1/index/reindex
func (h *IndexHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	// Reindexing every channel can take minutes; run it detached from the
	// request context.
	go func() {
		ctx := context.Background()
		if err := h.service.ReindexAll(ctx); err != nil {
			h.logger.ErrorContext(ctx, "background reindex failed", "error", err)
		}
	}()

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"status": "reindex started"}})
}
