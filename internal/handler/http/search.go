package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/query"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/service"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/httputil"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/pagination"
)

var searchSortFields = map[string]bool{
	"price":      true,
	"name":       true,
	"created-at": true,
}

// SearchHandler handles the free-text product search endpoint.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{service: svc, logger: logger}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	sorting, err := parseSorting(r, searchSortFields)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: err.Error()},
		})
		return
	}

	page, err := h.service.Search(r.Context(), service.SearchRequest{
		Term:       term,
		Pagination: pagination.FromRequest(r),
		Sorting:    sorting,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

type sortError string

func (e sortError) Error() string { return string(e) }

// parseSorting extracts sort pairs of the form sort[price]=asc. The raw query
// is scanned sequentially so the caller-supplied sort order is preserved.
func parseSorting(r *http.Request, allowed map[string]bool) ([]query.Sort, error) {
	var sorting []query.Sort

	for _, pair := range strings.Split(r.URL.RawQuery, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		field, ok := sortField(key)
		if !ok {
			continue
		}
		if !allowed[field] {
			return nil, sortError("unknown sort field " + field)
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}
		order := strings.ToLower(value)
		if order != "asc" && order != "desc" {
			return nil, sortError("sort order must be asc or desc")
		}
		sorting = append(sorting, query.Sort{Field: field, Order: order})
	}

	return sorting, nil
}

// sortField extracts "price" from "sort[price]".
func sortField(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, "sort[")
	if !ok {
		return "", false
	}
	field, rest, found := strings.Cut(rest, "]")
	if !found || field == "" || rest != "" {
		return "", false
	}
	return field, true
}
