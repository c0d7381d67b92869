package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/client/memory"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/generator"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/locale"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/normalizer"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/parser"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/provider"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/query"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/query/fragment"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/service"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/health"
)

type fixtureCatalog struct {
	products []*domain.Product
	taxons   map[string]*domain.Taxon
}

func (f *fixtureCatalog) Product(_ context.Context, _ *domain.Channel, code string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("product", code)
}

func (f *fixtureCatalog) AllProducts(_ context.Context, _ *domain.Channel) ([]*domain.Product, error) {
	return f.products, nil
}

func (f *fixtureCatalog) TaxonBySlug(_ context.Context, slug, _ string) (*domain.Taxon, error) {
	if taxon, ok := f.taxons[slug]; ok {
		return taxon, nil
	}
	return nil, apperrors.NotFound("taxon", slug)
}

var (
	capsTaxon = &domain.Taxon{
		ID:   1,
		Code: "caps",
		Translations: []domain.TaxonTranslation{
			{Locale: "en_US", Name: "Caps", Slug: "caps"},
		},
	}
	colorAttribute = &domain.Attribute{
		ID:          10,
		Code:        "color",
		StorageType: "text",
		Filterable:  domain.FilterableFlag(true),
	}
)

func fixtureProduct(id int, code, name string, price int64, position int, color string) *domain.Product {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, id)
	return &domain.Product{
		ID:        id,
		Code:      code,
		Enabled:   true,
		CreatedAt: &created,
		Translations: []domain.ProductTranslation{
			{Locale: "en_US", Name: name, Slug: code + "-slug"},
		},
		Taxons: []domain.ProductTaxon{
			{Taxon: capsTaxon, Position: position},
		},
		Variants: []*domain.Variant{
			{
				ID:      id * 100,
				Code:    code + "-v1",
				Enabled: true,
				ChannelPricings: []*domain.ChannelPricing{
					{ChannelCode: "WEB", Price: &price},
				},
			},
		},
		Attributes: []domain.AttributeValue{
			{ID: id*100 + 1, Code: color, Value: color, Attribute: colorAttribute},
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := fragment.NewRenderer()
	require.NoError(t, err)

	channels := provider.NewStaticChannelProvider([]*domain.Channel{
		{Code: "WEB", DefaultLocale: "en_US"},
	})
	channelCtx := &provider.ContextChannelResolver{Channels: channels, Default: "WEB"}
	locales := locale.ContextResolver{Default: "en_US"}

	catalog := &fixtureCatalog{
		products: []*domain.Product{
			fixtureProduct(1, "MUG", "Coffee mug", 500, 2, "red"),
			fixtureProduct(2, "TEE", "Cotton tee", 1500, 0, "blue"),
			fixtureProduct(3, "CAP", "Coffee cap", 1000, 1, "red"),
		},
		taxons: map[string]*domain.Taxon{"caps": capsTaxon},
	}

	svc := service.NewSearchService(service.Deps{
		Client:     memory.New(),
		Builder:    query.NewBuilder(renderer, locales, logger),
		Parser:     parser.NewDocumentParser(locales, channelCtx, "en_US"),
		Normalizer: normalizer.NewProductNormalizer(normalizer.PositionVariantResolver{}),
		Names:      generator.NewIndexNameGenerator("store"),
		Channels:   channels,
		ChannelCtx: channelCtx,
		Products:   catalog,
		Taxons:     catalog,
		Locales:    locales,
		Logger:     logger,
	})
	require.NoError(t, svc.ReindexAll(context.Background()))

	return NewRouter(svc, health.NewHandler(), logger)
}

type pageResponse struct {
	Data struct {
		Data []struct {
			Code string  `json:"code"`
			Name *string `json:"name"`
			Slug string  `json:"slug"`
		} `json:"data"`
		TotalCount int64       `json:"total_count"`
		Page       int         `json:"page"`
		TotalPages int         `json:"total_pages"`
		Facets     []facetBody `json:"facets"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type facetBody struct {
	Name   string `json:"name"`
	Values []struct {
		Value    string `json:"value"`
		Count    int64  `json:"count"`
		Selected bool   `json:"selected"`
	} `json:"values"`
}

func findFacet(facets []facetBody, name string) (facetBody, bool) {
	for _, f := range facets {
		if f.Name == name {
			return f, true
		}
	}
	return facetBody{}, false
}

func doRequest(t *testing.T, router http.Handler, method, target string) (*httptest.ResponseRecorder, pageResponse) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body pageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/search?q=coffee")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), body.Data.TotalCount)
	for _, product := range body.Data.Data {
		require.NotNil(t, product.Name)
		assert.Contains(t, *product.Name, "Coffee")
	}
}

func TestSearchEndpointAppliesQueryStringFilters(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/search?filters%5Bcolor%5D=red")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), body.Data.TotalCount)

	colorFacet, ok := findFacet(body.Data.Facets, "color")
	require.True(t, ok)
	for _, value := range colorFacet.Values {
		assert.Equal(t, value.Value == "red", value.Selected)
	}
}

func TestSearchEndpointSorting(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/search?sort%5Bprice%5D=asc")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Data.Data, 3)
	assert.Equal(t, "MUG", body.Data.Data[0].Code)
	assert.Equal(t, "CAP", body.Data.Data[1].Code)
	assert.Equal(t, "TEE", body.Data.Data[2].Code)
}

func TestSearchEndpointRejectsUnknownSortField(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/search?sort%5Bposition%5D=asc")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_PARAMETER", body.Error.Code)
}

func TestSearchEndpointRejectsBadSortOrder(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/search?sort%5Bprice%5D=sideways")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_PARAMETER", body.Error.Code)
}

func TestSearchEndpointPaginates(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/search?page=2&per_page=2")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), body.Data.TotalCount)
	assert.Len(t, body.Data.Data, 1)
	assert.Equal(t, 2, body.Data.Page)
	assert.Equal(t, 2, body.Data.TotalPages)
}

func TestTaxonEndpointDefaultsToPositionOrder(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/taxons/caps/products")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Data.Data, 3)
	assert.Equal(t, "TEE", body.Data.Data[0].Code)
	assert.Equal(t, "CAP", body.Data.Data[1].Code)
	assert.Equal(t, "MUG", body.Data.Data[2].Code)
}

func TestTaxonEndpointUnknownSlug(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/v1/taxons/does-not-exist/products")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestIndexEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/index/products/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	_, body := doRequest(t, router, http.MethodGet, "/api/v1/search")
	assert.Equal(t, int64(2), body.Data.TotalCount)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/index/products/MUG", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	_, body = doRequest(t, router, http.MethodGet, "/api/v1/search")
	assert.Equal(t, int64(3), body.Data.TotalCount)
}

func TestBulkIndexEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/index/products/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/index/products/2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/index/products", strings.NewReader(`{"codes": ["MUG", "TEE", "GONE"]}`))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	_, body := doRequest(t, router, http.MethodGet, "/api/v1/search")
	assert.Equal(t, int64(3), body.Data.TotalCount)
}

func TestBulkIndexEndpointRejectsEmptyBody(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/index/products", strings.NewReader(`{}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body pageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
}

func TestReindexEndpointAccepts(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/index/reindex", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
