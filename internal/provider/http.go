package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/httpclient"
)

// catalogPageSize is the page size used when walking paginated catalog
// listings.
const catalogPageSize = 100

// CatalogClient is the outbound HTTP surface the catalog provider needs.
// Both the plain retrying client and the circuit-breaker wrapper satisfy it.
type CatalogClient interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// HTTPCatalogProvider fetches channels, products and taxons from the store's
// catalog API.
type HTTPCatalogProvider struct {
	baseURL string
	client  CatalogClient
	logger  *slog.Logger
}

// NewHTTPCatalogProvider creates a provider against the given base URL,
// e.g. "http://catalog:8080".
func NewHTTPCatalogProvider(baseURL string, client CatalogClient, logger *slog.Logger) *HTTPCatalogProvider {
	return &HTTPCatalogProvider{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// Channels implements ChannelProvider.
func (p *HTTPCatalogProvider) Channels(ctx context.Context) ([]*domain.Channel, error) {
	var dtos []channelDTO
	if err := p.getJSON(ctx, "/api/v1/channels", &dtos); err != nil {
		return nil, fmt.Errorf("fetch channels: %w", err)
	}

	channels := make([]*domain.Channel, 0, len(dtos))
	for _, dto := range dtos {
		channels = append(channels, dto.toDomain())
	}
	return channels, nil
}

// ChannelByCode implements ChannelProvider.
func (p *HTTPCatalogProvider) ChannelByCode(ctx context.Context, code string) (*domain.Channel, error) {
	var dto channelDTO
	if err := p.getJSON(ctx, "/api/v1/channels/"+url.PathEscape(code), &dto); err != nil {
		return nil, fmt.Errorf("fetch channel %q: %w", code, err)
	}
	return dto.toDomain(), nil
}

// Product implements ProductProvider.
func (p *HTTPCatalogProvider) Product(ctx context.Context, channel *domain.Channel, code string) (*domain.Product, error) {
	path := fmt.Sprintf("/api/v1/products/%s?channel=%s", url.PathEscape(code), url.QueryEscape(channel.Code))
	var dto productDTO
	if err := p.getJSON(ctx, path, &dto); err != nil {
		return nil, fmt.Errorf("fetch product %q: %w", code, err)
	}
	return dto.toDomain(), nil
}

// AllProducts implements ProductProvider by walking the paginated product
// listing until a short page is returned.
func (p *HTTPCatalogProvider) AllProducts(ctx context.Context, channel *domain.Channel) ([]*domain.Product, error) {
	var products []*domain.Product
	for page := 1; ; page++ {
		path := fmt.Sprintf("/api/v1/products?channel=%s&page=%d&limit=%d",
			url.QueryEscape(channel.Code), page, catalogPageSize)

		var dtos []productDTO
		if err := p.getJSON(ctx, path, &dtos); err != nil {
			return nil, fmt.Errorf("fetch products page %d: %w", page, err)
		}
		for _, dto := range dtos {
			products = append(products, dto.toDomain())
		}

		p.logger.DebugContext(ctx, "fetched catalog page",
			slog.String("channel", channel.Code),
			slog.Int("page", page),
			slog.Int("count", len(dtos)),
		)

		if len(dtos) < catalogPageSize {
			return products, nil
		}
	}
}

// TaxonBySlug implements TaxonProvider.
func (p *HTTPCatalogProvider) TaxonBySlug(ctx context.Context, slug, localeCode string) (*domain.Taxon, error) {
	path := fmt.Sprintf("/api/v1/taxons/by-slug/%s?locale=%s", url.PathEscape(slug), url.QueryEscape(localeCode))
	var dto taxonDTO
	if err := p.getJSON(ctx, path, &dto); err != nil {
		return nil, fmt.Errorf("fetch taxon %q: %w", slug, err)
	}
	return dto.toDomain(), nil
}

func (p *HTTPCatalogProvider) getJSON(ctx context.Context, path string, out any) error {
	resp, err := p.client.Get(ctx, p.baseURL+path)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "catalog")
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
