// Package service implements the business operations of the catalog search
// module: searching, category browsing, and keeping the index in sync with
// the catalog.
package service

import (
	"context"
	"log/slog"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/client"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/filter"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/generator"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/locale"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/normalizer"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/parser"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/provider"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/query"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/result"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/pagination"
)

// ChannelContext resolves the request's active sales channel.
type ChannelContext interface {
	ActiveChannel(ctx context.Context) (*domain.Channel, error)
}

// SearchService ties the indexing and querying pipeline together.
type SearchService struct {
	client     client.SearchClient
	builder    *query.Builder
	parser     *parser.DocumentParser
	normalizer *normalizer.ProductNormalizer
	names      *generator.IndexNameGenerator
	channels   provider.ChannelProvider
	channelCtx ChannelContext
	products   provider.ProductProvider
	taxons     provider.TaxonProvider
	locales    locale.Resolver
	logger     *slog.Logger
}

// Deps bundles the collaborators of the search service.
type Deps struct {
	Client     client.SearchClient
	Builder    *query.Builder
	Parser     *parser.DocumentParser
	Normalizer *normalizer.ProductNormalizer
	Names      *generator.IndexNameGenerator
	Channels   provider.ChannelProvider
	ChannelCtx ChannelContext
	Products   provider.ProductProvider
	Taxons     provider.TaxonProvider
	Locales    locale.Resolver
	Logger     *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(deps Deps) *SearchService {
	return &SearchService{
		client:     deps.Client,
		builder:    deps.Builder,
		parser:     deps.Parser,
		normalizer: deps.Normalizer,
		names:      deps.Names,
		channels:   deps.Channels,
		channelCtx: deps.ChannelCtx,
		products:   deps.Products,
		taxons:     deps.Taxons,
		locales:    deps.Locales,
		logger:     deps.Logger,
	}
}

// SearchRequest is a free-text search request.
type SearchRequest struct {
	Term       string
	Pagination pagination.Params
	Sorting    []query.Sort
	// Filters nil means the ambient per-request filters apply; an empty
	// non-nil slice suppresses them.
	Filters []filter.Filter
}

// BrowseRequest is a category-browse request addressed by taxon slug.
type BrowseRequest struct {
	TaxonSlug  string
	Pagination pagination.Params
	Sorting    []query.Sort
	Filters    []filter.Filter
}

// ProductPage is one page of search or browse results with its facet summary.
type ProductPage struct {
	pagination.Result[*result.Product]
	Facets result.FacetSet `json:"facets"`
}
