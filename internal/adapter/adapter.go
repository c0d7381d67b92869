// Package adapter provides the paginated query adapter: a lazily executed,
// single-shot view over one assembled query, caching totals, parsed page
// results and facets from a single backend round trip.
package adapter

import (
	"context"
	"sync"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/client"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/filter"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/parser"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/query"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/result"
)

// QueryAdapter executes its query at most once. The first accessor call
// triggers execution; every later call serves the cached outcome. A failed
// execution leaves the adapter unexecuted, so a later call may retry.
type QueryAdapter struct {
	client  client.SearchClient
	parser  *parser.DocumentParser
	indexes []string
	build   func(ctx context.Context) (*document.Query, error)
	filters []filter.Filter

	mu       sync.Mutex
	executed bool
	total    int64
	results  []*result.Product
	facets   result.FacetSet
}

// NewSearchQueryAdapter creates an adapter over the free-text search query
// for the given term.
func NewSearchQueryAdapter(c client.SearchClient, p *parser.DocumentParser, b *query.Builder, indexes []string, term string, opts query.Options) *QueryAdapter {
	// Aggregates are always requested so facets come from the same round
	// trip as the page results.
	opts.WithAggregates = true
	return &QueryAdapter{
		client:  c,
		parser:  p,
		indexes: indexes,
		filters: opts.Filters,
		build: func(ctx context.Context) (*document.Query, error) {
			return b.BuildSearchQuery(ctx, term, opts)
		},
	}
}

// NewTaxonQueryAdapter creates an adapter over the category-browse query
// for the given taxon.
func NewTaxonQueryAdapter(c client.SearchClient, p *parser.DocumentParser, b *query.Builder, indexes []string, taxon *domain.Taxon, opts query.Options) *QueryAdapter {
	opts.WithAggregates = true
	return &QueryAdapter{
		client:  c,
		parser:  p,
		indexes: indexes,
		filters: opts.Filters,
		build: func(ctx context.Context) (*document.Query, error) {
			return b.BuildTaxonQuery(ctx, taxon, opts)
		},
	}
}

// TotalCount returns the total number of matching documents, not just the
// requested page.
func (a *QueryAdapter) TotalCount(ctx context.Context) (int64, error) {
	if err := a.execute(ctx); err != nil {
		return 0, err
	}
	return a.total, nil
}

// PageResults returns the parsed read models of the requested page.
func (a *QueryAdapter) PageResults(ctx context.Context) ([]*result.Product, error) {
	if err := a.execute(ctx); err != nil {
		return nil, err
	}
	return a.results, nil
}

// Facets returns the facet summary extracted from the aggregation buckets.
func (a *QueryAdapter) Facets(ctx context.Context) (result.FacetSet, error) {
	if err := a.execute(ctx); err != nil {
		return nil, err
	}
	return a.facets, nil
}

func (a *QueryAdapter) execute(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.executed {
		return nil
	}

	assembled, err := a.build(ctx)
	if err != nil {
		return err
	}

	resp, err := a.client.Search(ctx, a.indexes, assembled)
	if err != nil {
		return err
	}

	results := make([]*result.Product, 0, len(resp.Hits))
	for i := range resp.Hits {
		parsed, err := a.parser.Parse(ctx, &resp.Hits[i])
		if err != nil {
			return err
		}
		results = append(results, parsed)
	}

	selected := a.filters
	if selected == nil {
		selected = filter.FromContext(ctx)
	}

	// Cache only after the whole pipeline succeeded; partial outcomes are
	// never served.
	a.total = resp.Total
	a.results = results
	a.facets = ExtractFacets(resp.Aggregations, selected)
	a.executed = true
	return nil
}
