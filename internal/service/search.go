package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/adapter"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/filter"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/query"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/result"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/pagination"
)

// Search executes a free-text product search on the active channel.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*ProductPage, error) {
	channel, err := s.channelCtx.ActiveChannel(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: resolve channel: %w", err)
	}

	opts := s.queryOptions(req.Pagination, req.Sorting, req.Filters)
	indexes := []string{s.names.AliasName(channel, document.ProductType)}
	a := adapter.NewSearchQueryAdapter(s.client, s.parser, s.builder, indexes, req.Term, opts)

	page, err := s.collect(ctx, a, req.Pagination)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.logger.DebugContext(ctx, "search executed",
		slog.String("term", req.Term),
		slog.String("channel", channel.Code),
		slog.Int64("total", page.TotalCount),
	)
	return page, nil
}

// Browse lists the products of the taxon addressed by slug in the active
// locale. An unknown slug yields a not-found error.
func (s *SearchService) Browse(ctx context.Context, req BrowseRequest) (*ProductPage, error) {
	channel, err := s.channelCtx.ActiveChannel(ctx)
	if err != nil {
		return nil, fmt.Errorf("browse: resolve channel: %w", err)
	}

	localeCode := s.locales.ActiveLocale(ctx)
	taxon, err := s.taxons.TaxonBySlug(ctx, req.TaxonSlug, localeCode)
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}

	sorting := req.Sorting
	if len(sorting) == 0 {
		// Taxon pages default to the merchandiser-curated product order.
		sorting = []query.Sort{{Field: "position", Order: "asc"}}
	}

	opts := s.queryOptions(req.Pagination, sorting, req.Filters)
	indexes := []string{s.names.AliasName(channel, document.ProductType)}
	a := adapter.NewTaxonQueryAdapter(s.client, s.parser, s.builder, indexes, taxon, opts)

	page, err := s.collect(ctx, a, req.Pagination)
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}

	s.logger.DebugContext(ctx, "taxon browsed",
		slog.String("taxon", taxon.Code),
		slog.String("channel", channel.Code),
		slog.Int64("total", page.TotalCount),
	)
	return page, nil
}

func (s *SearchService) queryOptions(p pagination.Params, sorting []query.Sort, filters []filter.Filter) query.Options {
	from := p.Offset
	size := p.PerPage
	return query.Options{
		From:    &from,
		Size:    &size,
		Sorting: sorting,
		Filters: filters,
	}
}

func (s *SearchService) collect(ctx context.Context, a *adapter.QueryAdapter, p pagination.Params) (*ProductPage, error) {
	total, err := a.TotalCount(ctx)
	if err != nil {
		return nil, err
	}
	products, err := a.PageResults(ctx)
	if err != nil {
		return nil, err
	}
	facets, err := a.Facets(ctx)
	if err != nil {
		return nil, err
	}

	if facets == nil {
		facets = result.FacetSet{}
	}
	return &ProductPage{
		Result: pagination.NewResult(products, total, p),
		Facets: facets,
	}, nil
}
