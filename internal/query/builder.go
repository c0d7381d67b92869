// Package query assembles complete search-engine queries from named,
// parameterized fragment templates.
package query

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/filter"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/locale"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
)

// Renderer renders a named query fragment with the given parameters into
// engine-query syntax (JSON-shaped text). The builder treats it as a pure
// function; fragment authoring is external to this package's contract.
type Renderer interface {
	Render(name string, params map[string]any) (string, error)
}

// Sort is one field -> direction pair. Sorting is an ordered list because
// the caller-supplied order must be preserved in the assembled query.
type Sort struct {
	Field string
	Order string
}

// Options are the optional parts of a query. From and Size are independently
// optional. Nil Filters fall back to the ambient per-request filter source;
// an empty non-nil slice means explicitly no filters.
type Options struct {
	From           *int
	Size           *int
	Sorting        []Sort
	WithAggregates bool
	Filters        []filter.Filter
}

// Builder assembles search and taxon-browse queries. Both entry points
// follow identical assembly logic parameterized by their subject.
type Builder struct {
	renderer Renderer
	locales  locale.Resolver
	logger   *slog.Logger
}

// NewBuilder creates a query builder on top of the given fragment renderer.
func NewBuilder(renderer Renderer, locales locale.Resolver, logger *slog.Logger) *Builder {
	return &Builder{renderer: renderer, locales: locales, logger: logger}
}

// BuildSearchQuery assembles the free-text search query for the given term.
func (b *Builder) BuildSearchQuery(ctx context.Context, term string, opts Options) (*document.Query, error) {
	return b.build(ctx, "search", map[string]any{"searchTerm": term}, opts)
}

// BuildTaxonQuery assembles the category-browse query for the given taxon.
func (b *Builder) BuildTaxonQuery(ctx context.Context, taxon *domain.Taxon, opts Options) (*document.Query, error) {
	if taxon == nil {
		return nil, apperrors.InvalidInput("taxon must not be nil")
	}
	return b.build(ctx, "taxon", map[string]any{"taxonCode": taxon.Code}, opts)
}

func (b *Builder) build(ctx context.Context, kind string, subject map[string]any, opts Options) (*document.Query, error) {
	localeCode := b.locales.ActiveLocale(ctx)
	filters := opts.Filters
	if filters == nil {
		filters = filter.FromContext(ctx)
	}

	baseParams := params(subject, map[string]any{
		"localeCode": localeCode,
		"filters":    filters,
	})
	queryClause, err := b.renderFragment(kind+"/query", baseParams)
	if err != nil {
		return nil, err
	}
	assembled := &document.Query{Query: queryClause}

	for _, s := range opts.Sorting {
		sortClause, err := b.renderFragment(kind+"/sort/"+s.Field, params(subject, map[string]any{
			"field":      s.Field,
			"order":      s.Order,
			"localeCode": localeCode,
		}))
		if err != nil {
			return nil, err
		}
		assembled.Sort = append(assembled.Sort, sortClause)
	}

	assembled.From = opts.From
	assembled.Size = opts.Size

	if opts.WithAggregates {
		aggs := map[string]any{}
		aggParams := params(subject, map[string]any{"localeCode": localeCode})
		for _, name := range []string{"attributes", "translated-attributes", "options"} {
			fragment, err := b.renderFragment(kind+"/aggs/"+name, aggParams)
			if err != nil {
				return nil, err
			}
			// Shallow key union; a later fragment wins on collision.
			for key, value := range fragment {
				aggs[key] = value
			}
		}
		assembled.Aggs = aggs
	}

	b.logger.DebugContext(ctx, "assembled query",
		slog.String("kind", kind),
		slog.Any("query", assembled),
	)

	return assembled, nil
}

// renderFragment renders one fragment and decodes it into a structured
// clause. Undecodable fragment output is a fatal assembly error.
func (b *Builder) renderFragment(name string, params map[string]any) (map[string]any, error) {
	raw, err := b.renderer.Render(name, params)
	if err != nil {
		return nil, apperrors.Assembly(name, err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, apperrors.Assembly(name, err)
	}
	return decoded, nil
}

func params(subject, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(subject)+len(extra))
	for k, v := range subject {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
