package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/filter"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/locale"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
)

type renderCall struct {
	name   string
	params map[string]any
}

// fakeRenderer replays canned fragment output and records every call.
type fakeRenderer struct {
	responses map[string]string
	err       error
	calls     []renderCall
}

func (f *fakeRenderer) Render(name string, params map[string]any) (string, error) {
	f.calls = append(f.calls, renderCall{name: name, params: params})
	if f.err != nil {
		return "", f.err
	}
	if response, ok := f.responses[name]; ok {
		return response, nil
	}
	return `{"match_all": {}}`, nil
}

func newBuilder(renderer Renderer) *Builder {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBuilder(renderer, locale.ContextResolver{Default: "en_US"}, logger)
}

func TestBuildSearchQuery(t *testing.T) {
	renderer := &fakeRenderer{}
	b := newBuilder(renderer)

	from, size := 20, 10
	q, err := b.BuildSearchQuery(context.Background(), "mug", Options{
		From: &from,
		Size: &size,
		Sorting: []Sort{
			{Field: "price", Order: "asc"},
			{Field: "name", Order: "desc"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"match_all": map[string]any{}}, q.Query)
	require.Len(t, q.Sort, 2)
	require.NotNil(t, q.From)
	assert.Equal(t, 20, *q.From)
	require.NotNil(t, q.Size)
	assert.Equal(t, 10, *q.Size)
	assert.Nil(t, q.Aggs)

	require.Len(t, renderer.calls, 3)
	assert.Equal(t, "search/query", renderer.calls[0].name)
	assert.Equal(t, "mug", renderer.calls[0].params["searchTerm"])
	assert.Equal(t, "en_US", renderer.calls[0].params["localeCode"])
	assert.Equal(t, "search/sort/price", renderer.calls[1].name)
	assert.Equal(t, "asc", renderer.calls[1].params["order"])
	assert.Equal(t, "search/sort/name", renderer.calls[2].name)
	assert.Equal(t, "desc", renderer.calls[2].params["order"])
}

func TestBuildSearchQueryUsesContextLocale(t *testing.T) {
	renderer := &fakeRenderer{}
	b := newBuilder(renderer)

	ctx := locale.WithLocale(context.Background(), "it_IT")
	_, err := b.BuildSearchQuery(ctx, "", Options{})
	require.NoError(t, err)

	require.Len(t, renderer.calls, 1)
	assert.Equal(t, "it_IT", renderer.calls[0].params["localeCode"])
}

func TestBuildAggregatesAreUnioned(t *testing.T) {
	renderer := &fakeRenderer{
		responses: map[string]string{
			"search/aggs/attributes":            `{"attributes": {"first": true}}`,
			"search/aggs/translated-attributes": `{"translated-attributes": {}}`,
			"search/aggs/options":               `{"attributes": {"second": true}, "options": {}}`,
		},
	}
	b := newBuilder(renderer)

	q, err := b.BuildSearchQuery(context.Background(), "", Options{WithAggregates: true})
	require.NoError(t, err)

	require.NotNil(t, q.Aggs)
	assert.Contains(t, q.Aggs, "translated-attributes")
	assert.Contains(t, q.Aggs, "options")
	// The options fragment rendered last, so its "attributes" key wins.
	assert.Equal(t, map[string]any{"second": true}, q.Aggs["attributes"])

	var names []string
	for _, call := range renderer.calls {
		names = append(names, call.name)
	}
	assert.Equal(t, []string{
		"search/query",
		"search/aggs/attributes",
		"search/aggs/translated-attributes",
		"search/aggs/options",
	}, names)
}

func TestBuildAmbientFilters(t *testing.T) {
	renderer := &fakeRenderer{}
	b := newBuilder(renderer)

	ambient := []filter.Filter{{Name: "color", Values: []string{"red"}}}
	ctx := filter.WithFilters(context.Background(), ambient)

	_, err := b.BuildSearchQuery(ctx, "", Options{})
	require.NoError(t, err)
	assert.Equal(t, ambient, renderer.calls[0].params["filters"])

	// An explicit empty non-nil slice suppresses the ambient filters.
	renderer.calls = nil
	_, err = b.BuildSearchQuery(ctx, "", Options{Filters: []filter.Filter{}})
	require.NoError(t, err)
	assert.Empty(t, renderer.calls[0].params["filters"])
}

func TestBuildTaxonQuery(t *testing.T) {
	renderer := &fakeRenderer{}
	b := newBuilder(renderer)

	taxon := &domain.Taxon{Code: "mugs"}
	_, err := b.BuildTaxonQuery(context.Background(), taxon, Options{
		Sorting: []Sort{{Field: "position", Order: "asc"}},
	})
	require.NoError(t, err)

	require.Len(t, renderer.calls, 2)
	assert.Equal(t, "taxon/query", renderer.calls[0].name)
	assert.Equal(t, "mugs", renderer.calls[0].params["taxonCode"])
	assert.Equal(t, "taxon/sort/position", renderer.calls[1].name)
	assert.Equal(t, "mugs", renderer.calls[1].params["taxonCode"])
}

func TestBuildTaxonQueryRejectsNilTaxon(t *testing.T) {
	b := newBuilder(&fakeRenderer{})

	_, err := b.BuildTaxonQuery(context.Background(), nil, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestBuildRendererFailure(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("boom")}
	b := newBuilder(renderer)

	_, err := b.BuildSearchQuery(context.Background(), "", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAssembly))
}

func TestBuildMalformedFragment(t *testing.T) {
	renderer := &fakeRenderer{
		responses: map[string]string{"search/query": `{"unterminated":`},
	}
	b := newBuilder(renderer)

	_, err := b.BuildSearchQuery(context.Background(), "", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAssembly))
}
