package parser

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/locale"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
)

type staticChannel struct {
	channel *domain.Channel
}

func (s staticChannel) ActiveChannel(context.Context) (*domain.Channel, error) {
	return s.channel, nil
}

func newParser(defaultLocale string) *DocumentParser {
	channel := &domain.Channel{Code: "WEB", DefaultLocale: defaultLocale}
	return NewDocumentParser(locale.ContextResolver{Default: "en_US"}, staticChannel{channel}, "en_US")
}

func hitFor(t *testing.T, source *document.Product) *document.Hit {
	t.Helper()
	raw, err := json.Marshal(source)
	require.NoError(t, err)
	return &document.Hit{ID: "1", Source: raw}
}

func sourceProduct() *document.Product {
	return &document.Product{
		ID:      1,
		Code:    "MUG",
		Enabled: true,
		Name: document.LocalizedField{}.
			Add("en_US", "Coffee mug").
			Add("it_IT", "Tazza"),
		Description: document.LocalizedField{}.Add("en_US", "A mug"),
		Slug: document.LocalizedField{}.
			Add("en_US", "coffee-mug").
			Add("it_IT", "tazza"),
	}
}

func TestParseUsesActiveLocale(t *testing.T) {
	p := newParser("en_US")
	ctx := locale.WithLocale(context.Background(), "it_IT")

	product, err := p.Parse(ctx, hitFor(t, sourceProduct()))
	require.NoError(t, err)

	assert.Equal(t, "it_IT", product.CurrentLocale)
	require.NotNil(t, product.Name)
	assert.Equal(t, "Tazza", *product.Name)
	assert.Equal(t, "tazza", product.Slug)
}

func TestParseFallsBackToChannelLocale(t *testing.T) {
	p := newParser("it_IT")
	ctx := locale.WithLocale(context.Background(), "fr_FR")

	source := sourceProduct()
	source.Slug = document.LocalizedField{}.Add("fr_FR", "tasse")

	product, err := p.Parse(ctx, hitFor(t, source))
	require.NoError(t, err)

	// No fr_FR name exists; the channel default locale serves as fallback.
	require.NotNil(t, product.Name)
	assert.Equal(t, "Tazza", *product.Name)
	// en_US-only description has no fr_FR or it_IT entry at all.
	assert.Nil(t, product.Description)
}

func TestParseLastFallbackEntryWins(t *testing.T) {
	p := newParser("en_US")
	ctx := locale.WithLocale(context.Background(), "fr_FR")

	source := sourceProduct()
	source.Name = document.LocalizedField{}.
		Add("en_US", "First").
		Add("en_US", "Second")
	source.Slug = document.LocalizedField{}.Add("fr_FR", "tasse")

	product, err := p.Parse(ctx, hitFor(t, source))
	require.NoError(t, err)

	require.NotNil(t, product.Name)
	assert.Equal(t, "Second", *product.Name)
}

func TestParseFirstExactEntryWins(t *testing.T) {
	p := newParser("en_US")
	ctx := locale.WithLocale(context.Background(), "en_US")

	source := sourceProduct()
	source.Name = document.LocalizedField{}.
		Add("en_US", "First").
		Add("en_US", "Second")

	product, err := p.Parse(ctx, hitFor(t, source))
	require.NoError(t, err)

	require.NotNil(t, product.Name)
	assert.Equal(t, "First", *product.Name)
}

func TestParseSlugNeverFallsBack(t *testing.T) {
	p := newParser("en_US")
	ctx := locale.WithLocale(context.Background(), "fr_FR")

	_, err := p.Parse(ctx, hitFor(t, sourceProduct()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIntegrity))
	assert.Contains(t, err.Error(), "slug")
}

func TestParseSortsVariantsByPosition(t *testing.T) {
	p := newParser("en_US")
	ctx := locale.WithLocale(context.Background(), "en_US")

	source := sourceProduct()
	source.Variants = []document.Variant{
		{Code: "MUG-L", Position: 2},
		{Code: "MUG-S", Position: 0},
		{Code: "MUG-M", Position: 1},
	}

	product, err := p.Parse(ctx, hitFor(t, source))
	require.NoError(t, err)

	require.Len(t, product.Variants, 3)
	assert.Equal(t, "MUG-S", product.Variants[0].Code)
	assert.Equal(t, "MUG-M", product.Variants[1].Code)
	assert.Equal(t, "MUG-L", product.Variants[2].Code)
}

func TestParsePromotionLabels(t *testing.T) {
	p := newParser("en_US")
	ctx := locale.WithLocale(context.Background(), "it_IT")

	priceValue := int64(450)
	original := int64(500)
	source := sourceProduct()
	source.Variants = []document.Variant{
		{
			Code: "MUG-S",
			Price: &document.Price{
				Price:         &priceValue,
				OriginalPrice: &original,
				AppliedPromotions: []document.Promotion{
					{
						Code: "spring",
						Label: document.LocalizedField{}.
							Add("en_US", "Spring sale").
							Add("it_IT", "Saldi di primavera"),
					},
				},
			},
		},
	}

	product, err := p.Parse(ctx, hitFor(t, source))
	require.NoError(t, err)

	require.Len(t, product.Variants, 1)
	pricing := product.Variants[0].Pricing
	assert.Equal(t, "WEB", pricing.ChannelCode)
	assert.Equal(t, int64(450), *pricing.Price)
	assert.Equal(t, int64(500), *pricing.OriginalPrice)
	require.Len(t, pricing.AppliedPromotions, 1)
	require.NotNil(t, pricing.AppliedPromotions[0].Label)
	assert.Equal(t, "Saldi di primavera", *pricing.AppliedPromotions[0].Label)
}

func TestParseProductOptions(t *testing.T) {
	p := newParser("en_US")
	ctx := locale.WithLocale(context.Background(), "en_US")

	source := sourceProduct()
	source.ProductOptions = []document.Option{
		{
			Code:     "size",
			Position: 1,
			Name:     document.LocalizedField{}.Add("en_US", "Size"),
			Values: []document.OptionValue{
				{Code: "small", Value: "Small", Name: document.LocalizedField{}.Add("en_US", "Small")},
			},
		},
	}

	product, err := p.Parse(ctx, hitFor(t, source))
	require.NoError(t, err)

	require.Len(t, product.Options, 1)
	option := product.Options[0]
	assert.Equal(t, "size", option.Code)
	require.NotNil(t, option.Name)
	assert.Equal(t, "Size", *option.Name)
	require.Len(t, option.Values, 1)
	assert.Equal(t, "small", option.Values[0].Code)
	assert.Equal(t, "en_US", option.Values[0].FallbackLocale)
}

func TestParseRejectsMalformedSource(t *testing.T) {
	p := newParser("en_US")
	ctx := locale.WithLocale(context.Background(), "en_US")

	_, err := p.Parse(ctx, &document.Hit{ID: "7", Source: json.RawMessage(`"not an object"`)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIntegrity))
}
