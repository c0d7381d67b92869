// Package parser reconstructs display-ready read models from raw search
// hits, applying locale fallback.
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/locale"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/result"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
)

// ChannelContext supplies the active sales channel for a request.
type ChannelContext interface {
	ActiveChannel(ctx context.Context) (*domain.Channel, error)
}

// DocumentParser turns raw hits into read models. It performs no I/O beyond
// locale and channel context reads.
type DocumentParser struct {
	locales        locale.Resolver
	channels       ChannelContext
	fallbackLocale string
}

// NewDocumentParser creates a parser. fallbackLocale is the process-wide
// fallback used when the active channel has no default locale.
func NewDocumentParser(locales locale.Resolver, channels ChannelContext, fallbackLocale string) *DocumentParser {
	return &DocumentParser{
		locales:        locales,
		channels:       channels,
		fallbackLocale: fallbackLocale,
	}
}

// Parse reconstructs the product read model from one raw hit. The hit's
// _source must carry the index document shape.
func (p *DocumentParser) Parse(ctx context.Context, hit *document.Hit) (*result.Product, error) {
	channel, err := p.channels.ActiveChannel(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve active channel: %w", err)
	}
	fallback := p.fallbackLocale
	if channel.DefaultLocale != "" {
		fallback = channel.DefaultLocale
	}
	localeCode := p.locales.ActiveLocale(ctx)

	var source document.Product
	if err := json.Unmarshal(hit.Source, &source); err != nil {
		return nil, apperrors.Integrity(fmt.Sprintf("document %q does not carry a product source: %v", hit.ID, err))
	}

	// Slug is mandatory and deliberately never falls back: only the active
	// locale is consulted.
	slug, ok := source.Slug.Exact(localeCode)
	if !ok {
		return nil, apperrors.Integrity(fmt.Sprintf("slug not found for locale %q", localeCode))
	}

	product := &result.Product{
		Code:             source.Code,
		CurrentLocale:    localeCode,
		Name:             localizedValue(source.Name, localeCode, fallback),
		Slug:             slug,
		Description:      localizedValue(source.Description, localeCode, fallback),
		ShortDescription: localizedValue(source.ShortDescription, localeCode, fallback),
		Images:           make([]result.Image, 0, len(source.Images)),
		Variants:         make([]result.Variant, 0, len(source.Variants)),
		Options:          make([]result.Option, 0, len(source.ProductOptions)),
	}

	for _, image := range source.Images {
		product.Images = append(product.Images, result.Image{Path: image.Path, Type: image.Type})
	}

	// Sorting here avoids any database round trip to recover variant order:
	// after the sort the first variant is the authoritative default.
	sortedVariants := make([]document.Variant, len(source.Variants))
	copy(sortedVariants, source.Variants)
	sort.SliceStable(sortedVariants, func(i, j int) bool {
		return sortedVariants[i].Position < sortedVariants[j].Position
	})
	for _, variant := range sortedVariants {
		product.Variants = append(product.Variants, p.parseVariant(variant, channel, localeCode, fallback))
	}

	for _, option := range source.ProductOptions {
		parsed := result.Option{
			Code:          option.Code,
			Position:      option.Position,
			CurrentLocale: localeCode,
			Name:          localizedValue(option.Name, localeCode, fallback),
			Values:        make([]result.OptionValue, 0, len(option.Values)),
		}
		for _, value := range option.Values {
			parsed.Values = append(parsed.Values, result.OptionValue{
				Code:           value.Code,
				Value:          value.Value,
				CurrentLocale:  localeCode,
				FallbackLocale: p.fallbackLocale,
				Name:           value.Name,
			})
		}
		product.Options = append(product.Options, parsed)
	}

	return product, nil
}

func (p *DocumentParser) parseVariant(variant document.Variant, channel *domain.Channel, localeCode, fallback string) result.Variant {
	parsed := result.Variant{
		Code:     variant.Code,
		Enabled:  variant.Enabled,
		Position: variant.Position,
		Pricing: result.ChannelPricing{
			ChannelCode:       channel.Code,
			AppliedPromotions: []result.Promotion{},
		},
	}
	if variant.Price != nil {
		parsed.Pricing.Price = variant.Price.Price
		parsed.Pricing.OriginalPrice = variant.Price.OriginalPrice
		for _, promotion := range variant.Price.AppliedPromotions {
			parsed.Pricing.AppliedPromotions = append(parsed.Pricing.AppliedPromotions, result.Promotion{
				CurrentLocale: localeCode,
				Label:         localizedValue(promotion.Label, localeCode, fallback),
			})
		}
	}
	return parsed
}

// localizedValue resolves a locale-keyed field: the first exact active-locale
// entry wins immediately; otherwise the last fallback-locale entry seen is
// returned; otherwise the field is absent.
func localizedValue(field document.LocalizedField, localeCode, fallback string) *string {
	var fallbackValue *string
	for _, entry := range field {
		if v, ok := entry[localeCode]; ok {
			return &v
		}
		if v, ok := entry[fallback]; ok {
			fallbackValue = &v
		}
	}
	return fallbackValue
}
