package provider

import (
	"time"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
)

// The catalog API speaks snake_case JSON; these DTOs translate its payloads
// into the domain aggregates the normalizer consumes.

type channelDTO struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	DefaultLocale string `json:"default_locale"`
}

func (d channelDTO) toDomain() *domain.Channel {
	return &domain.Channel{
		Code:          d.Code,
		Name:          d.Name,
		DefaultLocale: d.DefaultLocale,
	}
}

type translationDTO struct {
	Locale           string `json:"locale"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	Slug             string `json:"slug"`
	Label            string `json:"label"`
	Value            string `json:"value"`
}

type taxonDTO struct {
	ID           any              `json:"id"`
	Code         string           `json:"code"`
	Translations []translationDTO `json:"translations"`
}

func (d taxonDTO) toDomain() *domain.Taxon {
	taxon := &domain.Taxon{ID: d.ID, Code: d.Code}
	for _, tr := range d.Translations {
		taxon.Translations = append(taxon.Translations, domain.TaxonTranslation{
			Locale: tr.Locale,
			Name:   tr.Name,
			Slug:   tr.Slug,
		})
	}
	return taxon
}

type productTaxonDTO struct {
	Taxon    taxonDTO `json:"taxon"`
	Position int      `json:"position"`
}

type channelPricingDTO struct {
	ChannelCode       string                `json:"channel_code"`
	Price             *int64                `json:"price"`
	OriginalPrice     *int64                `json:"original_price"`
	AppliedPromotions []catalogPromotionDTO `json:"applied_promotions"`
}

type catalogPromotionDTO struct {
	ID           any              `json:"id"`
	Code         string           `json:"code"`
	Translations []translationDTO `json:"translations"`
}

type optionDTO struct {
	ID           any              `json:"id"`
	Code         string           `json:"code"`
	Position     int              `json:"position"`
	Filterable   *bool            `json:"filterable"`
	Translations []translationDTO `json:"translations"`
	Values       []optionValueDTO `json:"values"`
}

func (d optionDTO) toDomain() *domain.Option {
	option := &domain.Option{
		ID:       d.ID,
		Code:     d.Code,
		Position: d.Position,
	}
	if d.Filterable != nil {
		option.Filterable = domain.FilterableFlag(*d.Filterable)
	}
	for _, tr := range d.Translations {
		option.Translations = append(option.Translations, domain.OptionTranslation{
			Locale: tr.Locale,
			Name:   tr.Name,
		})
	}
	for _, v := range d.Values {
		value := v.toDomain()
		value.Option = option
		option.Values = append(option.Values, value)
	}
	return option
}

type optionValueDTO struct {
	ID           any              `json:"id"`
	Code         string           `json:"code"`
	Value        string           `json:"value"`
	Translations []translationDTO `json:"translations"`
}

func (d optionValueDTO) toDomain() *domain.OptionValue {
	value := &domain.OptionValue{
		ID:    d.ID,
		Code:  d.Code,
		Value: d.Value,
	}
	for _, tr := range d.Translations {
		value.Translations = append(value.Translations, domain.OptionValueTranslation{
			Locale: tr.Locale,
			Value:  tr.Value,
		})
	}
	return value
}

type attributeDTO struct {
	ID           any              `json:"id"`
	Code         string           `json:"code"`
	Type         string           `json:"type"`
	StorageType  string           `json:"storage_type"`
	Position     int              `json:"position"`
	Translatable bool             `json:"translatable"`
	Filterable   *bool            `json:"filterable"`
	Translations []translationDTO `json:"translations"`
}

func (d attributeDTO) toDomain() *domain.Attribute {
	attribute := &domain.Attribute{
		ID:           d.ID,
		Code:         d.Code,
		Type:         d.Type,
		StorageType:  d.StorageType,
		Position:     d.Position,
		Translatable: d.Translatable,
	}
	if d.Filterable != nil {
		attribute.Filterable = domain.FilterableFlag(*d.Filterable)
	}
	for _, tr := range d.Translations {
		attribute.Translations = append(attribute.Translations, domain.AttributeTranslation{
			Locale: tr.Locale,
			Name:   tr.Name,
		})
	}
	return attribute
}

type attributeValueDTO struct {
	ID         any          `json:"id"`
	Code       string       `json:"code"`
	LocaleCode string       `json:"locale_code"`
	Value      any          `json:"value"`
	Attribute  attributeDTO `json:"attribute"`
}

type variantDTO struct {
	ID               any                 `json:"id"`
	Code             string              `json:"code"`
	Enabled          bool                `json:"enabled"`
	Position         int                 `json:"position"`
	Weight           *float64            `json:"weight"`
	Width            *float64            `json:"width"`
	Height           *float64            `json:"height"`
	Depth            *float64            `json:"depth"`
	ShippingRequired bool                `json:"shipping_required"`
	Translations     []translationDTO    `json:"translations"`
	OptionValues     []variantOptionDTO  `json:"option_values"`
	ChannelPricings  []channelPricingDTO `json:"channel_pricings"`
}

type variantOptionDTO struct {
	Option optionDTO      `json:"option"`
	Value  optionValueDTO `json:"value"`
}

func (d variantDTO) toDomain() *domain.Variant {
	variant := &domain.Variant{
		ID:               d.ID,
		Code:             d.Code,
		Enabled:          d.Enabled,
		Position:         d.Position,
		Weight:           d.Weight,
		Width:            d.Width,
		Height:           d.Height,
		Depth:            d.Depth,
		ShippingRequired: d.ShippingRequired,
	}
	for _, tr := range d.Translations {
		variant.Translations = append(variant.Translations, domain.VariantTranslation{
			Locale: tr.Locale,
			Name:   tr.Name,
		})
	}
	for _, ov := range d.OptionValues {
		option := ov.Option.toDomain()
		value := ov.Value.toDomain()
		value.Option = option
		variant.OptionValues = append(variant.OptionValues, value)
	}
	for _, cp := range d.ChannelPricings {
		pricing := &domain.ChannelPricing{
			ChannelCode:   cp.ChannelCode,
			Price:         cp.Price,
			OriginalPrice: cp.OriginalPrice,
		}
		for _, promo := range cp.AppliedPromotions {
			promotion := &domain.CatalogPromotion{ID: promo.ID, Code: promo.Code}
			for _, tr := range promo.Translations {
				promotion.Translations = append(promotion.Translations, domain.PromotionTranslation{
					Locale:      tr.Locale,
					Label:       tr.Label,
					Description: tr.Description,
				})
			}
			pricing.AppliedPromotions = append(pricing.AppliedPromotions, promotion)
		}
		variant.ChannelPricings = append(variant.ChannelPricings, pricing)
	}
	return variant
}

type imageDTO struct {
	ID           any      `json:"id"`
	Type         *string  `json:"type"`
	Path         string   `json:"path"`
	VariantCodes []string `json:"variant_codes"`
}

type productDTO struct {
	ID                          any                 `json:"id"`
	Code                        string              `json:"code"`
	Enabled                     bool                `json:"enabled"`
	VariantSelectionMethod      string              `json:"variant_selection_method"`
	VariantSelectionMethodLabel string              `json:"variant_selection_method_label"`
	CreatedAt                   *time.Time          `json:"created_at"`
	Translations                []translationDTO    `json:"translations"`
	MainTaxon                   *taxonDTO           `json:"main_taxon"`
	Taxons                      []productTaxonDTO   `json:"taxons"`
	Variants                    []variantDTO        `json:"variants"`
	Attributes                  []attributeValueDTO `json:"attributes"`
	Options                     []optionDTO         `json:"options"`
	Images                      []imageDTO          `json:"images"`
}

func (d productDTO) toDomain() *domain.Product {
	product := &domain.Product{
		ID:                          d.ID,
		Code:                        d.Code,
		Enabled:                     d.Enabled,
		VariantSelectionMethod:      d.VariantSelectionMethod,
		VariantSelectionMethodLabel: d.VariantSelectionMethodLabel,
		CreatedAt:                   d.CreatedAt,
	}
	for _, tr := range d.Translations {
		product.Translations = append(product.Translations, domain.ProductTranslation{
			Locale:           tr.Locale,
			Name:             tr.Name,
			Description:      tr.Description,
			ShortDescription: tr.ShortDescription,
			Slug:             tr.Slug,
		})
	}
	if d.MainTaxon != nil {
		product.MainTaxon = d.MainTaxon.toDomain()
	}
	for _, pt := range d.Taxons {
		product.Taxons = append(product.Taxons, domain.ProductTaxon{
			Taxon:    pt.Taxon.toDomain(),
			Position: pt.Position,
		})
	}
	for _, v := range d.Variants {
		product.Variants = append(product.Variants, v.toDomain())
	}

	// Attribute values of the same attribute must share one definition so
	// the normalizer can group them by identity.
	attributeByCode := make(map[string]*domain.Attribute)
	for _, av := range d.Attributes {
		attribute, ok := attributeByCode[av.Attribute.Code]
		if !ok {
			attribute = av.Attribute.toDomain()
			attributeByCode[av.Attribute.Code] = attribute
		}
		product.Attributes = append(product.Attributes, domain.AttributeValue{
			ID:         av.ID,
			Code:       av.Code,
			LocaleCode: av.LocaleCode,
			Value:      av.Value,
			Attribute:  attribute,
		})
	}

	for _, o := range d.Options {
		product.Options = append(product.Options, o.toDomain())
	}

	variantByCode := make(map[string]*domain.Variant, len(product.Variants))
	for _, v := range product.Variants {
		variantByCode[v.Code] = v
	}
	for _, img := range d.Images {
		image := domain.Image{
			ID:   img.ID,
			Type: img.Type,
			Path: img.Path,
		}
		for _, code := range img.VariantCodes {
			if v, ok := variantByCode[code]; ok {
				image.Variants = append(image.Variants, v)
			}
		}
		product.Images = append(product.Images, image)
	}

	return product
}
