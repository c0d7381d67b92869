// Package normalizer flattens a product aggregate into the denormalized,
// locale-aware document written to the search index.
package normalizer

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
)

// VariantResolver picks the default variant for a product. The resolved
// variant is normalized into the document's default-variant field.
type VariantResolver interface {
	Resolve(product *domain.Product) *domain.Variant
}

// PositionVariantResolver resolves the enabled variant with the lowest
// position, falling back to the overall lowest-position variant.
type PositionVariantResolver struct{}

// Resolve implements VariantResolver.
func (PositionVariantResolver) Resolve(product *domain.Product) *domain.Variant {
	sorted := sortVariantsByPosition(product.Variants)
	for _, v := range sorted {
		if v.Enabled {
			return v
		}
	}
	if len(sorted) > 0 {
		return sorted[0]
	}
	return nil
}

// ProductNormalizer builds index documents from product aggregates. It
// performs no I/O; the returned document is fully self-contained.
type ProductNormalizer struct {
	variantResolver VariantResolver
}

// NewProductNormalizer creates a normalizer using the given default-variant
// resolution strategy.
func NewProductNormalizer(resolver VariantResolver) *ProductNormalizer {
	return &ProductNormalizer{variantResolver: resolver}
}

// Normalize flattens the product aggregate for the given channel. Only the
// given channel's pricing is carried into the document.
func (n *ProductNormalizer) Normalize(product *domain.Product, channel *domain.Channel) (*document.Product, error) {
	if product == nil {
		return nil, apperrors.InvalidInput("product must not be nil")
	}
	if channel == nil || channel.Code == "" {
		return nil, apperrors.InvalidInput("channel must be a valid channel")
	}

	doc := &document.Product{
		ID:                          product.ID,
		Code:                        product.Code,
		Enabled:                     product.Enabled,
		VariantSelectionMethod:      product.VariantSelectionMethod,
		VariantSelectionMethodLabel: product.VariantSelectionMethodLabel,
		Name:                        document.LocalizedField{},
		Description:                 document.LocalizedField{},
		ShortDescription:            document.LocalizedField{},
		Slug:                        document.LocalizedField{},
		Taxons:                      []document.Taxon{},
		Variants:                    []document.Variant{},
		Attributes:                  []document.Attribute{},
		TranslatedAttributes:        []document.Attribute{},
		ProductOptions:              []document.Option{},
		Images:                      []document.Image{},
	}
	if product.CreatedAt != nil {
		doc.CreatedAt = product.CreatedAt.Format(time.RFC3339)
	}

	// Translations are emitted in iteration order, without deduplication.
	for _, tr := range product.Translations {
		doc.Name = doc.Name.Add(tr.Locale, tr.Name)
		doc.Description = doc.Description.Add(tr.Locale, tr.Description)
		doc.ShortDescription = doc.ShortDescription.Add(tr.Locale, tr.ShortDescription)
		doc.Slug = doc.Slug.Add(tr.Locale, tr.Slug)
	}

	if defaultVariant := n.variantResolver.Resolve(product); defaultVariant != nil {
		normalized, err := n.normalizeVariant(defaultVariant, channel)
		if err != nil {
			return nil, err
		}
		doc.DefaultVariant = &normalized
	}

	if product.MainTaxon != nil {
		mainTaxon := normalizeTaxon(product.MainTaxon, nil)
		doc.MainTaxon = &mainTaxon
	}
	for _, pt := range product.Taxons {
		position := pt.Position
		doc.Taxons = append(doc.Taxons, normalizeTaxon(pt.Taxon, &position))
	}

	for _, variant := range product.Variants {
		normalized, err := n.normalizeVariant(variant, channel)
		if err != nil {
			return nil, err
		}
		doc.Variants = append(doc.Variants, normalized)
	}

	attributes, translatedAttributes, err := partitionAttributes(product.Attributes)
	if err != nil {
		return nil, err
	}
	doc.TranslatedAttributes = translatedAttributes
	doc.Attributes = attributes

	for _, option := range product.Options {
		doc.ProductOptions = append(doc.ProductOptions, normalizeOption(option))
	}

	for _, image := range product.Images {
		doc.Images = append(doc.Images, normalizeImage(image))
	}

	return doc, nil
}

func (n *ProductNormalizer) normalizeVariant(variant *domain.Variant, channel *domain.Channel) (document.Variant, error) {
	doc := document.Variant{
		ID:               variant.ID,
		Code:             variant.Code,
		Enabled:          variant.Enabled,
		Position:         variant.Position,
		Weight:           variant.Weight,
		Width:            variant.Width,
		Height:           variant.Height,
		Depth:            variant.Depth,
		ShippingRequired: variant.ShippingRequired,
		Name:             document.LocalizedField{},
		Price:            normalizeChannelPricing(variant.ChannelPricingFor(channel.Code)),
		Options:          []document.VariantOption{},
	}

	// A variant may carry at most one value per distinct option; a second
	// value for the same option is a source-data contract violation.
	seen := make(map[string]struct{}, len(variant.OptionValues))
	for _, optionValue := range variant.OptionValues {
		option := optionValue.Option
		key, err := identityKey(option.ID)
		if err != nil {
			return document.Variant{}, apperrors.Integrity(
				fmt.Sprintf("option %q: %s", option.Code, err),
			)
		}
		if _, dup := seen[key]; dup {
			return document.Variant{}, apperrors.Integrity(
				fmt.Sprintf("variant %q carries multiple values for option %q", variant.Code, option.Code),
			)
		}
		seen[key] = struct{}{}
		doc.Options = append(doc.Options, normalizeVariantOption(option, optionValue))
	}

	for _, tr := range variant.Translations {
		doc.Name = doc.Name.Add(tr.Locale, tr.Name)
	}

	return doc, nil
}

// partitionAttributes splits attribute values into non-translatable and
// translatable buckets keyed by attribute identity, in first-seen order.
func partitionAttributes(values []domain.AttributeValue) ([]document.Attribute, []document.Attribute, error) {
	type bucket struct {
		attribute *domain.Attribute
		values    []domain.AttributeValue
	}
	var (
		plainOrder, translatedOrder []string
		plain                       = make(map[string]*bucket)
		translated                  = make(map[string]*bucket)
	)

	for _, value := range values {
		attribute := value.Attribute
		key, err := identityKey(attribute.ID)
		if err != nil {
			return nil, nil, apperrors.Integrity(
				fmt.Sprintf("attribute %q: %s", attribute.Code, err),
			)
		}

		buckets, order := plain, &plainOrder
		if attribute.Translatable {
			buckets, order = translated, &translatedOrder
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{attribute: attribute}
			buckets[key] = b
			*order = append(*order, key)
		}
		b.values = append(b.values, value)
	}

	plainDocs := make([]document.Attribute, 0, len(plainOrder))
	for _, key := range plainOrder {
		b := plain[key]
		plainDocs = append(plainDocs, normalizeAttribute(b.attribute, b.values))
	}
	translatedDocs := make([]document.Attribute, 0, len(translatedOrder))
	for _, key := range translatedOrder {
		b := translated[key]
		translatedDocs = append(translatedDocs, normalizeAttribute(b.attribute, b.values))
	}
	return plainDocs, translatedDocs, nil
}

func normalizeAttribute(attribute *domain.Attribute, values []domain.AttributeValue) document.Attribute {
	doc := document.Attribute{
		ID:           attribute.ID,
		Code:         attribute.Code,
		Type:         attribute.Type,
		StorageType:  attribute.StorageType,
		Position:     attribute.Position,
		Translatable: attribute.Translatable,
		Filterable:   attribute.IsFilterable(),
		Name:         document.LocalizedField{},
	}
	for _, tr := range attribute.Translations {
		doc.Name = doc.Name.Add(tr.Locale, tr.Name)
	}

	if attribute.Translatable {
		grouped := make(map[string][]map[string]any)
		for _, value := range values {
			grouped[value.LocaleCode] = append(grouped[value.LocaleCode], normalizeAttributeValue(value))
		}
		doc.Values = grouped
	} else {
		flat := make([]map[string]any, 0, len(values))
		for _, value := range values {
			flat = append(flat, normalizeAttributeValue(value))
		}
		doc.Values = flat
	}
	return doc
}

// normalizeAttributeValue stores the raw value under a key derived from the
// attribute's storage type, e.g. "text-value".
func normalizeAttributeValue(value domain.AttributeValue) map[string]any {
	doc := map[string]any{
		"sylius-id": value.ID,
		"code":      value.Code,
		"locale":    value.LocaleCode,
	}
	doc[value.Attribute.StorageType+"-value"] = value.Value
	return doc
}

func normalizeVariantOption(option *domain.Option, value *domain.OptionValue) document.VariantOption {
	doc := document.VariantOption{
		ID:         option.ID,
		Code:       option.Code,
		Filterable: option.IsFilterable(),
		Name:       document.LocalizedField{},
		Value:      normalizeOptionValue(value),
	}
	for _, tr := range option.Translations {
		doc.Name = doc.Name.Add(tr.Locale, tr.Name)
	}
	return doc
}

func normalizeOption(option *domain.Option) document.Option {
	doc := document.Option{
		ID:         option.ID,
		Code:       option.Code,
		Position:   option.Position,
		Filterable: option.IsFilterable(),
		Name:       document.LocalizedField{},
		Values:     []document.OptionValue{},
	}
	for _, tr := range option.Translations {
		doc.Name = doc.Name.Add(tr.Locale, tr.Name)
	}
	for _, value := range option.Values {
		doc.Values = append(doc.Values, normalizeOptionValue(value))
	}
	return doc
}

func normalizeOptionValue(value *domain.OptionValue) document.OptionValue {
	doc := document.OptionValue{
		ID:    value.ID,
		Code:  value.Code,
		Value: value.Value,
		Name:  document.LocalizedField{},
	}
	for _, tr := range value.Translations {
		doc.Name = doc.Name.Add(tr.Locale, tr.Value)
	}
	return doc
}

func normalizeTaxon(taxon *domain.Taxon, position *int) document.Taxon {
	doc := document.Taxon{
		ID:       taxon.ID,
		Code:     taxon.Code,
		Name:     document.LocalizedField{},
		Position: position,
	}
	for _, tr := range taxon.Translations {
		doc.Name = doc.Name.Add(tr.Locale, tr.Name)
	}
	return doc
}

func normalizeChannelPricing(pricing *domain.ChannelPricing) *document.Price {
	if pricing == nil {
		return nil
	}
	doc := &document.Price{
		Price:             pricing.Price,
		OriginalPrice:     pricing.OriginalPrice,
		AppliedPromotions: []document.Promotion{},
	}
	for _, promotion := range pricing.AppliedPromotions {
		normalized := document.Promotion{
			ID:          promotion.ID,
			Code:        promotion.Code,
			Label:       document.LocalizedField{},
			Description: document.LocalizedField{},
		}
		for _, tr := range promotion.Translations {
			normalized.Label = normalized.Label.Add(tr.Locale, tr.Label)
			normalized.Description = normalized.Description.Add(tr.Locale, tr.Description)
		}
		doc.AppliedPromotions = append(doc.AppliedPromotions, normalized)
	}
	return doc
}

func normalizeImage(image domain.Image) document.Image {
	doc := document.Image{
		ID:       image.ID,
		Type:     image.Type,
		Path:     image.Path,
		Variants: []document.VariantRef{},
	}
	for _, variant := range image.Variants {
		doc.Variants = append(doc.Variants, document.VariantRef{ID: variant.ID, Code: variant.Code})
	}
	return doc
}

// identityKey maps an identity to a stable map key. Identities are used to
// group attribute values and detect duplicate options, so anything other
// than an integer or a string is unsupported. Integral floats are accepted
// because JSON decoding delivers numbers as float64.
func identityKey(id any) (string, error) {
	switch v := id.(type) {
	case string:
		return "s:" + v, nil
	case int:
		return fmt.Sprintf("i:%d", v), nil
	case int32:
		return fmt.Sprintf("i:%d", v), nil
	case int64:
		return fmt.Sprintf("i:%d", v), nil
	case float64:
		if v != math.Trunc(v) {
			return "", fmt.Errorf("identity %v is not an integer or a string", v)
		}
		return fmt.Sprintf("i:%d", int64(v)), nil
	default:
		return "", fmt.Errorf("identity of type %T is not an integer or a string", id)
	}
}

// sortVariantsByPosition is a stable ascending sort used by resolvers and
// tests; it does not mutate its input.
func sortVariantsByPosition(variants []*domain.Variant) []*domain.Variant {
	sorted := make([]*domain.Variant, len(variants))
	copy(sorted, variants)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}
