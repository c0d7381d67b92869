// Package result holds the display-ready read models reconstructed from raw
// search results. They are built once per hit and never persisted.
package result

import "github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"

// Product is the read-only projection of a product for rendering. Nullable
// fields stay nil when no translation matched the active or fallback locale.
type Product struct {
	Code             string    `json:"code"`
	CurrentLocale    string    `json:"current_locale"`
	Name             *string   `json:"name"`
	Slug             string    `json:"slug"`
	Description      *string   `json:"description"`
	ShortDescription *string   `json:"short_description"`
	Images           []Image   `json:"images"`
	Variants         []Variant `json:"variants"`
	Options          []Option  `json:"options"`
}

// DefaultVariant returns the first variant. The parser sorts variants by
// position before constructing the projection, so the first element is the
// authoritative default.
func (p *Product) DefaultVariant() *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// Image is a rendered product image.
type Image struct {
	Path string  `json:"path"`
	Type *string `json:"type"`
}

// Variant is a rendered product variant with its channel pricing.
type Variant struct {
	Code     string         `json:"code"`
	Enabled  bool           `json:"enabled"`
	Position int            `json:"position"`
	Pricing  ChannelPricing `json:"pricing"`
}

// ChannelPricing is the resolved price of a variant on the active channel.
type ChannelPricing struct {
	ChannelCode       string      `json:"channel_code"`
	Price             *int64      `json:"price"`
	OriginalPrice     *int64      `json:"original_price"`
	AppliedPromotions []Promotion `json:"applied_promotions"`
}

// Promotion is an applied catalog promotion with its locale-resolved label.
type Promotion struct {
	CurrentLocale string  `json:"current_locale"`
	Label         *string `json:"label"`
}

// Option is a rendered product option.
type Option struct {
	Code          string        `json:"code"`
	Position      int           `json:"position"`
	CurrentLocale string        `json:"current_locale"`
	Name          *string       `json:"name"`
	Values        []OptionValue `json:"values"`
}

// OptionValue carries both the active and the fallback locale so the display
// layer can apply locale fallback for the value label itself.
type OptionValue struct {
	Code           string                  `json:"code"`
	Value          string                  `json:"value"`
	CurrentLocale  string                  `json:"current_locale"`
	FallbackLocale string                  `json:"fallback_locale"`
	Name           document.LocalizedField `json:"name"`
}
