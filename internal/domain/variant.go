package domain

// Variant is a purchasable product variant. Position is the authoritative
// ordering key within a product.
type Variant struct {
	ID               any
	Code             string
	Enabled          bool
	Position         int
	Weight           *float64
	Width            *float64
	Height           *float64
	Depth            *float64
	ShippingRequired bool
	Translations     []VariantTranslation
	OptionValues     []*OptionValue
	ChannelPricings  []*ChannelPricing
}

// VariantTranslation carries the localized variant name for one locale.
type VariantTranslation struct {
	Locale string
	Name   string
}

// ChannelPricingFor returns the pricing record for the given channel code,
// or nil when the variant is not priced on that channel.
func (v *Variant) ChannelPricingFor(channelCode string) *ChannelPricing {
	for _, cp := range v.ChannelPricings {
		if cp.ChannelCode == channelCode {
			return cp
		}
	}
	return nil
}

// ChannelPricing is the channel-scoped price of a variant, including the
// catalog promotions currently applied to it.
type ChannelPricing struct {
	ChannelCode       string
	Price             *int64
	OriginalPrice     *int64
	AppliedPromotions []*CatalogPromotion
}

// CatalogPromotion is a promotion applied to a channel pricing, with
// localized label and description.
type CatalogPromotion struct {
	ID           any
	Code         string
	Translations []PromotionTranslation
}

// PromotionTranslation carries the localized promotion texts for one locale.
type PromotionTranslation struct {
	Locale      string
	Label       string
	Description string
}

// Channel is the sales context a product is normalized for. DefaultLocale,
// when set, overrides the process-wide fallback locale during parsing.
type Channel struct {
	Code          string
	Name          string
	DefaultLocale string
}
