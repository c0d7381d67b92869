package document

// Product is the denormalized index document for one product. It is built
// fresh on every normalization, never mutated afterwards, and written
// wholesale to the index.
type Product struct {
	ID                          any            `json:"sylius-id"`
	Code                        string         `json:"code"`
	Enabled                     bool           `json:"enabled"`
	VariantSelectionMethod      string         `json:"variant-selection-method"`
	VariantSelectionMethodLabel string         `json:"variant-selection-method-label"`
	CreatedAt                   string         `json:"created-at,omitempty"`
	Name                        LocalizedField `json:"name"`
	Description                 LocalizedField `json:"description"`
	ShortDescription            LocalizedField `json:"short-description"`
	Slug                        LocalizedField `json:"slug"`
	Taxons                      []Taxon        `json:"taxons"`
	MainTaxon                   *Taxon         `json:"main-taxon"`
	Variants                    []Variant      `json:"variants"`
	DefaultVariant              *Variant       `json:"default-variant"`
	Attributes                  []Attribute    `json:"attributes"`
	TranslatedAttributes        []Attribute    `json:"translated-attributes"`
	ProductOptions              []Option       `json:"product-options"`
	Images                      []Image        `json:"images"`
}

// Taxon is a normalized taxonomy node. Position is only set for taxon
// assignments, not for the main taxon.
type Taxon struct {
	ID       any            `json:"sylius-id"`
	Code     string         `json:"code"`
	Name     LocalizedField `json:"name"`
	Position *int           `json:"position,omitempty"`
}

// Variant is a normalized product variant. Position is the authoritative
// ordering key; consumers must sort ascending before any "first variant"
// inference.
type Variant struct {
	ID               any             `json:"sylius-id"`
	Code             string          `json:"code"`
	Enabled          bool            `json:"enabled"`
	Position         int             `json:"position"`
	Weight           *float64        `json:"weight"`
	Width            *float64        `json:"width"`
	Height           *float64        `json:"height"`
	Depth            *float64        `json:"depth"`
	ShippingRequired bool            `json:"shipping-required"`
	Name             LocalizedField  `json:"name"`
	Price            *Price          `json:"price"`
	Options          []VariantOption `json:"options"`
}

// Price is the channel-scoped pricing block of a variant.
type Price struct {
	Price             *int64      `json:"price"`
	OriginalPrice     *int64      `json:"original-price"`
	AppliedPromotions []Promotion `json:"applied-promotions"`
}

// Promotion is a catalog promotion applied to a variant price.
type Promotion struct {
	ID          any            `json:"sylius-id"`
	Code        string         `json:"code"`
	Label       LocalizedField `json:"label"`
	Description LocalizedField `json:"description"`
}

// Attribute is a normalized attribute bucket. Values is a flat ordered list
// for non-translatable attributes and a locale-keyed grouping
// (locale -> list of values) for translatable ones; each raw value carries
// its payload under a "<storage-type>-value" key.
type Attribute struct {
	ID           any            `json:"sylius-id"`
	Code         string         `json:"code"`
	Type         string         `json:"type"`
	StorageType  string         `json:"storage-type"`
	Position     int            `json:"position"`
	Translatable bool           `json:"translatable"`
	Filterable   bool           `json:"filterable"`
	Name         LocalizedField `json:"name"`
	Values       any            `json:"values"`
}

// Option is a normalized product option with all of its values.
type Option struct {
	ID         any            `json:"sylius-id"`
	Code       string         `json:"code"`
	Position   int            `json:"position"`
	Filterable bool           `json:"filterable"`
	Name       LocalizedField `json:"name"`
	Values     []OptionValue  `json:"values"`
}

// VariantOption is the flattened option -> value pairing on a variant.
// A variant carries at most one value per distinct option.
type VariantOption struct {
	ID         any            `json:"sylius-id"`
	Code       string         `json:"code"`
	Filterable bool           `json:"filterable"`
	Name       LocalizedField `json:"name"`
	Value      OptionValue    `json:"value"`
}

// OptionValue is a normalized option value.
type OptionValue struct {
	ID    any            `json:"sylius-id"`
	Code  string         `json:"code"`
	Value string         `json:"value"`
	Name  LocalizedField `json:"name"`
}

// Image is a normalized product image.
type Image struct {
	ID       any          `json:"sylius-id"`
	Type     *string      `json:"type"`
	Path     string       `json:"path"`
	Variants []VariantRef `json:"variants"`
}

// VariantRef identifies a variant referencing an image.
type VariantRef struct {
	ID   any    `json:"sylius-id"`
	Code string `json:"code"`
}
