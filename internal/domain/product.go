package domain

import "time"

// Product is the catalog aggregate handed to the normalizer: the product
// itself together with its translations, variants, attribute values, options,
// taxon assignments and images.
type Product struct {
	// ID is the catalog-internal identity. Only integer and string
	// identities are supported by the indexing pipeline.
	ID                          any
	Code                        string
	Enabled                     bool
	VariantSelectionMethod      string
	VariantSelectionMethodLabel string
	CreatedAt                   *time.Time
	Translations                []ProductTranslation
	MainTaxon                   *Taxon
	Taxons                      []ProductTaxon
	Variants                    []*Variant
	Attributes                  []AttributeValue
	Options                     []*Option
	Images                      []Image
}

// ProductTranslation carries the localized product texts for one locale.
type ProductTranslation struct {
	Locale           string
	Name             string
	Description      string
	ShortDescription string
	Slug             string
}

// Taxon is a taxonomy node (category) with its localized names.
type Taxon struct {
	ID           any
	Code         string
	Translations []TaxonTranslation
}

// TaxonTranslation carries the localized taxon name for one locale.
type TaxonTranslation struct {
	Locale string
	Name   string
	Slug   string
}

// ProductTaxon is a taxon assignment carrying the product position within
// that taxon.
type ProductTaxon struct {
	Taxon    *Taxon
	Position int
}

// Image is a product image together with the variants that reference it.
type Image struct {
	ID       any
	Type     *string
	Path     string
	Variants []*Variant
}
