package domain

// Filterable is an optional capability exposed by attribute and option types
// that can opt into facet filtering. Definitions that do not carry the
// capability are treated as not filterable.
type Filterable interface {
	IsFilterable() bool
}

// FilterableFlag is the plain-bool carrier of the Filterable capability.
type FilterableFlag bool

// IsFilterable implements Filterable.
func (f FilterableFlag) IsFilterable() bool { return bool(f) }

// Attribute is a product attribute definition. StorageType determines the
// key under which raw values are stored in the index document
// (e.g. "text" produces a "text-value" key).
type Attribute struct {
	ID           any
	Code         string
	Type         string
	StorageType  string
	Position     int
	Translatable bool
	Translations []AttributeTranslation
	// Filterable, when non-nil, exposes the facet-filterable capability.
	Filterable Filterable
}

// IsFilterable resolves the capability, defaulting to false when absent.
func (a *Attribute) IsFilterable() bool {
	if a.Filterable == nil {
		return false
	}
	return a.Filterable.IsFilterable()
}

// AttributeTranslation carries the localized attribute name for one locale.
type AttributeTranslation struct {
	Locale string
	Name   string
}

// AttributeValue is one raw value of an attribute on a product. LocaleCode is
// empty for values of non-translatable attributes.
type AttributeValue struct {
	ID         any
	Code       string
	LocaleCode string
	Value      any
	Attribute  *Attribute
}
