package domain

// Option is a product option definition (e.g. size, color).
type Option struct {
	ID           any
	Code         string
	Position     int
	Translations []OptionTranslation
	Values       []*OptionValue
	// Filterable, when non-nil, exposes the facet-filterable capability.
	Filterable Filterable
}

// IsFilterable resolves the capability, defaulting to false when absent.
func (o *Option) IsFilterable() bool {
	if o.Filterable == nil {
		return false
	}
	return o.Filterable.IsFilterable()
}

// OptionTranslation carries the localized option name for one locale.
type OptionTranslation struct {
	Locale string
	Name   string
}

// OptionValue is one selectable value of an option.
type OptionValue struct {
	ID           any
	Code         string
	Value        string
	Option       *Option
	Translations []OptionValueTranslation
}

// OptionValueTranslation carries the localized option value label for one
// locale.
type OptionValueTranslation struct {
	Locale string
	Value  string
}
