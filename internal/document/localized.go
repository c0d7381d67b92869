package document

// LocalizedField is an ordered sequence of single-entry maps, each mapping
// one locale code to a value. The order is the translation iteration order of
// the source aggregate. The same locale may defensively appear more than
// once; lookup semantics are first exact match wins.
type LocalizedField []map[string]string

// Add appends one {locale: value} entry preserving order.
func (f LocalizedField) Add(locale, value string) LocalizedField {
	return append(f, map[string]string{locale: value})
}

// Exact returns the value of the first entry for the given locale.
func (f LocalizedField) Exact(locale string) (string, bool) {
	for _, entry := range f {
		if v, ok := entry[locale]; ok {
			return v, true
		}
	}
	return "", false
}
