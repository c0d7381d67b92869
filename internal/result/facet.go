package result

// Facet is one filterable dimension extracted from the aggregation buckets,
// with its selectable values and counts.
type Facet struct {
	Name   string       `json:"name"`
	Values []FacetValue `json:"values"`
}

// FacetValue is one selectable facet value with its document count and
// whether the current request already selected it.
type FacetValue struct {
	Value    string `json:"value"`
	Count    int64  `json:"count"`
	Selected bool   `json:"selected"`
}

// FacetSet is the facet summary of one query result, in aggregation order.
type FacetSet []Facet

// Facet returns the facet with the given name, if present.
func (s FacetSet) Facet(name string) (Facet, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Facet{}, false
}
