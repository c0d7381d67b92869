package adapter

import (
	"encoding/json"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/filter"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/result"
)

// bucketFamilies are the top-level aggregation keys the assembler emits, in
// presentation order.
var bucketFamilies = []string{"attributes", "translated-attributes", "options"}

// ExtractFacets walks the aggregation buckets and turns them into the facet
// summary, marking values already selected by the current request's filters.
func ExtractFacets(aggs map[string]any, selected []filter.Filter) result.FacetSet {
	facets := result.FacetSet{}
	for _, family := range bucketFamilies {
		familyAgg, ok := aggs[family].(map[string]any)
		if !ok {
			continue
		}
		filterable, ok := familyAgg["filterable"].(map[string]any)
		if !ok {
			continue
		}
		codeAgg, ok := filterable["code"].(map[string]any)
		if !ok {
			continue
		}
		for _, b := range toSlice(codeAgg["buckets"]) {
			bucket, ok := b.(map[string]any)
			if !ok {
				continue
			}
			name, _ := bucket["key"].(string)
			if name == "" {
				continue
			}

			facet := result.Facet{Name: name, Values: []result.FacetValue{}}
			if values, ok := bucket["values"].(map[string]any); ok {
				for _, vb := range toSlice(values["buckets"]) {
					valueBucket, ok := vb.(map[string]any)
					if !ok {
						continue
					}
					value, _ := valueBucket["key"].(string)
					if value == "" {
						continue
					}
					facet.Values = append(facet.Values, result.FacetValue{
						Value:    value,
						Count:    bucketCount(valueBucket["doc_count"]),
						Selected: filter.Selected(selected, name, value),
					})
				}
			}
			facets = append(facets, facet)
		}
	}
	return facets
}

func toSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// bucketCount tolerates the numeric types both backends produce: float64
// from decoded JSON and int64 from the in-memory client.
func bucketCount(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}
