// Package filter models facet filters and the per-request ambient filter
// source. Requests that omit explicit filters fall back to the filters the
// handler extracted from the query string and stored in the context; there is
// no global mutable state.
package filter

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Filter selects documents by a facet (attribute or option code) and one or
// more selected values.
type Filter struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type contextKey struct{}

// WithFilters returns a context carrying the request's filters.
func WithFilters(ctx context.Context, filters []Filter) context.Context {
	return context.WithValue(ctx, contextKey{}, filters)
}

// FromContext returns the filters stored in the context, or nil.
func FromContext(ctx context.Context) []Filter {
	filters, _ := ctx.Value(contextKey{}).([]Filter)
	return filters
}

// FromRequest extracts facet filters from query parameters of the form
// filters[color]=red&filters[color]=blue. The raw query is scanned
// sequentially so the caller-supplied facet order is preserved.
func FromRequest(r *http.Request) []Filter {
	var (
		order   []string
		grouped = make(map[string][]string)
	)

	for _, pair := range strings.Split(r.URL.RawQuery, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		name, ok := filterName(key)
		if !ok {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil || value == "" {
			continue
		}
		if _, seen := grouped[name]; !seen {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], value)
	}

	if len(order) == 0 {
		return nil
	}
	filters := make([]Filter, 0, len(order))
	for _, name := range order {
		filters = append(filters, Filter{Name: name, Values: grouped[name]})
	}
	return filters
}

// Selected reports whether the given facet value is selected by any filter.
func Selected(filters []Filter, name, value string) bool {
	for _, f := range filters {
		if f.Name != name {
			continue
		}
		for _, v := range f.Values {
			if v == value {
				return true
			}
		}
	}
	return false
}

// filterName extracts "color" from "filters[color]" or "filters[color][]".
func filterName(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, "filters[")
	if !ok {
		return "", false
	}
	name, rest, found := strings.Cut(rest, "]")
	if !found || name == "" {
		return "", false
	}
	if rest != "" && rest != "[]" {
		return "", false
	}
	return name, true
}
