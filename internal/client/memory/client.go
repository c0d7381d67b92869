// Package memory is an in-memory implementation of the SearchClient
// interface. It interprets the subset of the query syntax the assembler
// produces: full-text match on localized fields, taxon terms, facet
// filters, sorting and pagination. Thread-safe via sync.RWMutex.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/client"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
)

// Client is the in-memory search backend.
type Client struct {
	mu      sync.RWMutex
	indexes map[string]map[string]json.RawMessage
}

// New creates a new in-memory search client.
func New() *Client {
	return &Client{
		indexes: make(map[string]map[string]json.RawMessage),
	}
}

// Ping always succeeds.
func (c *Client) Ping(_ context.Context) error {
	return nil
}

// EnsureIndex creates the in-memory index if it does not exist yet.
func (c *Client) EnsureIndex(_ context.Context, index string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.indexes[index]; !ok {
		c.indexes[index] = make(map[string]json.RawMessage)
	}
	return nil
}

// IndexDocument adds or updates a single document in the in-memory index.
func (c *Client) IndexDocument(_ context.Context, index, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memory index: marshal document: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.indexes[index]; !ok {
		c.indexes[index] = make(map[string]json.RawMessage)
	}
	c.indexes[index][id] = data
	return nil
}

// BulkIndex adds or updates multiple documents in the in-memory index.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []client.BulkDocument) error {
	for i := range docs {
		if err := c.IndexDocument(ctx, index, docs[i].ID, docs[i].Document); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a document from the in-memory index by its identifier.
func (c *Client) Delete(_ context.Context, index, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if docs, ok := c.indexes[index]; ok {
		delete(docs, id)
	}
	return nil
}

// DeleteIndex removes the entire in-memory index.
func (c *Client) DeleteIndex(_ context.Context, index string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.indexes, index)
	return nil
}

// Search executes the query against the given indexes. Documents that do not
// decode as product documents fail the whole request.
func (c *Client) Search(_ context.Context, indexes []string, query *document.Query) (*client.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type storedHit struct {
		index  string
		id     string
		raw    json.RawMessage
		source document.Product
	}

	var matched []storedHit
	for _, index := range indexes {
		for id, raw := range c.indexes[index] {
			var source document.Product
			if err := json.Unmarshal(raw, &source); err != nil {
				return nil, apperrors.Execution(fmt.Errorf("memory search: document %q: %w", id, err))
			}
			ok, err := matches(&source, query.Query)
			if err != nil {
				return nil, apperrors.Execution(err)
			}
			if ok {
				matched = append(matched, storedHit{index: index, id: id, raw: raw, source: source})
			}
		}
	}

	// Stable baseline order before any requested sort is applied; map
	// iteration order would leak into results otherwise.
	sort.Slice(matched, func(i, j int) bool { return matched[i].id < matched[j].id })

	for k := len(query.Sort) - 1; k >= 0; k-- {
		clause := query.Sort[k]
		sort.SliceStable(matched, func(i, j int) bool {
			return sortLess(&matched[i].source, &matched[j].source, clause)
		})
	}

	total := int64(len(matched))

	var aggs map[string]any
	if query.Aggs != nil {
		sources := make([]*document.Product, len(matched))
		for i := range matched {
			sources[i] = &matched[i].source
		}
		aggs = aggregate(sources)
	}

	// Pagination.
	from, size := 0, len(matched)
	if query.From != nil {
		from = *query.From
	}
	if query.Size != nil {
		size = *query.Size
	}
	if from > len(matched) {
		from = len(matched)
	}
	end := from + size
	if end > len(matched) {
		end = len(matched)
	}

	hits := make([]document.Hit, 0, end-from)
	for _, m := range matched[from:end] {
		hits = append(hits, document.Hit{Index: m.index, ID: m.id, Source: m.raw})
	}

	return &client.Response{
		Total:        total,
		Hits:         hits,
		Aggregations: aggs,
	}, nil
}

// matches evaluates the bool query the assembler produces: a must list of
// term / multi_match / nested-taxon clauses and a filter list of facet
// selections.
func matches(source *document.Product, query map[string]any) (bool, error) {
	boolClause, ok := query["bool"].(map[string]any)
	if !ok {
		return false, fmt.Errorf("memory search: unsupported query shape")
	}

	if musts, ok := boolClause["must"].([]any); ok {
		for _, m := range musts {
			clause, _ := m.(map[string]any)
			ok, err := matchClause(source, clause)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
	}

	if filters, ok := boolClause["filter"].([]any); ok {
		for _, f := range filters {
			clause, _ := f.(map[string]any)
			name, values := facetSelection(clause)
			if name == "" {
				continue
			}
			if !hasFacetValue(source, name, values) {
				return false, nil
			}
		}
	}

	return true, nil
}

func matchClause(source *document.Product, clause map[string]any) (bool, error) {
	if term, ok := clause["term"].(map[string]any); ok {
		if enabled, ok := term["enabled"].(bool); ok {
			return source.Enabled == enabled, nil
		}
		return false, fmt.Errorf("memory search: unsupported term clause")
	}

	if mm, ok := clause["multi_match"].(map[string]any); ok {
		term, _ := mm["query"].(string)
		return matchesText(source, term), nil
	}

	if nested, ok := clause["nested"].(map[string]any); ok {
		if nested["path"] == "taxons" {
			inner, _ := nested["query"].(map[string]any)
			term, _ := inner["term"].(map[string]any)
			code, _ := term["taxons.code"].(string)
			for _, taxon := range source.Taxons {
				if taxon.Code == code {
					return true, nil
				}
			}
			return false, nil
		}
	}

	if _, ok := clause["match_all"]; ok {
		return true, nil
	}

	return false, fmt.Errorf("memory search: unsupported query clause")
}

// matchesText does a case-insensitive substring match against every locale
// entry of the document's textual fields.
func matchesText(source *document.Product, term string) bool {
	needle := strings.ToLower(term)
	if needle == "" {
		return true
	}
	for _, field := range []document.LocalizedField{source.Name, source.Description, source.ShortDescription} {
		for _, entry := range field {
			for _, value := range entry {
				if strings.Contains(strings.ToLower(value), needle) {
					return true
				}
			}
		}
	}
	return false
}

// facetSelection extracts the facet name and selected value codes from one
// assembled filter clause. All three nested should branches carry the same
// selection, so the first term/terms pair found wins.
func facetSelection(clause map[string]any) (string, []string) {
	boolClause, ok := clause["bool"].(map[string]any)
	if !ok {
		return "", nil
	}
	shoulds, _ := boolClause["should"].([]any)
	for _, s := range shoulds {
		nested, _ := s.(map[string]any)["nested"].(map[string]any)
		if nested == nil {
			continue
		}
		inner, _ := nested["query"].(map[string]any)
		innerBool, _ := inner["bool"].(map[string]any)
		musts, _ := innerBool["must"].([]any)

		var name string
		var values []string
		for _, m := range musts {
			clause, _ := m.(map[string]any)
			if term, ok := clause["term"].(map[string]any); ok {
				for _, v := range term {
					name, _ = v.(string)
				}
			}
			if terms, ok := clause["terms"].(map[string]any); ok {
				for _, v := range terms {
					for _, value := range toAnySlice(v) {
						if s, ok := value.(string); ok {
							values = append(values, s)
						}
					}
				}
			}
		}
		if name != "" {
			return name, values
		}
	}
	return "", nil
}

// hasFacetValue reports whether the document carries the named attribute or
// option with any of the selected value codes.
func hasFacetValue(source *document.Product, name string, values []string) bool {
	selected := make(map[string]bool, len(values))
	for _, v := range values {
		selected[v] = true
	}

	for _, attribute := range source.Attributes {
		if attribute.Code != name {
			continue
		}
		for _, code := range attributeValueCodes(attribute.Values) {
			if selected[code] {
				return true
			}
		}
	}
	for _, attribute := range source.TranslatedAttributes {
		if attribute.Code != name {
			continue
		}
		for _, code := range attributeValueCodes(attribute.Values) {
			if selected[code] {
				return true
			}
		}
	}
	for _, option := range source.ProductOptions {
		if option.Code != name {
			continue
		}
		for _, value := range option.Values {
			if selected[value.Code] {
				return true
			}
		}
	}
	return false
}

// attributeValueCodes collects value codes from either values shape: a flat
// list for plain attributes or a locale-keyed map for translated ones.
func attributeValueCodes(values any) []string {
	var codes []string

	collect := func(entries []any) {
		for _, e := range entries {
			entry, _ := e.(map[string]any)
			if code, ok := entry["code"].(string); ok {
				codes = append(codes, code)
			}
		}
	}

	switch v := values.(type) {
	case []any:
		collect(v)
	case map[string]any:
		locales := make([]string, 0, len(v))
		for locale := range v {
			locales = append(locales, locale)
		}
		sort.Strings(locales)
		for _, locale := range locales {
			collect(toAnySlice(v[locale]))
		}
	case []map[string]any:
		for _, entry := range v {
			if code, ok := entry["code"].(string); ok {
				codes = append(codes, code)
			}
		}
	}
	return codes
}

func toAnySlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	}
	return nil
}

// sortLess compares two documents under one assembled sort clause. Unknown
// sort fields leave the order untouched.
func sortLess(a, b *document.Product, clause map[string]any) bool {
	for field, spec := range clause {
		order := "asc"
		if m, ok := spec.(map[string]any); ok {
			if o, ok := m["order"].(string); ok {
				order = o
			}
		}

		var less, equal bool
		switch {
		case field == "variants.price.price":
			pa, pb := minPrice(a), minPrice(b)
			less, equal = pa < pb, pa == pb
		case field == "created-at":
			less, equal = a.CreatedAt < b.CreatedAt, a.CreatedAt == b.CreatedAt
		case field == "taxons.position":
			pa, pb := minTaxonPosition(a, spec), minTaxonPosition(b, spec)
			less, equal = pa < pb, pa == pb
		case strings.HasPrefix(field, "name."):
			locale := strings.TrimSuffix(strings.TrimPrefix(field, "name."), ".keyword")
			na, _ := a.Name.Exact(locale)
			nb, _ := b.Name.Exact(locale)
			less, equal = na < nb, na == nb
		default:
			return false
		}

		if equal {
			return false
		}
		if order == "desc" {
			return !less
		}
		return less
	}
	return false
}

func minPrice(p *document.Product) int64 {
	const unpriced = int64(1) << 62
	best := unpriced
	for _, variant := range p.Variants {
		if variant.Price != nil && variant.Price.Price != nil && *variant.Price.Price < best {
			best = *variant.Price.Price
		}
	}
	return best
}

func minTaxonPosition(p *document.Product, spec any) int {
	code := ""
	if m, ok := spec.(map[string]any); ok {
		if nested, ok := m["nested"].(map[string]any); ok {
			if filter, ok := nested["filter"].(map[string]any); ok {
				if term, ok := filter["term"].(map[string]any); ok {
					code, _ = term["taxons.code"].(string)
				}
			}
		}
	}

	const unranked = int(^uint(0) >> 1)
	best := unranked
	for _, taxon := range p.Taxons {
		if code != "" && taxon.Code != code {
			continue
		}
		if taxon.Position != nil && *taxon.Position < best {
			best = *taxon.Position
		}
	}
	return best
}

// aggregate fabricates the aggregation response shape the facet extractor
// expects, one top-level key per filterable bucket family.
func aggregate(sources []*document.Product) map[string]any {
	attributes := newBucketSet()
	translated := newBucketSet()
	options := newBucketSet()

	for _, source := range sources {
		for _, attribute := range source.Attributes {
			if !attribute.Filterable {
				continue
			}
			attributes.add(attribute.Code, attributeValueCodes(attribute.Values))
		}
		for _, attribute := range source.TranslatedAttributes {
			if !attribute.Filterable {
				continue
			}
			translated.add(attribute.Code, attributeValueCodes(attribute.Values))
		}
		for _, option := range source.ProductOptions {
			if !option.Filterable {
				continue
			}
			codes := make([]string, 0, len(option.Values))
			for _, value := range option.Values {
				codes = append(codes, value.Code)
			}
			options.add(option.Code, codes)
		}
	}

	return map[string]any{
		"attributes":            attributes.response(),
		"translated-attributes": translated.response(),
		"options":               options.response(),
	}
}

type bucketSet struct {
	order  []string
	counts map[string]map[string]int64
	values map[string][]string
}

func newBucketSet() *bucketSet {
	return &bucketSet{
		counts: make(map[string]map[string]int64),
		values: make(map[string][]string),
	}
}

// add counts one document's distinct value codes under the given bucket key.
func (s *bucketSet) add(key string, codes []string) {
	if _, ok := s.counts[key]; !ok {
		s.order = append(s.order, key)
		s.counts[key] = make(map[string]int64)
	}
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		if s.counts[key][code] == 0 {
			s.values[key] = append(s.values[key], code)
		}
		s.counts[key][code]++
	}
}

func (s *bucketSet) response() map[string]any {
	buckets := make([]any, 0, len(s.order))
	for _, key := range s.order {
		valueBuckets := make([]any, 0, len(s.values[key]))
		var docCount int64
		for _, code := range s.values[key] {
			count := s.counts[key][code]
			docCount += count
			valueBuckets = append(valueBuckets, map[string]any{
				"key":       code,
				"doc_count": count,
			})
		}
		buckets = append(buckets, map[string]any{
			"key":       key,
			"doc_count": docCount,
			"values":    map[string]any{"buckets": valueBuckets},
		})
	}
	return map[string]any{
		"filterable": map[string]any{
			"code": map[string]any{"buckets": buckets},
		},
	}
}
