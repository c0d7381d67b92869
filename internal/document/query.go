package document

import "encoding/json"

// Query is a fully decoded, self-contained search-engine query. No further
// template evaluation is needed downstream. From and Size are independently
// optional.
type Query struct {
	Query map[string]any   `json:"query"`
	Sort  []map[string]any `json:"sort,omitempty"`
	From  *int             `json:"from,omitempty"`
	Size  *int             `json:"size,omitempty"`
	Aggs  map[string]any   `json:"aggs,omitempty"`
}

// Hit is one raw search result as returned by the search engine. Source
// carries the Product document shape.
type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source"`
}
