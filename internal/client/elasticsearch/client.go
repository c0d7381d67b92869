// Package elasticsearch is the Elasticsearch-backed implementation of the
// SearchClient interface.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/client"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
)

// Client talks to an Elasticsearch cluster. Index names are supplied per
// call because documents are partitioned per channel and document type.
type Client struct {
	es     *elasticsearch.Client
	logger *slog.Logger
}

// esSearchResponse is the structure used to decode Elasticsearch search responses.
type esSearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []document.Hit `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]any `json:"aggregations"`
}

// esBulkResponse is the structure used to decode Elasticsearch bulk responses.
type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates a new Elasticsearch client connected to the given URL.
func New(esURL string, logger *slog.Logger) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	return &Client{es: es, logger: logger}, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// EnsureIndex checks whether the index exists and creates it with the
// product mapping if not.
func (c *Client) EnsureIndex(ctx context.Context, index string) error {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	// Status 200 means the index exists.
	if res.StatusCode == 200 {
		c.logger.Debug("elasticsearch index already exists", "index", index)
		return nil
	}

	mapping := buildProductMapping()
	res, err = c.es.Indices.Create(
		index,
		c.es.Indices.Create.WithBody(strings.NewReader(mapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("create index: %s", c.errorReason(res.Body, res.Status()))
	}

	c.logger.Info("elasticsearch index created", "index", index)
	return nil
}

// IndexDocument adds or updates a single document in the given index.
func (c *Client) IndexDocument(ctx context.Context, index, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("elasticsearch index: marshal document: %w", err)
	}

	res, err := c.es.Index(
		index,
		bytes.NewReader(data),
		c.es.Index.WithDocumentID(id),
		c.es.Index.WithRefresh("true"),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch index: %s", c.errorReason(res.Body, res.Status()))
	}

	c.logger.Debug("indexed document", "index", index, "id", id)
	return nil
}

// BulkIndex adds or updates multiple documents using the bulk NDJSON API.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []client.BulkDocument) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for i := range docs {
		// Action line.
		action := map[string]any{
			"index": map[string]any{
				"_index": index,
				"_id":    docs[i].ID,
			},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return fmt.Errorf("elasticsearch bulk index: encode action: %w", err)
		}

		// Document line.
		if err := json.NewEncoder(&buf).Encode(docs[i].Document); err != nil {
			return fmt.Errorf("elasticsearch bulk index: encode document: %w", err)
		}
	}

	res, err := c.es.Bulk(
		bytes.NewReader(buf.Bytes()),
		c.es.Bulk.WithIndex(index),
		c.es.Bulk.WithRefresh("true"),
		c.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch bulk index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch bulk index: %s", c.errorReason(res.Body, res.Status()))
	}

	var bulkResp esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return fmt.Errorf("elasticsearch bulk index: decode response: %w", err)
	}

	if bulkResp.Errors {
		var errMsgs []string
		for _, item := range bulkResp.Items {
			if item.Index.Error.Type != "" {
				errMsgs = append(errMsgs, fmt.Sprintf("id=%s: %s: %s", item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason))
			}
		}
		return fmt.Errorf("elasticsearch bulk index: partial errors: %s", strings.Join(errMsgs, "; "))
	}

	c.logger.Info("bulk indexed documents", "index", index, "count", len(docs))
	return nil
}

// Delete removes a document from the given index by its identifier.
// It does not return an error if the document does not exist (404 is ignored).
func (c *Client) Delete(ctx context.Context, index, id string) error {
	res, err := c.es.Delete(
		index,
		id,
		c.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	// Ignore 404 — the document might not exist.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch delete: %s", c.errorReason(res.Body, res.Status()))
	}

	c.logger.Debug("deleted document", "index", index, "id", id)
	return nil
}

// DeleteIndex removes the entire index. A 404 response is treated as
// success (index already absent).
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	res, err := c.es.Indices.Delete(
		[]string{index},
		c.es.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch delete index: %s", c.errorReason(res.Body, res.Status()))
	}

	c.logger.Info("elasticsearch index deleted", "index", index)
	return nil
}

// Search executes a pre-assembled query against the given indexes. Failures
// are reported as execution errors; the query is never retried here.
func (c *Client) Search(ctx context.Context, indexes []string, query *document.Query) (*client.Response, error) {
	data, err := json.Marshal(query)
	if err != nil {
		return nil, apperrors.Execution(fmt.Errorf("elasticsearch search: marshal query: %w", err))
	}

	res, err := c.es.Search(
		c.es.Search.WithIndex(indexes...),
		c.es.Search.WithBody(bytes.NewReader(data)),
		c.es.Search.WithContext(ctx),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, apperrors.Execution(fmt.Errorf("elasticsearch search: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, apperrors.Execution(fmt.Errorf("elasticsearch search: %s", c.errorReason(res.Body, res.Status())))
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, apperrors.Execution(fmt.Errorf("elasticsearch search: decode response: %w", err))
	}

	return &client.Response{
		Total:        esResp.Hits.Total.Value,
		Hits:         esResp.Hits.Hits,
		Aggregations: esResp.Aggregations,
	}, nil
}

// errorReason drains an error response body into a readable message.
func (c *Client) errorReason(body interface{ Read([]byte) (int, error) }, status string) string {
	var errResp esErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err == nil && errResp.Error.Type != "" {
		return fmt.Sprintf("%s: %s", errResp.Error.Type, errResp.Error.Reason)
	}
	return fmt.Sprintf("unexpected status %s", status)
}
