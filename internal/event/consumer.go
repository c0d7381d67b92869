// Package event reacts to catalog domain events by keeping the search index
// in sync.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/kafka"
)

// Kafka topics for the product domain events this module consumes.
const (
	TopicProductCreated = "catalog.product.created"
	TopicProductUpdated = "catalog.product.updated"
	TopicProductDeleted = "catalog.product.deleted"
)

// Indexer is the slice of the search service the consumer needs.
type Indexer interface {
	IndexProduct(ctx context.Context, code string) error
	DeleteProduct(ctx context.Context, id string) error
}

// productEventData is the payload of product.created and product.updated.
type productEventData struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// productDeletedData is the payload of product.deleted.
type productDeletedData struct {
	ID string `json:"id"`
}

// Consumer routes product events to the indexer.
type Consumer struct {
	indexer Indexer
	logger  *slog.Logger
}

// NewConsumer creates a new product event consumer.
func NewConsumer(indexer Indexer, logger *slog.Logger) *Consumer {
	return &Consumer{
		indexer: indexer,
		logger:  logger,
	}
}

// Handle processes one event based on its type. Unknown event types are
// logged and dropped.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductCreated, TopicProductUpdated:
		return c.handleProductUpserted(ctx, event)
	case TopicProductDeleted:
		return c.handleProductDeleted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (c *Consumer) handleProductUpserted(ctx context.Context, event *pkgkafka.Event) error {
	var data productEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}
	if data.Code == "" {
		return fmt.Errorf("%s event %s carries no product code", event.EventType, event.EventID)
	}

	if err := c.indexer.IndexProduct(ctx, data.Code); err != nil {
		return fmt.Errorf("index product from %s: %w", event.EventType, err)
	}

	c.logger.InfoContext(ctx, "indexed product from event",
		slog.String("event_type", event.EventType),
		slog.String("code", data.Code),
	)
	return nil
}

func (c *Consumer) handleProductDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data productDeletedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}

	if err := c.indexer.DeleteProduct(ctx, data.ID); err != nil {
		return fmt.Errorf("delete product from deleted event: %w", err)
	}

	c.logger.InfoContext(ctx, "deleted product from event",
		slog.String("product_id", data.ID),
	)
	return nil
}
