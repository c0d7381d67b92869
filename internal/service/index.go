package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/client"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
)

// IndexProduct fetches the product by code and (re)indexes it on every
// channel it is assigned to. A channel the product is not available on is
// skipped.
func (s *SearchService) IndexProduct(ctx context.Context, code string) error {
	if code == "" {
		return apperrors.InvalidInput("product code is required")
	}

	channels, err := s.channels.Channels(ctx)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}

	for _, channel := range channels {
		product, err := s.products.Product(ctx, channel, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return fmt.Errorf("index product %q: %w", code, err)
		}

		doc, err := s.normalizer.Normalize(product, channel)
		if err != nil {
			return fmt.Errorf("index product %q: %w", code, err)
		}

		index := s.names.IndexName(channel, document.ProductType)
		if err := s.client.EnsureIndex(ctx, index); err != nil {
			return fmt.Errorf("index product %q: %w", code, err)
		}
		if err := s.client.IndexDocument(ctx, index, documentID(product.ID), doc); err != nil {
			return fmt.Errorf("index product %q: %w", code, err)
		}

		s.logger.InfoContext(ctx, "product indexed",
			slog.String("code", code),
			slog.String("channel", channel.Code),
		)
	}
	return nil
}

// DeleteProduct removes the product from every channel's index. Deleting a
// product that was never indexed is not an error.
func (s *SearchService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	channels, err := s.channels.Channels(ctx)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	for _, channel := range channels {
		index := s.names.IndexName(channel, document.ProductType)
		if err := s.client.Delete(ctx, index, id); err != nil {
			return fmt.Errorf("delete product %q: %w", id, err)
		}
	}

	s.logger.InfoContext(ctx, "product deleted from index", slog.String("id", id))
	return nil
}

// BulkIndexProducts fetches each product by code and writes them to every
// channel's index in a single bulk request per channel. Codes unknown to the
// catalog on a channel are skipped, mirroring IndexProduct.
func (s *SearchService) BulkIndexProducts(ctx context.Context, codes []string) error {
	if len(codes) == 0 {
		return apperrors.InvalidInput("at least one product code is required")
	}

	channels, err := s.channels.Channels(ctx)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}

	for _, channel := range channels {
		docs := make([]client.BulkDocument, 0, len(codes))
		for _, code := range codes {
			product, err := s.products.Product(ctx, channel, code)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					continue
				}
				return fmt.Errorf("bulk index product %q: %w", code, err)
			}

			doc, err := s.normalizer.Normalize(product, channel)
			if err != nil {
				return fmt.Errorf("bulk index product %q: %w", code, err)
			}
			docs = append(docs, client.BulkDocument{ID: documentID(product.ID), Document: doc})
		}
		if len(docs) == 0 {
			continue
		}

		index := s.names.IndexName(channel, document.ProductType)
		if err := s.client.EnsureIndex(ctx, index); err != nil {
			return fmt.Errorf("bulk index: %w", err)
		}
		if err := s.client.BulkIndex(ctx, index, docs); err != nil {
			return fmt.Errorf("bulk index: %w", err)
		}

		s.logger.InfoContext(ctx, "products bulk indexed",
			slog.String("channel", channel.Code),
			slog.Int("products", len(docs)),
		)
	}
	return nil
}

// ReindexAll rebuilds the product index of every channel from the catalog.
// The first normalization failure aborts the run; a source-data violation is
// not something a retry can fix.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	channels, err := s.channels.Channels(ctx)
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}

	for _, channel := range channels {
		if err := s.reindexChannel(ctx, channel); err != nil {
			return fmt.Errorf("reindex channel %q: %w", channel.Code, err)
		}
	}
	return nil
}

func (s *SearchService) reindexChannel(ctx context.Context, channel *domain.Channel) error {
	index := s.names.IndexName(channel, document.ProductType)
	if err := s.client.EnsureIndex(ctx, index); err != nil {
		return err
	}

	products, err := s.products.AllProducts(ctx, channel)
	if err != nil {
		return err
	}

	docs := make([]client.BulkDocument, 0, len(products))
	for _, product := range products {
		doc, err := s.normalizer.Normalize(product, channel)
		if err != nil {
			return fmt.Errorf("product %q: %w", product.Code, err)
		}
		docs = append(docs, client.BulkDocument{ID: documentID(product.ID), Document: doc})
	}

	if err := s.client.BulkIndex(ctx, index, docs); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "channel reindexed",
		slog.String("channel", channel.Code),
		slog.Int("products", len(docs)),
	)
	return nil
}

// documentID renders a catalog identity as the backend document identifier.
func documentID(id any) string {
	switch v := id.(type) {
	case float64:
		return fmt.Sprintf("%d", int64(v))
	default:
		return fmt.Sprint(v)
	}
}
