// Package provider supplies the catalog data the indexing pipeline consumes:
// channels, products and taxons. Implementations fetch from the store's
// catalog APIs or serve a static set for tests and single-channel setups.
package provider

import (
	"context"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
)

// ChannelProvider lists the sales channels documents are partitioned by.
type ChannelProvider interface {
	// Channels returns every known sales channel.
	Channels(ctx context.Context) ([]*domain.Channel, error)

	// ChannelByCode returns the channel with the given code.
	ChannelByCode(ctx context.Context, code string) (*domain.Channel, error)
}

// ProductProvider fetches product aggregates for indexing.
type ProductProvider interface {
	// Product returns one product aggregate by its code, with the given
	// channel's pricing attached.
	Product(ctx context.Context, channel *domain.Channel, code string) (*domain.Product, error)

	// AllProducts returns every product assigned to the given channel.
	AllProducts(ctx context.Context, channel *domain.Channel) ([]*domain.Product, error)
}

// TaxonProvider resolves taxons for category browsing.
type TaxonProvider interface {
	// TaxonBySlug returns the taxon whose translation in the given locale
	// carries the given slug.
	TaxonBySlug(ctx context.Context, slug, localeCode string) (*domain.Taxon, error)
}
