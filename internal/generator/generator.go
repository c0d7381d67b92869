// Package generator derives index and alias names from the channel and
// document type a document set belongs to.
package generator

import (
	"fmt"
	"strings"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/document"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
)

// IndexNameGenerator builds the per-channel, per-document-type index naming
// scheme. Names are always lowercase because the search backend requires it.
type IndexNameGenerator struct {
	prefix string
}

// NewIndexNameGenerator creates a generator with the given name prefix,
// e.g. "store".
func NewIndexNameGenerator(prefix string) *IndexNameGenerator {
	return &IndexNameGenerator{prefix: prefix}
}

// IndexName returns the index name for the given channel and document type.
func (g *IndexNameGenerator) IndexName(channel *domain.Channel, docType document.Type) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s", g.prefix, channel.Code, docType.Code()))
}

// AliasName returns the stable alias the index is served under. The alias
// follows the same scheme as IndexName so reads never depend on which
// physical index currently backs it.
func (g *IndexNameGenerator) AliasName(channel *domain.Channel, docType document.Type) string {
	return g.IndexName(channel, docType)
}
