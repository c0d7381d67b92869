package provider

import (
	"context"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
	apperrors "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/errors"
)

// StaticChannelProvider serves a fixed channel list, typically loaded from
// configuration. Lookups never leave the process.
type StaticChannelProvider struct {
	channels []*domain.Channel
}

// NewStaticChannelProvider creates a provider over the given channels.
func NewStaticChannelProvider(channels []*domain.Channel) *StaticChannelProvider {
	return &StaticChannelProvider{channels: channels}
}

// Channels implements ChannelProvider.
func (p *StaticChannelProvider) Channels(_ context.Context) ([]*domain.Channel, error) {
	return p.channels, nil
}

// ChannelByCode implements ChannelProvider.
func (p *StaticChannelProvider) ChannelByCode(_ context.Context, code string) (*domain.Channel, error) {
	for _, channel := range p.channels {
		if channel.Code == code {
			return channel, nil
		}
	}
	return nil, apperrors.NotFound("channel", code)
}
