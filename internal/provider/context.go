package provider

import (
	"context"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/domain"
)

type channelKey struct{}

// WithChannelCode returns a context carrying the request's channel code.
func WithChannelCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, channelKey{}, code)
}

// ChannelCodeFromContext extracts the channel code stored in the context.
func ChannelCodeFromContext(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(channelKey{}).(string)
	return code, ok && code != ""
}

// ContextChannelResolver resolves the active sales channel from the request
// context, falling back to the configured default channel.
type ContextChannelResolver struct {
	Channels ChannelProvider
	Default  string
}

// ActiveChannel implements the channel context consumed by the result parser.
func (r *ContextChannelResolver) ActiveChannel(ctx context.Context) (*domain.Channel, error) {
	code := r.Default
	if c, ok := ChannelCodeFromContext(ctx); ok {
		code = c
	}
	return r.Channels.ChannelByCode(ctx, code)
}
