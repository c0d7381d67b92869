package http

import (
	"net/http"

	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/filter"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/locale"
	"github.com/lruozzi9/SyliusElasticsearchPlugin/internal/provider"
)

// RequestScope injects the per-request storefront scope into the context:
// the sales channel, the display locale and the ambient facet filters.
// Downstream code that omits explicit filters picks up the ambient ones.
func RequestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		channelCode := r.URL.Query().Get("channel")
		if channelCode == "" {
			channelCode = r.Header.Get("X-Channel-Code")
		}
		if channelCode != "" {
			ctx = provider.WithChannelCode(ctx, channelCode)
		}

		localeCode := r.URL.Query().Get("locale")
		if localeCode == "" {
			localeCode = r.Header.Get("X-Locale")
		}
		if localeCode != "" {
			ctx = locale.WithLocale(ctx, localeCode)
		}

		if filters := filter.FromRequest(r); filters != nil {
			ctx = filter.WithFilters(ctx, filters)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
