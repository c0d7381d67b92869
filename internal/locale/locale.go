// Package locale carries the active display locale through the request
// context and resolves it with a configured fallback.
package locale

import "context"

type contextKey struct{}

// WithLocale returns a context carrying the given locale code.
func WithLocale(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, contextKey{}, code)
}

// FromContext extracts the locale code stored in the context, if any.
func FromContext(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(contextKey{}).(string)
	return code, ok && code != ""
}

// Resolver supplies the active display locale for a request.
type Resolver interface {
	ActiveLocale(ctx context.Context) string
}

// ContextResolver resolves the locale injected at the request boundary,
// falling back to the configured default.
type ContextResolver struct {
	Default string
}

// ActiveLocale implements Resolver.
func (r ContextResolver) ActiveLocale(ctx context.Context) string {
	if code, ok := FromContext(ctx); ok {
		return code
	}
	return r.Default
}
