// Package requestctx carries request-scoped identity through contexts.
package requestctx

import "context"

// callerContextKey is the context key for the authenticated service caller.
type callerContextKey struct{}

// WithCaller stores the subject of a verified service token in context.
func WithCaller(ctx context.Context, caller string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext returns the caller stored in context, or "" when the
// request was not authenticated.
func CallerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(callerContextKey{}).(string)
	return value
}
