package shared

import (
	"context"
)

type contextKey struct{}

// InvocationMetadata identifies the advisor turn a tool call belongs to.
type InvocationMetadata struct {
	TurnID string
	Agent  string
	Round  int
}

// WithInvocationMetadata injects tool invocation metadata into a context.
func WithInvocationMetadata(ctx context.Context, meta InvocationMetadata) context.Context {
	return context.WithValue(ctx, contextKey{}, meta)
}

// MetadataFromContext extracts invocation metadata if present.
func MetadataFromContext(ctx context.Context) (InvocationMetadata, bool) {
	meta, ok := ctx.Value(contextKey{}).(InvocationMetadata)
	return meta, ok
}
