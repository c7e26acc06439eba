package logger

import "context"

type turnIDKey struct{}

// WithTurnID tags ctx with the identifier of the current user turn.
func WithTurnID(ctx context.Context, turnID string) context.Context {
	return context.WithValue(ctx, turnIDKey{}, turnID)
}

// TurnIDFromContext returns the turn identifier stored by WithTurnID.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(turnIDKey{}).(string)
	return v, ok && v != ""
}
