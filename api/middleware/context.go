package middleware

import "context"

type contextKey string

const ctxTillID contextKey = "till_id"

// TillIDFromContext returns the till the request targets, or "" outside the
// Till middleware.
func TillIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxTillID).(string); ok {
		return v
	}
	return ""
}

// WithTillID injects the till identifier into the context for downstream handlers.
func WithTillID(ctx context.Context, tillID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTillID, tillID)
}
