package localapi

import "context"

type ctxKey struct{}

var ctxKeyUserID = ctxKey{}

func withUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, id)
}

func userIDFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyUserID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
