package httpx

import "context"

type ctxKey string

// CtxKeyUserID holds the authenticated user id (as a string) once the
// session middleware has resolved it. Rate limiting keys off this value.
const CtxKeyUserID ctxKey = "user_id"

func userIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
