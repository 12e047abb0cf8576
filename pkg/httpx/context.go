package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserEmail carries the authenticated caller's email (token subject).
	CtxKeyUserEmail ctxKey = "user_email"
	// CtxKeyClaims carries the full verified claim set.
	CtxKeyClaims ctxKey = "claims"
)

// UserEmailFromContext returns the authenticated caller's email, or "" when
// the request did not pass through AuthnMiddleware.
func UserEmailFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserEmail).(string); ok {
		return v
	}
	return ""
}
