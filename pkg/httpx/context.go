package httpx

import "context"

type ctxKey string

const (
	// CtxKeyPhone carries the authenticated phone number (token subject).
	CtxKeyPhone ctxKey = "phone"
	// CtxKeyClaims carries the full jwtx.Claims if a handler needs them.
	CtxKeyClaims ctxKey = "claims"
)

// PhoneFromContext returns the authenticated phone number, or "" when
// the request did not pass through AuthnMiddleware.
func PhoneFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyPhone).(string); ok {
		return v
	}
	return ""
}
