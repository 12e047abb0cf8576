package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/srihealth/srihealth/pkg/jwtx"
	"github.com/srihealth/srihealth/pkg/slogx"
)

// AuthnMiddleware resolves a bearer token to a caller identity. Every failure
// mode, including a missing header, a bad signature or an expired token,
// produces the same 401 so callers cannot probe which check tripped.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				// Expired vs invalid is logged but never surfaced.
				if errors.Is(err, jwtx.ErrExpired) {
					log.Info("jwt expired")
				} else {
					log.Warn("jwt verify failed", "err", err)
				}
				writeBearerError(w)
				return
			}

			// A signed token without a subject should be impossible, the
			// signer refuses to mint one. Check anyway.
			if claims.Subject == "" {
				log.Warn("jwt accepted without subject claim")
				writeBearerError(w)
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserEmail, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-compliant error response for bearer auth. The description is the
// same for every rejection on purpose.
func writeBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="invalid or expired token"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid or expired token"})
}
