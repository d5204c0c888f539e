package auth

import (
	"context"
	"net/http"
	"strings"

	apperrors "greenpark/internal/errors"
)

type claimsKey struct{}

// AdminFromContext returns the claims installed by AdminAuthMiddleware.
func AdminFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// AdminAuthMiddleware rejects requests without a valid bearer token.
func AdminAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				apperrors.Write(w, apperrors.ErrUnauthorized("missing bearer token"))
				return
			}
			claims, err := ParseToken(secret, raw)
			if err != nil {
				apperrors.Write(w, apperrors.ErrUnauthorized("invalid token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}
