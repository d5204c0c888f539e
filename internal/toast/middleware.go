package toast

import (
	"net/http"

	"github.com/google/uuid"
)

// CookieName is the visitor session cookie.
const CookieName = "gp_toasts"

// SessionID returns the visitor session id carried by r, if any.
func SessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

// Middleware installs the visitor's Store as the request's Manager,
// assigning a session cookie when the request has none.
func Middleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := SessionID(r)
			if !ok {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Secure:   r.TLS != nil,
				})
			}
			ctx := NewContext(r.Context(), reg.Get(id))
			ctx = WithSession(ctx, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
