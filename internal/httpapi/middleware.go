package httpapi

import (
	"net/http"

	"busScheduleManagement/internal/auth"
)

// authenticate verifies the bearer token and stores the Principal in the
// request context. The token's claims are trusted as-is on this path; only
// admin routes re-check the store.
func (api *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := api.tokens.ParseFromHeader(r)
		if err != nil {
			api.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}

// requireAdmin wraps a handler with the admin double-check: the token must
// carry the admin role and the user record must still hold it.
func (api *API) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.RequireAdmin(r.Context(), api.users); err != nil {
			api.writeError(w, r, err)
			return
		}
		next(w, r)
	}
}
