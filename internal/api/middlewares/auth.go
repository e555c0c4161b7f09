package middlewares

import (
	"net/http"

	"github.com/openshelf/elibrary/internal/session"
)

// LoadSession resolves the session cookie, if present, and attaches the
// session to the request context. Anonymous requests pass through untouched.
func LoadSession(sm *session.Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := sm.Get(r.Context(), r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// RequireSession gates mutating routes: without a live session the caller is
// sent to the login page before any business logic runs.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r.Context()); !ok {
			http.Redirect(w, r, "/login/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
