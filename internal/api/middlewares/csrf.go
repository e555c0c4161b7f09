package middlewares

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

const (
	csrfCookie = "elibrary_csrf"
	csrfField  = "csrf_token"
)

const ctxKeyCSRF ctxKey = 2

// CSRF implements the double-submit pattern for the HTML forms: a random
// token rides an HttpOnly cookie, every form embeds the same token in a
// hidden csrf_token field, and mutating requests must present both. SameSite
// on the session cookie already blocks cross-site POSTs in current browsers;
// the token covers the rest.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(csrfCookie); err == nil {
			token = c.Value
		}
		if token == "" {
			token = newCSRFToken()
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		r = r.WithContext(withCSRFToken(r.Context(), token))

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		// FormValue parses urlencoded and multipart bodies alike; the
		// handlers' own ParseMultipartForm is a no-op afterwards.
		provided := r.FormValue(csrfField)
		if provided == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(provided)) != 1 {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CSRFToken returns the token the current form render must embed.
func CSRFToken(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKeyCSRF).(string); ok && v != "" {
		return v
	}
	if c, err := r.Cookie(csrfCookie); err == nil {
		return c.Value
	}
	return ""
}

func withCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeyCSRF, token)
}

func newCSRFToken() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
