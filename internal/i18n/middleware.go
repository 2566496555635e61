package i18n

import (
	"context"
	"net/http"
)

// Middleware injects the locale for the given language into every request context.
func Middleware(lang string) func(http.Handler) http.Handler {
	l := newLocale(lang)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKey{}, l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
