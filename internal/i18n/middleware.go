package i18n

import "net/http"

// Middleware injects a localizer built from the request's Accept-Language
// header, falling back to DefaultLang, into every request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc := NewLocalizer(r.Header.Get("Accept-Language"), DefaultLang)
		next.ServeHTTP(w, r.WithContext(WithLocalizer(r.Context(), loc)))
	})
}
