package http

import "net/http"

// RequireHeader enforces the pre-shared auth header on every request. An
// empty header key disables the check (local development).
func RequireHeader(key, value string, next http.Handler) http.Handler {
	if key == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(key) != value {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
