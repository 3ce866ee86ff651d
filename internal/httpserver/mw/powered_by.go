package mw

import "net/http"

// PoweredBy sets the X-Powered-By header on every response.
func PoweredBy(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Powered-By", name)
			next.ServeHTTP(w, r)
		})
	}
}
