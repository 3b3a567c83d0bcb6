package middleware

import (
	"net/http"
	"strings"
)

// TrimSlash strips a trailing slash from the request path before routing.
// The path is rewritten in place instead of redirected so POST bodies survive.
// The root path "/" is preserved.
func TrimSlash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > 1 && strings.HasSuffix(r.URL.Path, "/") {
				r2 := r.Clone(r.Context())
				r2.URL.Path = strings.TrimRight(r.URL.Path, "/")
				if r2.URL.Path == "" {
					r2.URL.Path = "/"
				}
				r2.URL.RawPath = ""
				next.ServeHTTP(w, r2)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
