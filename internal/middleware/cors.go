package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/JaimeStill/anytomarkdown/internal/config"
)

// CORS attaches cross-origin headers and answers preflight requests.
//
// With a wildcard origin configured, Access-Control-Allow-Origin is "*". Otherwise a
// request Origin found in the configured list is echoed back. Requests from other
// origins receive no CORS headers. OPTIONS requests on any path end here with
// 204 No Content and never reach the wrapped handler.
func CORS(cfg *config.CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := allowedOrigin(cfg, r.Header.Get("Origin")); origin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				if origin != config.WildcardOrigin {
					h.Add("Vary", "Origin")
				}
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", maxAge)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allowedOrigin(cfg *config.CORSConfig, origin string) string {
	if len(cfg.Origins) == 0 {
		return ""
	}
	if cfg.AllowsAny() {
		return config.WildcardOrigin
	}
	if origin != "" && slices.Contains(cfg.Origins, origin) {
		return origin
	}
	return ""
}
