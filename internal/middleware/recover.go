package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JaimeStill/anytomarkdown/pkg/handlers"
)

// InternalErrorMessage is returned to clients when a handler panics.
const InternalErrorMessage = "Internal server error."

// Recover converts a panic escaping the wrapped handler into a 500 failure envelope.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("handler panic",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				handlers.RespondJSON(w, http.StatusInternalServerError, handlers.Fail(InternalErrorMessage))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
