package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"coursecraft/internal/httputil"
)

// Recovery converts a handler panic into a 500 response instead of letting
// it tear down the connection. The stack goes to the error log so the
// failure is diagnosable from logs alone.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logger.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
