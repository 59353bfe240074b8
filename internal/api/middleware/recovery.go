// Package middleware provides HTTP middleware components for the alembic API.
package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery creates a middleware that turns downstream panics into logged
// 500 responses instead of torn connections. The stack trace goes to the
// log only; the response carries a generic RFC 7807 body.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				correlationID := GetCorrelationID(r.Context())

				logger.Error("HTTP request panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("correlation_id", correlationID),
					slog.Any("panic", rec),
					slog.String("stack_trace", string(debug.Stack())),
				)

				problem := map[string]any{
					"type":          fmt.Sprintf("https://alembic.io/problems/%d", http.StatusInternalServerError),
					"title":         "Internal Server Error",
					"status":        http.StatusInternalServerError,
					"detail":        "An unexpected error occurred while processing the request",
					"instance":      r.URL.Path,
					"correlationId": correlationID,
				}

				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(http.StatusInternalServerError)

				if err := json.NewEncoder(w).Encode(problem); err != nil {
					logger.Error("Failed to encode panic response",
						slog.Any("error", err),
						slog.String("correlation_id", correlationID),
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
