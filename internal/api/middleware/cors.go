// Package middleware provides HTTP middleware components for the alembic API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig abstracts the CORS settings so this package does not import the
// api package that defines them.
type CORSConfig interface {
	GetAllowedOrigins() []string
	GetAllowedMethods() []string
	GetAllowedHeaders() []string
	GetMaxAge() int
}

// CORS creates a middleware that handles Cross-Origin Resource Sharing.
// Preflight OPTIONS requests are answered with 204 and never reach the
// wrapped handler.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			applyCORSHeaders(w, r, config)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// applyCORSHeaders writes the CORS response headers for the request.
// Origin matching is exact; a lone "*" allows everything.
func applyCORSHeaders(w http.ResponseWriter, r *http.Request, config CORSConfig) {
	header := w.Header()

	if origin := resolveAllowedOrigin(r, config.GetAllowedOrigins()); origin != "" {
		header.Set("Access-Control-Allow-Origin", origin)
	}

	if methods := config.GetAllowedMethods(); len(methods) > 0 {
		header.Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))
	}

	if headers := config.GetAllowedHeaders(); len(headers) > 0 {
		header.Set("Access-Control-Allow-Headers", strings.Join(headers, ", "))
	}

	if maxAge := config.GetMaxAge(); maxAge > 0 {
		header.Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
	}
}

// resolveAllowedOrigin returns the Access-Control-Allow-Origin value for the
// request, or empty when the request origin is not allowed.
func resolveAllowedOrigin(r *http.Request, allowedOrigins []string) string {
	if len(allowedOrigins) == 0 {
		return ""
	}

	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		return "*"
	}

	origin := r.Header.Get("Origin")
	for _, allowed := range allowedOrigins {
		if origin == allowed {
			return origin
		}
	}

	return ""
}
