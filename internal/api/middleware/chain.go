// Package middleware provides HTTP middleware components for the alembic API.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alembic-io/alembic/internal/apikey"
)

// Option is a single link in the middleware chain.
type Option func(http.Handler) http.Handler

// noop leaves the handler untouched. Returned by options whose dependency
// (key store, rate limiter) is not configured.
func noop(next http.Handler) http.Handler { return next }

// Apply wraps handler with the given options. Options are applied in reverse
// so the first one listed becomes the outermost middleware, meaning the chain
// reads top-down in request order:
//
//	handler := middleware.Apply(mux,
//	    middleware.WithCorrelationID(),
//	    middleware.WithRecovery(logger),
//	    middleware.WithClientAuth(store, logger),
//	    middleware.WithRateLimit(limiter, logger),
//	    middleware.WithRequestLogger(logger),
//	    middleware.WithCORS(corsConfig),
//	)
func Apply(handler http.Handler, options ...Option) http.Handler {
	for i := len(options) - 1; i >= 0; i-- {
		handler = options[i](handler)
	}

	return handler
}

// WithCorrelationID threads an X-Correlation-ID through every request.
func WithCorrelationID() Option {
	return CorrelationID()
}

// WithRecovery converts downstream panics into logged 500 responses.
func WithRecovery(logger *slog.Logger) Option {
	return Recovery(logger)
}

// WithClientAuth enforces API key authentication. A nil store disables
// authentication entirely.
func WithClientAuth(store apikey.Store, logger *slog.Logger) Option {
	if store == nil {
		return noop
	}

	return AuthenticateClient(store, logger)
}

// WithRateLimit applies the tiered rate limiter. A nil limiter disables
// rate limiting entirely.
func WithRateLimit(limiter RateLimiter, logger *slog.Logger) Option {
	if limiter == nil {
		return noop
	}

	return RateLimit(limiter, logger)
}

// WithRequestLogger logs one completion line per request.
func WithRequestLogger(logger *slog.Logger) Option {
	return RequestLogger(logger)
}

// WithCORS handles cross-origin requests and preflight.
func WithCORS(config CORSConfig) Option {
	return CORS(config)
}
