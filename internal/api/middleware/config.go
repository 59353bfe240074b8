// Package middleware provides HTTP middleware components for the alembic API.
package middleware

import (
	"time"

	"github.com/alembic-io/alembic/internal/config"
)

// Config holds rate limiter settings for the three limiter tiers: global
// (all requests), per-client (authenticated requests), and unauthenticated
// (requests without a client ID).
//
// Rates are requests per second. A burst field left at 0 is computed as
// 2 × its rate by computeBurstCapacity, allowing a two-second burst above
// the sustained rate.
type Config struct {
	GlobalRPS int
	ClientRPS int
	UnAuthRPS int

	GlobalBurst int
	ClientBurst int
	UnAuthBurst int

	// CleanupInterval is how often idle per-client limiters are swept;
	// IdleTimeout is how long a client must be quiet before its limiter is
	// removed. MaxClients caps the per-client limiter map.
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	MaxClients      int
}

// LoadConfig reads rate limiter settings from ALEMBIC_* environment
// variables, falling back to the package defaults (100/50/10 RPS,
// auto-computed bursts, 5 minute sweeps of clients idle over an hour).
func LoadConfig() *Config {
	return &Config{
		GlobalRPS: config.GetEnvInt("ALEMBIC_GLOBAL_RPS", defaultGlobalRPS),
		ClientRPS: config.GetEnvInt("ALEMBIC_CLIENT_RPS", defaultClientRPS),
		UnAuthRPS: config.GetEnvInt("ALEMBIC_UNAUTH_RPS", defaultUnAuthRPS),

		GlobalBurst: config.GetEnvInt("ALEMBIC_GLOBAL_BURST", 0),
		ClientBurst: config.GetEnvInt("ALEMBIC_CLIENT_BURST", 0),
		UnAuthBurst: config.GetEnvInt("ALEMBIC_UNAUTH_BURST", 0),

		CleanupInterval: config.GetEnvDuration(
			"ALEMBIC_RATE_LIMIT_CLEANUP_INTERVAL", rateLimiterCleanupInterval,
		),
		IdleTimeout: config.GetEnvDuration("ALEMBIC_RATE_LIMIT_IDLE_TIMEOUT", rateLimiterIdleTimeout),
		MaxClients:  config.GetEnvInt("ALEMBIC_RATE_LIMIT_MAX_CLIENTS", maxClients),
	}
}
