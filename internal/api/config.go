// Package api provides the HTTP API server for the alembic service.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alembic-io/alembic/internal/config"
)

const (
	defaultPort           = 8080
	maxPort               = 65535
	defaultHost           = "0.0.0.0"
	defaultTimeout        = 30 * time.Second
	defaultLogLevel       = slog.LevelInfo
	defaultMaxRequestSize = int64(1 << 20) // 1 MB
	defaultCORSMaxAge     = 86400

	// "*" is a development default and should be restricted in production.
	defaultCORSOrigins = "*"
	defaultCORSMethods = "GET,POST,OPTIONS"
	defaultCORSHeaders = "Content-Type,Authorization,X-Correlation-ID,X-API-Key"
)

var (
	// ErrInvalidPort indicates the port number is outside valid range (1-65535).
	ErrInvalidPort = errors.New("invalid port")

	// ErrEmptyHost indicates the server host address is empty.
	ErrEmptyHost = errors.New("host cannot be empty")

	// ErrInvalidReadTimeout indicates the read timeout is zero or negative.
	ErrInvalidReadTimeout = errors.New("read timeout must be positive")

	// ErrInvalidWriteTimeout indicates the write timeout is zero or negative.
	ErrInvalidWriteTimeout = errors.New("write timeout must be positive")

	// ErrInvalidShutdownTimeout indicates the shutdown timeout is zero or negative.
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")

	// ErrInvalidMaxRequestSize indicates the max request size is zero or negative.
	ErrInvalidMaxRequestSize = errors.New("max request size must be positive")
)

type (
	// ServerConfig holds HTTP server configuration. Pure data, no runtime
	// dependencies.
	ServerConfig struct {
		Port               int
		Host               string
		ReadTimeout        time.Duration
		WriteTimeout       time.Duration
		ShutdownTimeout    time.Duration
		LogLevel           slog.Level
		MaxRequestSize     int64
		CORSAllowedOrigins []string
		CORSAllowedMethods []string
		CORSAllowedHeaders []string
		CORSMaxAge         int
	}

	// CORSConfig is the CORS subset of the server configuration, shaped to
	// satisfy the middleware.CORSConfig interface.
	CORSConfig struct {
		AllowedOrigins []string
		AllowedMethods []string
		AllowedHeaders []string
		MaxAge         int
	}
)

// LoadServerConfig reads server configuration from ALEMBIC_* environment
// variables, falling back to defaults for anything unset.
func LoadServerConfig() *ServerConfig {
	cfg := &ServerConfig{
		Port:            config.GetEnvInt("ALEMBIC_SERVER_PORT", defaultPort),
		Host:            config.GetEnvStr("ALEMBIC_SERVER_HOST", defaultHost),
		ReadTimeout:     config.GetEnvDuration("ALEMBIC_SERVER_READ_TIMEOUT", defaultTimeout),
		WriteTimeout:    config.GetEnvDuration("ALEMBIC_SERVER_WRITE_TIMEOUT", defaultTimeout),
		ShutdownTimeout: config.GetEnvDuration("ALEMBIC_SERVER_TIMEOUT", defaultTimeout),
		LogLevel:        config.GetEnvLogLevel("ALEMBIC_SERVER_LOG_LEVEL", defaultLogLevel),
		MaxRequestSize:  config.GetEnvInt64("ALEMBIC_MAX_REQUEST_SIZE", defaultMaxRequestSize),
		CORSMaxAge:      config.GetEnvInt("ALEMBIC_CORS_MAX_AGE", defaultCORSMaxAge),
	}

	cfg.CORSAllowedOrigins = corsListFromEnv("ALEMBIC_CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
	cfg.CORSAllowedMethods = corsListFromEnv("ALEMBIC_CORS_ALLOWED_METHODS", defaultCORSMethods)
	cfg.CORSAllowedHeaders = corsListFromEnv("ALEMBIC_CORS_ALLOWED_HEADERS", defaultCORSHeaders)

	return cfg
}

// corsListFromEnv reads a comma-separated environment variable into a slice.
func corsListFromEnv(key, fallback string) []string {
	return config.ParseCommaSeparatedList(config.GetEnvStr(key, fallback))
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ToCORSConfig extracts the CORS fields for the middleware chain.
func (c *ServerConfig) ToCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: c.CORSAllowedOrigins,
		AllowedMethods: c.CORSAllowedMethods,
		AllowedHeaders: c.CORSAllowedHeaders,
		MaxAge:         c.CORSMaxAge,
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > maxPort {
		return fmt.Errorf("%w: %d, must be between 1 and %d", ErrInvalidPort, c.Port, maxPort)
	}

	if c.Host == "" {
		return ErrEmptyHost
	}

	for _, check := range []struct {
		ok  bool
		err error
		got any
	}{
		{c.ReadTimeout > 0, ErrInvalidReadTimeout, c.ReadTimeout},
		{c.WriteTimeout > 0, ErrInvalidWriteTimeout, c.WriteTimeout},
		{c.ShutdownTimeout > 0, ErrInvalidShutdownTimeout, c.ShutdownTimeout},
		{c.MaxRequestSize > 0, ErrInvalidMaxRequestSize, c.MaxRequestSize},
	} {
		if !check.ok {
			return fmt.Errorf("%w: got %v", check.err, check.got)
		}
	}

	return nil
}

// GetAllowedOrigins returns the allowed origins for CORS.
func (c *CORSConfig) GetAllowedOrigins() []string { return c.AllowedOrigins }

// GetAllowedMethods returns the allowed methods for CORS.
func (c *CORSConfig) GetAllowedMethods() []string { return c.AllowedMethods }

// GetAllowedHeaders returns the allowed headers for CORS.
func (c *CORSConfig) GetAllowedHeaders() []string { return c.AllowedHeaders }

// GetMaxAge returns the preflight cache lifetime in seconds.
func (c *CORSConfig) GetMaxAge() int { return c.MaxAge }
