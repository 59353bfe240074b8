// Package delivery ships accumulated records to the configured codex
// transports on a fixed schedule.
package delivery

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alembic-io/alembic/internal/config"
)

const (
	// minEndpointLength is the minimal trimmed endpoint length for the
	// HTTP transport to count as configured.
	minEndpointLength = 5

	defaultFlushInterval = 10 * time.Second
	defaultHTTPTimeout   = 15 * time.Second
	defaultPostsPerMin   = 30
)

// DefaultConfigPath is the default location for the delivery configuration
// file. Hidden-file format following common tool conventions.
const DefaultConfigPath = ".alembic.yaml"

// ConfigPathEnvVar is the environment variable name for a custom config
// file path.
const ConfigPathEnvVar = "ALEMBIC_CONFIG_PATH"

// ErrInvalidFlushInterval indicates the flush interval is zero or negative.
var ErrInvalidFlushInterval = errors.New("flush interval must be positive")

type (
	// Config holds delivery configuration for all transports.
	Config struct {
		// Endpoint is the codex HTTP endpoint URL. Considered configured
		// only when its trimmed length is at least minEndpointLength.
		Endpoint string `yaml:"endpoint"`

		// Token is the optional bearer token. Trimmed before use; empty
		// after trimming means no Authorization header is sent.
		Token string `yaml:"token"`

		// FlushInterval is the flusher period. The first flush fires one
		// full interval after startup (warm-up).
		FlushInterval time.Duration `yaml:"flush_interval"`

		// HTTPTimeout bounds each outbound POST. On timeout the batch is
		// lost, per the at-most-once delivery policy.
		HTTPTimeout time.Duration `yaml:"http_timeout"`

		// PostsPerMinute caps outbound POST frequency on the HTTP sink.
		PostsPerMinute int `yaml:"posts_per_minute"`

		// KafkaBrokers lists optional Kafka bootstrap addresses. Empty
		// disables the Kafka transport.
		KafkaBrokers []string `yaml:"kafka_brokers"`

		// KafkaTopic is the topic for the Kafka transport.
		KafkaTopic string `yaml:"kafka_topic"`
	}
)

// LoadConfig loads delivery configuration from the optional YAML file, then
// applies environment variable overrides with sensible defaults.
//
// Behavior mirrors the config-file conventions elsewhere in the codebase:
//   - Missing file is fine; delivery can be configured purely from env
//   - Invalid YAML logs a warning and continues with env/defaults
//     (graceful degradation; a broken config file must not stop ingestion)
func LoadConfig(path string) *Config {
	cfg := &Config{
		FlushInterval:  defaultFlushInterval,
		HTTPTimeout:    defaultHTTPTimeout,
		PostsPerMinute: defaultPostsPerMin,
	}

	if data, err := os.ReadFile(path); err != nil { //nolint:gosec // path is from trusted config source
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to read delivery config file, continuing with env/defaults",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	} else if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			slog.Warn("Failed to parse delivery config file, continuing with env/defaults",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}

	cfg.Endpoint = config.GetEnvStr("ALEMBIC_CODEX_ENDPOINT", cfg.Endpoint)
	cfg.Token = config.GetEnvStr("ALEMBIC_CODEX_TOKEN", cfg.Token)
	cfg.FlushInterval = config.GetEnvDuration("ALEMBIC_FLUSH_INTERVAL", cfg.FlushInterval)
	cfg.HTTPTimeout = config.GetEnvDuration("ALEMBIC_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.PostsPerMinute = config.GetEnvInt("ALEMBIC_POSTS_PER_MINUTE", cfg.PostsPerMinute)

	if brokers := config.GetEnvStr("ALEMBIC_KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = config.ParseCommaSeparatedList(brokers)
	}

	cfg.KafkaTopic = config.GetEnvStr("ALEMBIC_KAFKA_TOPIC", cfg.KafkaTopic)

	return cfg
}

// ConfigPath returns the delivery config file path from the environment, or
// the default.
func ConfigPath() string {
	return config.GetEnvStr(ConfigPathEnvVar, DefaultConfigPath)
}

// EndpointConfigured reports whether the HTTP transport has a usable
// endpoint.
func (c *Config) EndpointConfigured() bool {
	return len(strings.TrimSpace(c.Endpoint)) >= minEndpointLength
}

// BearerToken returns the trimmed bearer token; empty means no
// Authorization header.
func (c *Config) BearerToken() string {
	return strings.TrimSpace(c.Token)
}

// KafkaConfigured reports whether the Kafka transport is enabled.
func (c *Config) KafkaConfigured() bool {
	return len(c.KafkaBrokers) > 0 && strings.TrimSpace(c.KafkaTopic) != ""
}

// Validate checks configuration invariants that would break the flusher.
func (c *Config) Validate() error {
	if c.FlushInterval <= 0 {
		return ErrInvalidFlushInterval
	}

	return nil
}
