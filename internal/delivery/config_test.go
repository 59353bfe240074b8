package delivery

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	cfg := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	if cfg.FlushInterval != defaultFlushInterval {
		t.Errorf("FlushInterval = %v, want %v", cfg.FlushInterval, defaultFlushInterval)
	}

	if cfg.HTTPTimeout != defaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, defaultHTTPTimeout)
	}

	if cfg.PostsPerMinute != defaultPostsPerMin {
		t.Errorf("PostsPerMinute = %d, want %d", cfg.PostsPerMinute, defaultPostsPerMin)
	}

	if cfg.EndpointConfigured() {
		t.Error("EndpointConfigured() = true for empty endpoint")
	}

	if cfg.KafkaConfigured() {
		t.Error("KafkaConfigured() = true with no brokers")
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	path := filepath.Join(t.TempDir(), ".alembic.yaml")

	content := []byte(`endpoint: https://codex.example.com/api/items
token: " secret-token "
flush_interval: 30s
posts_per_minute: 10
kafka_brokers:
  - localhost:9092
kafka_topic: codex.records
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := LoadConfig(path)

	if cfg.Endpoint != "https://codex.example.com/api/items" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}

	if !cfg.EndpointConfigured() {
		t.Error("EndpointConfigured() = false for configured endpoint")
	}

	if got := cfg.BearerToken(); got != "secret-token" {
		t.Errorf("BearerToken() = %q, want trimmed %q", got, "secret-token")
	}

	if cfg.FlushInterval != 30*time.Second {
		t.Errorf("FlushInterval = %v, want 30s", cfg.FlushInterval)
	}

	if cfg.PostsPerMinute != 10 {
		t.Errorf("PostsPerMinute = %d, want 10", cfg.PostsPerMinute)
	}

	if !cfg.KafkaConfigured() {
		t.Error("KafkaConfigured() = false with brokers and topic set")
	}
}

func TestLoadConfig_InvalidYAMLDegradesGracefully(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	path := filepath.Join(t.TempDir(), ".alembic.yaml")
	if err := os.WriteFile(path, []byte("{not yaml:::"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := LoadConfig(path)

	// Broken config file must not stop ingestion; defaults survive.
	if cfg.FlushInterval != defaultFlushInterval {
		t.Errorf("FlushInterval = %v, want default %v", cfg.FlushInterval, defaultFlushInterval)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	t.Setenv("ALEMBIC_CODEX_ENDPOINT", "https://override.example.com")
	t.Setenv("ALEMBIC_FLUSH_INTERVAL", "5s")
	t.Setenv("ALEMBIC_KAFKA_BROKERS", "b1:9092, b2:9092")
	t.Setenv("ALEMBIC_KAFKA_TOPIC", "codex.records")

	cfg := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	if cfg.Endpoint != "https://override.example.com" {
		t.Errorf("Endpoint = %q, want env override", cfg.Endpoint)
	}

	if cfg.FlushInterval != 5*time.Second {
		t.Errorf("FlushInterval = %v, want 5s", cfg.FlushInterval)
	}

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "b1:9092" || cfg.KafkaBrokers[1] != "b2:9092" {
		t.Errorf("KafkaBrokers = %v, want [b1:9092 b2:9092]", cfg.KafkaBrokers)
	}

	if !cfg.KafkaConfigured() {
		t.Error("KafkaConfigured() = false with env brokers and topic")
	}
}

func TestEndpointConfigured_MinimumLength(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	// "http" is 4 chars, below the minimum; "https" is exactly at it, and
	// surrounding whitespace is trimmed before measuring.
	tests := []struct {
		endpoint string
		want     bool
	}{
		{"", false},
		{"   ", false},
		{"http", false},
		{"https", true},
		{"  https  ", true},
		{"https://codex", true},
	}

	for _, tt := range tests {
		cfg := &Config{Endpoint: tt.endpoint}
		if got := cfg.EndpointConfigured(); got != tt.want {
			t.Errorf("EndpointConfigured(%q) = %v, want %v", tt.endpoint, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	cfg := &Config{FlushInterval: time.Second}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	cfg.FlushInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted zero flush interval")
	}
}
