package apikey

import (
	"strings"
	"testing"
	"time"
)

func mustGenerateKey(t *testing.T) string {
	t.Helper()

	key, err := GenerateAPIKey("test-client")
	if err != nil {
		t.Fatalf("GenerateAPIKey() error: %v", err)
	}

	return key
}

func TestGenerateAPIKey(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	key := mustGenerateKey(t)

	if !strings.HasPrefix(key, "alembic_ak_") {
		t.Errorf("key %q missing alembic_ak_ prefix", key)
	}

	if len(key) != apiKeyLength {
		t.Errorf("key length = %d, want %d", len(key), apiKeyLength)
	}

	// Two generations must never collide.
	if key == mustGenerateKey(t) {
		t.Error("GenerateAPIKey() produced duplicate keys")
	}

	if _, err := GenerateAPIKey(""); err == nil {
		t.Error("GenerateAPIKey() accepted empty client ID")
	}
}

func TestParseAPIKey(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	valid := mustGenerateKey(t)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain key", valid, valid, nil},
		{"bearer prefix stripped", "Bearer " + valid, valid, nil},
		{"empty", "", "", ErrKeyStringEmpty},
		{"wrong prefix", "other_ak_" + strings.Repeat("a", 64), "", ErrInvalidKeyFormat},
		{"too short", "alembic_ak_abc", "", ErrInvalidKeyLength},
		{"too long", valid + "ff", "", ErrInvalidKeyLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAPIKey(tt.input)
			if err != tt.wantErr {
				t.Fatalf("ParseAPIKey() error = %v, want %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("ParseAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaskKey(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	key := mustGenerateKey(t)
	masked := MaskKey(key)

	if len(masked) != len(key) {
		t.Errorf("masked length = %d, want %d", len(masked), len(key))
	}

	if !strings.HasPrefix(masked, key[:prefixLen]) {
		t.Error("mask hides the key prefix")
	}

	if !strings.HasSuffix(masked, key[len(key)-suffixLen:]) {
		t.Error("mask hides the key suffix")
	}

	if strings.Contains(masked, key[prefixLen:len(key)-suffixLen]) {
		t.Error("mask exposes the key body")
	}

	// Non-standard lengths are masked completely.
	if got := MaskKey("short"); got != "*****" {
		t.Errorf("MaskKey(short) = %q, want full mask", got)
	}

	if got := MaskKey(""); got != "" {
		t.Errorf("MaskKey(\"\") = %q, want empty", got)
	}
}

func TestValidateKey(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	keyString := mustGenerateKey(t)

	hash, err := HashKey(keyString)
	if err != nil {
		t.Fatalf("HashKey() error: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name     string
		key      Key
		provided string
		want     bool
	}{
		{"valid active key", Key{Key: hash, Active: true}, keyString, true},
		{"valid with future expiry", Key{Key: hash, Active: true, ExpiresAt: &future}, keyString, true},
		{"wrong key", Key{Key: hash, Active: true}, mustGenerateKey(t), false},
		{"inactive", Key{Key: hash, Active: false}, keyString, false},
		{"expired", Key{Key: hash, Active: true, ExpiresAt: &past}, keyString, false},
		{"empty provided", Key{Key: hash, Active: true}, "", false},
		{"empty stored", Key{Active: true}, keyString, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.ValidateKey(tt.provided); got != tt.want {
				t.Errorf("ValidateKey() = %v, want %v", got, tt.want)
			}
		})
	}
}
