package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alembic-io/alembic/internal/api/middleware"
	"github.com/alembic-io/alembic/internal/apikey"
	"github.com/alembic-io/alembic/internal/dedup"
	"github.com/alembic-io/alembic/internal/pipeline"
	"github.com/alembic-io/alembic/internal/queue"
)

// newWiredServer builds a server through NewServer so the full middleware
// chain and routing are exercised, without binding a listener.
func newWiredServer(t *testing.T, store apikey.Store) *Server {
	t.Helper()

	pipe := pipeline.New(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		dedup.NewPotionCache(),
		queue.NewDeliveryQueue(),
		pipeline.Config{},
	)
	t.Cleanup(pipe.Close)

	return NewServer(LoadServerConfig(), pipe, nil, store, nil)
}

func seededStore(t *testing.T) (apikey.Store, string) {
	t.Helper()

	key, err := apikey.GenerateAPIKey("test-client")
	require.NoError(t, err)

	store := apikey.NewInMemoryStore()
	require.NoError(t, store.Add(&apikey.Key{
		ID:       "key-1",
		Key:      key,
		ClientID: "test-client",
		Active:   true,
	}))

	return store, key
}

func TestServer_PublicEndpointsBypassAuth(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	store, _ := seededStore(t)
	s := newWiredServer(t, store)

	for _, path := range []string{"/ping", "/ready", "/api/v1/health", "/api/v1/version"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestServer_ProtectedEndpointRequiresKey(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	store, key := seededStore(t)
	s := newWiredServer(t, store)

	// Without a key the request is rejected.
	r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// With the seeded key it passes.
	r = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	r.Header.Set("X-Api-Key", key)

	w = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_IngestThroughFullChain(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	store, key := seededStore(t)
	s := newWiredServer(t, store)

	body := `[{"facets": [
		{"kind": "name", "text": "Yarrow"},
		{"kind": "heal", "wound": {"tooltip": "Aching Joints"}}
	]}]`

	r := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+key)

	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestServer_NilStoreDisablesAuth(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	s := newWiredServer(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_RateLimited(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	limiter := middleware.NewInMemoryRateLimiter(&middleware.Config{
		GlobalRPS:   1,
		GlobalBurst: 1,
		ClientRPS:   1000,
		UnAuthRPS:   1000,
	})
	t.Cleanup(limiter.Close)

	pipe := pipeline.New(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		dedup.NewPotionCache(),
		queue.NewDeliveryQueue(),
		pipeline.Config{},
	)
	t.Cleanup(pipe.Close)

	s := NewServer(LoadServerConfig(), pipe, nil, nil, limiter)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)

	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
