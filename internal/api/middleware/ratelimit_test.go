package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, cfg *Config) *InMemoryRateLimiter {
	t.Helper()

	rl := NewInMemoryRateLimiter(cfg)
	t.Cleanup(rl.Close)

	return rl
}

func TestAllow_GlobalLimit(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	// Global burst of 2, generous client tier.
	rl := newTestLimiter(t, &Config{
		GlobalRPS:   1,
		GlobalBurst: 2,
		ClientRPS:   100,
		UnAuthRPS:   100,
	})

	if !rl.Allow("client-1") || !rl.Allow("client-1") {
		t.Fatal("Allow() rejected requests within global burst")
	}

	if rl.Allow("client-1") {
		t.Error("Allow() passed a request beyond global burst")
	}
}

func TestAllow_PerClientLimit(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	rl := newTestLimiter(t, &Config{
		GlobalRPS:   1000,
		ClientRPS:   1,
		ClientBurst: 1,
		UnAuthRPS:   1000,
	})

	if !rl.Allow("client-1") {
		t.Fatal("Allow() rejected first request for client-1")
	}

	if rl.Allow("client-1") {
		t.Error("Allow() passed a request beyond client burst")
	}

	// A different client has its own bucket.
	if !rl.Allow("client-2") {
		t.Error("Allow() rejected an unrelated client")
	}
}

func TestAllow_UnauthenticatedTier(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	rl := newTestLimiter(t, &Config{
		GlobalRPS:   1000,
		ClientRPS:   1000,
		UnAuthRPS:   1,
		UnAuthBurst: 1,
	})

	if !rl.Allow("") {
		t.Fatal("Allow() rejected first unauthenticated request")
	}

	if rl.Allow("") {
		t.Error("Allow() passed an unauthenticated request beyond burst")
	}

	// The unauthenticated bucket does not affect authenticated clients.
	if !rl.Allow("client-1") {
		t.Error("Allow() rejected an authenticated client")
	}
}

func TestAllow_ConcurrentClientCreation(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	rl := newTestLimiter(t, &Config{
		GlobalRPS: 10000,
		ClientRPS: 10000,
		UnAuthRPS: 10000,
	})

	var wg sync.WaitGroup

	for range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			rl.Allow("contested-client")
		}()
	}

	wg.Wait()

	rl.mu.RLock()
	defer rl.mu.RUnlock()

	if len(rl.perClient) != 1 {
		t.Errorf("perClient has %d entries, want 1", len(rl.perClient))
	}
}

func TestCleanup_RemovesIdleClients(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	rl := newTestLimiter(t, &Config{
		GlobalRPS:   1000,
		ClientRPS:   1000,
		UnAuthRPS:   1000,
		IdleTimeout: 10 * time.Millisecond,
	})

	rl.Allow("idle-client")

	time.Sleep(20 * time.Millisecond)
	rl.Allow("fresh-client")

	rl.cleanup()

	rl.mu.RLock()
	defer rl.mu.RUnlock()

	if _, ok := rl.perClient["idle-client"]; ok {
		t.Error("cleanup() kept an idle client")
	}

	if _, ok := rl.perClient["fresh-client"]; !ok {
		t.Error("cleanup() removed a fresh client")
	}
}

func TestComputeBurstCapacity(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	if got := computeBurstCapacity(50, 0); got != 100 {
		t.Errorf("computeBurstCapacity(50, 0) = %d, want 100", got)
	}

	if got := computeBurstCapacity(50, 5); got != 5 {
		t.Errorf("computeBurstCapacity(50, 5) = %d, want override 5", got)
	}
}

func TestRateLimitMiddleware_429Response(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	rl := newTestLimiter(t, &Config{
		GlobalRPS:   1,
		GlobalBurst: 1,
		ClientRPS:   1000,
		UnAuthRPS:   1000,
	})

	handler := RateLimit(rl, testLogger())(okHandler())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}

	var problem map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("body is not a problem detail: %v", err)
	}

	if problem["title"] != "Too Many Requests" {
		t.Errorf("problem title = %v, want Too Many Requests", problem["title"])
	}
}

func TestRateLimitMiddleware_UsesClientContext(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	var gotClientID string

	limiter := allowFunc(func(clientID string) bool {
		gotClientID = clientID

		return true
	})

	handler := RateLimit(limiter, testLogger())(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	ctx := SetClientContext(r.Context(), ClientContext{ClientID: "uplink-1"})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r.WithContext(ctx))

	if gotClientID != "uplink-1" {
		t.Errorf("limiter saw client ID %q, want uplink-1", gotClientID)
	}
}

// allowFunc adapts a function to the RateLimiter interface.
type allowFunc func(clientID string) bool

func (f allowFunc) Allow(clientID string) bool { return f(clientID) }
