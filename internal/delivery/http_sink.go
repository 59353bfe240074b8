package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/alembic-io/alembic/internal/queue"
	"github.com/alembic-io/alembic/internal/record"
)

// userAgent is the fixed User-Agent sent on every codex POST.
const userAgent = "alembic-uplink/1.0"

const secondsPerMinute = 60

// HTTPDoer abstracts the HTTP client for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSink POSTs each batch to the codex endpoint as a JSON array of
// records. One request per batch; non-2xx responses and transport errors
// are reported to the flusher, which drops the batch either way.
type HTTPSink struct {
	endpoint string
	token    string
	client   HTTPDoer
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewHTTPSink creates the HTTP transport for the given delivery config.
// Returns nil when the endpoint is not configured; a nil sink is simply
// not registered with the flusher, which then leaves the queue undrained.
//
// Parameters:
//   - cfg: delivery configuration (endpoint, token, timeout, rate cap)
//   - client: HTTP client implementation (nil selects a default client
//     bounded by cfg.HTTPTimeout)
//   - logger: structured logger for per-batch diagnostics
func NewHTTPSink(cfg *Config, client HTTPDoer, logger *slog.Logger) *HTTPSink {
	if !cfg.EndpointConfigured() {
		return nil
	}

	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	postsPerMinute := cfg.PostsPerMinute
	if postsPerMinute <= 0 {
		postsPerMinute = defaultPostsPerMin
	}

	return &HTTPSink{
		endpoint: strings.TrimSpace(cfg.Endpoint),
		token:    cfg.BearerToken(),
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(float64(postsPerMinute)/secondsPerMinute), 1),
		logger:   logger,
	}
}

// Name implements Sink.
func (s *HTTPSink) Name() string { return "http" }

// Deliver implements Sink. It serializes the batch as a JSON array and
// issues a single POST with a fixed User-Agent, an optional bearer token,
// and a uuid batch id for correlation with codex-side logs.
func (s *HTTPSink) Deliver(ctx context.Context, batch []queue.Entry) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	records := make([]record.Record, len(batch))
	for i, entry := range batch {
		records[i] = entry.Record
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("serialize batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build codex request: %w", err)
	}

	batchID := uuid.NewString()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Batch-ID", batchID)

	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post batch %s: %w", batchID, err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("post batch %s: unexpected status %d", batchID, resp.StatusCode)
	}

	s.logger.Debug("Batch delivered",
		slog.String("sink", s.Name()),
		slog.String("batch_id", batchID),
		slog.Int("records", len(batch)),
		slog.Int("status_code", resp.StatusCode),
	)

	return nil
}
