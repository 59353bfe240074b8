package delivery

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alembic-io/alembic/internal/queue"
)

type (
	// Flusher is the recurring background task that drains the delivery
	// queue and ships each batch through every configured sink.
	//
	// Delivery is at-most-once: a drained batch is handed to the sinks
	// exactly once and never re-enqueued, whatever the outcome. When no
	// sink is configured the queue is deliberately left undrained so
	// entries survive until a transport appears.
	Flusher struct {
		queue    *queue.DeliveryQueue
		sinks    []Sink
		interval time.Duration
		logger   *slog.Logger

		ticks     atomic.Uint64
		batches   atomic.Uint64
		delivered atomic.Uint64
		failures  atomic.Uint64
	}

	// FlushStats is a point-in-time snapshot of flusher counters.
	FlushStats struct {
		// Ticks counts timer fires, including no-op ones.
		Ticks uint64 `json:"ticks"`
		// Batches counts non-empty drains.
		Batches uint64 `json:"batches"`
		// Delivered counts records successfully shipped, summed over
		// sinks.
		Delivered uint64 `json:"delivered"`
		// Failures counts per-sink delivery failures (dropped batches).
		Failures uint64 `json:"failures"`
	}
)

// NewFlusher creates a flusher over the given queue and sinks. Nil sinks
// are skipped, so callers can pass constructors' results directly.
func NewFlusher(deliveryQueue *queue.DeliveryQueue, interval time.Duration, logger *slog.Logger, sinks ...Sink) *Flusher {
	configured := make([]Sink, 0, len(sinks))

	for _, sink := range sinks {
		switch s := sink.(type) {
		case *HTTPSink:
			if s != nil {
				configured = append(configured, s)
			}
		case *KafkaSink:
			if s != nil {
				configured = append(configured, s)
			}
		default:
			if sink != nil {
				configured = append(configured, sink)
			}
		}
	}

	return &Flusher{
		queue:    deliveryQueue,
		sinks:    configured,
		interval: interval,
		logger:   logger,
	}
}

// Run executes the flush loop until ctx is cancelled. The first flush fires
// one full interval after Run starts (warm-up); there is no flush on
// shutdown; whatever remains queued is lost with the process, matching the
// no-persistence model.
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.logger.Info("Flusher started",
		slog.Duration("interval", f.interval),
		slog.Int("sinks", len(f.sinks)),
	)

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("Flusher stopped")

			return
		case <-ticker.C:
			f.Flush(ctx)
		}
	}
}

// Flush performs one tick: skip when no sink is configured or the queue is
// empty; otherwise drain once and deliver the batch through every sink.
// Exposed for tests and for a final voluntary flush from callers that want
// one before shutdown.
func (f *Flusher) Flush(ctx context.Context) {
	f.ticks.Add(1)

	// No transport: leave the queue intact for a later tick.
	if len(f.sinks) == 0 {
		return
	}

	if f.queue.Len() == 0 {
		return
	}

	batch := f.queue.DrainAll()
	if len(batch) == 0 {
		return
	}

	f.batches.Add(1)

	for _, sink := range f.sinks {
		if err := sink.Deliver(ctx, batch); err != nil {
			f.failures.Add(1)
			f.logger.Warn("Batch delivery failed, dropping batch",
				slog.String("sink", sink.Name()),
				slog.Int("records", len(batch)),
				slog.String("error", err.Error()),
			)

			continue
		}

		f.delivered.Add(uint64(len(batch)))
	}
}

// Stats returns a snapshot of the flusher counters.
func (f *Flusher) Stats() FlushStats {
	return FlushStats{
		Ticks:     f.ticks.Load(),
		Batches:   f.batches.Load(),
		Delivered: f.delivered.Load(),
		Failures:  f.failures.Load(),
	}
}
