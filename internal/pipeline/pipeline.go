// Package pipeline wires classification, extraction, fingerprinting,
// deduplication, and queueing into the single ingestion entry point.
//
// A Pipeline is an explicit context object constructed once at startup: it
// owns the potion cache and the delivery queue and hands both to the flusher
// and the stats surface, so there is no ambient global state.
//
// Submit is fire-and-forget. Descriptors travel over a buffered channel to a
// bounded worker pool; the caller never blocks and never sees a
// classification or extraction failure. Within one worker, processing of a
// single descriptor is fully sequential: classify → extract → fingerprint →
// dedup check → enqueue.
package pipeline

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/alembic-io/alembic/internal/classify"
	"github.com/alembic-io/alembic/internal/dedup"
	"github.com/alembic-io/alembic/internal/extract"
	"github.com/alembic-io/alembic/internal/facet"
	"github.com/alembic-io/alembic/internal/fingerprint"
	"github.com/alembic-io/alembic/internal/queue"
)

const (
	defaultWorkers      = 2
	defaultSubmitBuffer = 256
)

type (
	// Config holds pipeline sizing. Pure configuration only; runtime
	// dependencies are injected into New separately.
	Config struct {
		// Workers is the number of processing goroutines.
		Workers int

		// SubmitBuffer is the submission channel capacity. When the buffer
		// is full, Submit drops the descriptor rather than block the
		// caller.
		SubmitBuffer int
	}

	// Pipeline owns the shared mutable state of the ingestion path and
	// processes submitted descriptors asynchronously.
	Pipeline struct {
		logger *slog.Logger
		cache  *dedup.PotionCache
		queue  *queue.DeliveryQueue

		submissions chan *facet.Descriptor
		wg          sync.WaitGroup
		closeOnce   sync.Once

		// closeMu orders Submit sends against the channel close so a late
		// Submit degrades to a counted drop instead of a panic.
		closeMu sync.RWMutex
		closed  bool

		submitted    atomic.Uint64
		dropped      atomic.Uint64
		unclassified atomic.Uint64
		rejected     atomic.Uint64
		suppressed   atomic.Uint64
		enqueued     atomic.Uint64
	}

	// Stats is a point-in-time snapshot of pipeline counters.
	Stats struct {
		// Submitted counts all Submit calls, including dropped ones.
		Submitted uint64 `json:"submitted"`
		// Dropped counts submissions discarded because the worker pool
		// was saturated.
		Dropped uint64 `json:"dropped"`
		// Unclassified counts descriptors matching no category.
		Unclassified uint64 `json:"unclassified"`
		// Rejected counts extraction and fingerprint failures.
		Rejected uint64 `json:"rejected"`
		// Suppressed counts potions already present in the dedup cache.
		Suppressed uint64 `json:"suppressed"`
		// Enqueued counts records handed to the delivery queue.
		Enqueued uint64 `json:"enqueued"`
	}
)

// normalize fills zero config fields with defaults.
func (c Config) normalize() Config {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}

	if c.SubmitBuffer <= 0 {
		c.SubmitBuffer = defaultSubmitBuffer
	}

	return c
}

// New creates a pipeline and starts its worker pool. The caller must Close
// the pipeline to stop the workers.
//
// Parameters:
//   - logger: structured logger for debug-level failure diagnostics
//   - cache: potion dedup cache, shared with the stats surface
//   - deliveryQueue: delivery queue, shared with the flusher
//   - cfg: worker pool sizing
func New(logger *slog.Logger, cache *dedup.PotionCache, deliveryQueue *queue.DeliveryQueue, cfg Config) *Pipeline {
	cfg = cfg.normalize()

	p := &Pipeline{
		logger:      logger,
		cache:       cache,
		queue:       deliveryQueue,
		submissions: make(chan *facet.Descriptor, cfg.SubmitBuffer),
	}

	p.wg.Add(cfg.Workers)

	for range cfg.Workers {
		go p.worker()
	}

	return p
}

// Submit hands a descriptor to the pipeline. Fire-and-forget: it never
// blocks and never surfaces processing failures to the caller. When the
// worker pool is saturated, or the pipeline has been closed, the descriptor
// is dropped and counted.
func (p *Pipeline) Submit(d *facet.Descriptor) {
	p.submitted.Add(1)

	if d == nil {
		p.unclassified.Add(1)

		return
	}

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()

	if p.closed {
		p.dropped.Add(1)

		return
	}

	select {
	case p.submissions <- d:
	default:
		p.dropped.Add(1)
	}
}

// Close stops accepting submissions and waits for in-flight descriptors to
// finish processing. Safe to call more than once; submissions arriving after
// Close are dropped.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() {
		p.closeMu.Lock()
		p.closed = true
		close(p.submissions)
		p.closeMu.Unlock()
	})

	p.wg.Wait()
}

// Queue returns the delivery queue owned by this pipeline.
func (p *Pipeline) Queue() *queue.DeliveryQueue {
	return p.queue
}

// Cache returns the potion dedup cache owned by this pipeline.
func (p *Pipeline) Cache() *dedup.PotionCache {
	return p.cache
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Submitted:    p.submitted.Load(),
		Dropped:      p.dropped.Load(),
		Unclassified: p.unclassified.Load(),
		Rejected:     p.rejected.Load(),
		Suppressed:   p.suppressed.Load(),
		Enqueued:     p.enqueued.Load(),
	}
}

// worker drains the submission channel until Close.
func (p *Pipeline) worker() {
	defer p.wg.Done()

	for d := range p.submissions {
		p.process(d)
	}
}

// process runs one descriptor through the full ingestion sequence. All
// failures are absorbed here; nothing propagates past Submit.
func (p *Pipeline) process(d *facet.Descriptor) {
	category := classify.Classify(d)
	if category == classify.None {
		p.unclassified.Add(1)

		return
	}

	rec, err := extract.Extract(category, d)
	if err != nil {
		p.rejected.Add(1)
		p.logger.Debug("Record extraction failed",
			slog.String("category", category.String()),
			slog.String("error", err.Error()),
		)

		return
	}

	fp, err := fingerprint.Compute(rec)
	if err != nil {
		p.rejected.Add(1)
		p.logger.Debug("Fingerprint computation failed",
			slog.String("category", category.String()),
			slog.String("error", err.Error()),
		)

		return
	}

	if !p.cache.ShouldEnqueue(fp, rec) {
		p.suppressed.Add(1)

		return
	}

	rec.SetFingerprint(fp)
	p.queue.Enqueue(queue.Entry{Fingerprint: fp, Record: rec})
	p.enqueued.Add(1)
}
