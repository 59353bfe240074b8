package delivery

import (
	"context"

	"github.com/alembic-io/alembic/internal/queue"
)

// Sink is one delivery transport for a drained batch.
//
// Deliver is best-effort and at-most-once: the flusher drops the batch
// whether Deliver succeeds or fails, and never re-enqueues entries.
// Implementations must bound their own I/O with the passed context.
type Sink interface {
	// Name identifies the transport in logs.
	Name() string

	// Deliver ships one drained batch. The batch is never empty.
	Deliver(ctx context.Context, batch []queue.Entry) error
}
