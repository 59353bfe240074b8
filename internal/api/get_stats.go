package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alembic-io/alembic/internal/api/middleware"
	"github.com/alembic-io/alembic/internal/delivery"
)

// handleStats returns pipeline, flush, queue, and cache counters.
// GET /api/v1/stats
//
// Counters are point-in-time snapshots from atomic loads; the endpoint takes
// no locks on the hot path.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	correlationID := middleware.GetCorrelationID(r.Context())

	stats := StatsResponse{
		Pipeline:   s.pipeline.Stats(),
		QueueDepth: s.pipeline.Queue().Len(),
		CacheSize:  s.pipeline.Cache().Len(),
	}

	if s.flusher != nil {
		stats.Flush = s.flusher.Stats()
	} else {
		stats.Flush = delivery.FlushStats{}
	}

	data, err := json.Marshal(stats)
	if err != nil {
		s.logger.Error("Failed to encode stats response",
			slog.String("correlation_id", correlationID),
			slog.String("error", err.Error()),
		)

		WriteErrorResponse(w, r, s.logger, InternalServerError("Failed to encode stats response"))

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write stats response",
			slog.String("correlation_id", correlationID),
			slog.String("error", err.Error()),
		)
	}
}
