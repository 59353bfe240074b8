package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alembic-io/alembic/internal/api/middleware"
	"github.com/alembic-io/alembic/internal/facet"
)

// handleIngestItems handles observed item descriptor ingestion.
// POST /api/v1/items - Ingest single or batch item descriptors
//
// Request validation (returns 4xx):
//   - 405 Method Not Allowed: Only POST is allowed (handled by route pattern)
//   - 415 Unsupported Media Type: Content-Type must be application/json
//   - 413 Payload Too Large: Request body exceeds MaxRequestSize
//   - 400 Bad Request: Empty body, invalid JSON, or empty descriptor array
//   - 422 Unprocessable Entity: Every descriptor in the batch failed mapping
//
// Success responses:
//   - 202 Accepted: All descriptors handed to the pipeline
//   - 207 Multi-Status: Partial success (some accepted, some failed mapping)
//
// Acceptance is asynchronous: the pipeline classifies, deduplicates, and
// enqueues in the background, so a 202 means "queued for processing", not
// "delivered".
func (s *Server) handleIngestItems(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	correlationID := middleware.GetCorrelationID(r.Context())

	// Content-Type validation
	if !hasJSONContentType(r.Header.Get("Content-Type")) {
		WriteErrorResponse(w, r, s.logger, UnsupportedMediaType("Content-Type must be application/json"))

		return
	}

	// Parse and validate request
	items, problem := s.parseIngestRequest(r)
	if problem != nil {
		WriteErrorResponse(w, r, s.logger, problem)

		return
	}

	// Map API descriptors to domain descriptors; mapping failures are
	// per-item, not per-batch.
	descriptors := make([]*facet.Descriptor, len(items))
	mappingErrors := make([]error, len(items))

	failed := 0

	for i := range items {
		d, err := mapItemDescriptor(&items[i])
		if err != nil {
			mappingErrors[i] = err
			failed++

			continue
		}

		descriptors[i] = d
	}

	if failed == len(items) {
		WriteErrorResponse(w, r, s.logger, UnprocessableEntity("No descriptor in the batch could be mapped"))

		return
	}

	// Submit mapped descriptors. Submit never blocks; saturation shows up
	// in the pipeline's dropped counter rather than as a request failure.
	accepted := 0

	for i := range descriptors {
		if descriptors[i] == nil {
			continue
		}

		s.pipeline.Submit(descriptors[i])
		accepted++
	}

	response := buildIngestResponse(correlationID, items, mappingErrors, accepted)

	statusCode := http.StatusAccepted
	if failed > 0 {
		statusCode = http.StatusMultiStatus
	}

	s.sendIngestResponse(w, r, statusCode, response)

	duration := time.Since(startTime)
	s.logger.Info("Item descriptors ingested",
		slog.String("correlation_id", correlationID),
		slog.String("status", response.Status),
		slog.Int("received", response.Summary.Received),
		slog.Int("accepted", response.Summary.Accepted),
		slog.Int("failed", response.Summary.Failed),
		slog.Int("status_code", statusCode),
		slog.Duration("duration", duration),
	)
}

// parseIngestRequest parses and validates the HTTP request body.
// Returns parsed descriptors or a ProblemDetail if parsing fails.
//
// Validates:
//   - Request size (optimization for known oversized requests)
//   - Empty body check (better UX than JSON decode error)
//   - JSON parsing
//   - Empty array check
func (s *Server) parseIngestRequest(r *http.Request) ([]ItemDescriptor, *ProblemDetail) {
	// Request size check (optimization: fail fast for known oversized requests)
	// Allow unknown sizes (-1) or 0 (empty, caught later)
	if r.ContentLength > 0 && r.ContentLength > s.config.MaxRequestSize {
		return nil, PayloadTooLarge(
			fmt.Sprintf("Request body exceeds maximum size of %d bytes", s.config.MaxRequestSize),
		)
	}

	// Empty body check (better UX: specific error message)
	if r.ContentLength == 0 {
		return nil, BadRequest("Request body cannot be empty")
	}

	var items []ItemDescriptor

	decoder := json.NewDecoder(io.LimitReader(r.Body, s.config.MaxRequestSize))
	if err := decoder.Decode(&items); err != nil {
		return nil, BadRequest("Invalid JSON: " + err.Error())
	}

	// Empty request check
	if len(items) == 0 {
		return nil, BadRequest("Descriptor array cannot be empty")
	}

	return items, nil
}

// buildIngestResponse builds the batch response. Only failed descriptors are
// echoed back; accepted ones are processed asynchronously.
func buildIngestResponse(
	correlationID string,
	items []ItemDescriptor,
	mappingErrors []error,
	accepted int,
) *IngestResponse {
	failedItems := make([]FailedItem, 0)

	for i := range items {
		if mappingErrors[i] == nil {
			continue
		}

		failedItems = append(failedItems, FailedItem{
			Index:  i,
			Reason: mappingErrors[i].Error(),
		})
	}

	status := "accepted"
	if len(failedItems) > 0 {
		status = "partial"
	}

	return &IngestResponse{
		Status: status,
		Summary: ResponseSummary{
			Received: len(items),
			Accepted: accepted,
			Failed:   len(failedItems),
		},
		FailedItems:   failedItems,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}

// sendIngestResponse writes the ingest response as JSON.
func (s *Server) sendIngestResponse(
	w http.ResponseWriter,
	r *http.Request,
	statusCode int,
	response *IngestResponse,
) {
	data, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("Failed to encode ingest response",
			slog.String("correlation_id", response.CorrelationID),
			slog.String("error", err.Error()),
		)

		WriteErrorResponse(w, r, s.logger, InternalServerError("Failed to encode ingest response"))

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write ingest response",
			slog.String("correlation_id", response.CorrelationID),
			slog.String("error", err.Error()),
		)
	}
}
