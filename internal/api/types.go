// Package api provides the HTTP API server for the alembic service.
package api

import (
	"github.com/alembic-io/alembic/internal/delivery"
	"github.com/alembic-io/alembic/internal/pipeline"
)

type (
	// ItemDescriptor models one observed item in the payload of an ingest
	// request. This is separate from the domain model (facet.Descriptor) to
	// decouple the API contract from internal domain types.
	ItemDescriptor struct {
		Facets []FacetPayload `json:"facets"`
	}

	// FacetPayload is one tagged facet in an item descriptor. Kind selects
	// which of the optional payload fields is meaningful:
	//
	//   "name"     → Text
	//   "buff"     → Attribute
	//   "heal"     → Wound
	//   "duration" → (no payload)
	//   "recipe"   → Inputs
	//   "contents" → Sub
	//   "elixir"   → Effects
	FacetPayload struct {
		Kind      string               `json:"kind"`
		Text      string               `json:"text,omitempty"`
		Attribute *ResourcePayload     `json:"attribute,omitempty"`
		Wound     *ResourcePayload     `json:"wound,omitempty"`
		Inputs    []*RecipeNodePayload `json:"inputs,omitempty"`
		Sub       []FacetPayload       `json:"sub,omitempty"`
		Effects   []EffectPayload      `json:"effects,omitempty"`
	}

	// ResourcePayload mirrors facet.Resource on the wire.
	ResourcePayload struct {
		Name    string `json:"name"`
		Tooltip string `json:"tooltip,omitempty"`
	}

	// RecipeNodePayload is one node of a composition tree on the wire.
	RecipeNodePayload struct {
		Resource *ResourcePayload     `json:"resource,omitempty"`
		Inputs   []*RecipeNodePayload `json:"inputs,omitempty"`
	}

	// EffectPayload is one tagged elixir effect. Kind selects the payload:
	//
	//   "attrMod"   → Attributes
	//   "healWound" → Wound
	//   "addWound"  → Wound
	EffectPayload struct {
		Kind       string             `json:"kind"`
		Attributes []*ResourcePayload `json:"attributes,omitempty"`
		Wound      *ResourcePayload   `json:"wound,omitempty"`
	}

	// IngestResponse represents the batch response for item ingestion.
	// Only failed items are echoed back; accepted items are processed
	// asynchronously by the pipeline, so acceptance is not a delivery
	// guarantee.
	IngestResponse struct {
		Status        string          `json:"status"` // "accepted" or "partial"
		Summary       ResponseSummary `json:"summary"`
		FailedItems   []FailedItem    `json:"failedItems"`
		CorrelationID string          `json:"correlationId"`
		Timestamp     string          `json:"timestamp"` // Response generation time (ISO8601)
	}

	// ResponseSummary provides aggregate counts for batch processing.
	ResponseSummary struct {
		Received int `json:"received"` // Total descriptors in batch
		Accepted int `json:"accepted"` // Descriptors handed to the pipeline
		Failed   int `json:"failed"`   // Descriptors that failed payload mapping
	}

	// FailedItem describes a single failed descriptor in the batch.
	FailedItem struct {
		Index  int    `json:"index"`  // Descriptor index in original batch (0-based)
		Reason string `json:"reason"` // Human-readable failure reason
	}

	// StatsResponse represents the response for GET /api/v1/stats.
	StatsResponse struct {
		Pipeline   pipeline.Stats      `json:"pipeline"`
		Flush      delivery.FlushStats `json:"flush"`
		QueueDepth int                 `json:"queueDepth"`
		CacheSize  int                 `json:"cacheSize"`
	}

	// Version represents the API version response structure.
	Version struct {
		Version     string `json:"version"`
		ServiceName string `json:"serviceName"`
		BuildInfo   string `json:"buildInfo,omitempty"`
	}

	// HealthStatus represents the health check response structure.
	HealthStatus struct {
		Status      string `json:"status"`
		ServiceName string `json:"serviceName"`
		Version     string `json:"version"`
		Uptime      string `json:"uptime,omitempty"`
	}
)
