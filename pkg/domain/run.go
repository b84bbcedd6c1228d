package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RunID uniquely identifies a harvest run.
type RunID uuid.UUID

// RunStatus represents the lifecycle state of a harvest run.
type RunStatus string

const (
	// RunStatusPending indicates the run has been recorded but not finished yet.
	RunStatusPending RunStatus = "PENDING"
	// RunStatusCompleted indicates the run finished and its dataset and summary are stored.
	RunStatusCompleted RunStatus = "COMPLETED"
	// RunStatusFailed indicates the run ended with a recorded error; see Error.
	RunStatusFailed RunStatus = "FAILED"
)

// BoundingBox is the rectangular geographic filter of a run, in degrees.
type BoundingBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// RunConfig is the canonical configuration of a single run, produced by input
// normalization and immutable afterwards.
type RunConfig struct {
	BBox BoundingBox `json:"bbox"`
	// Keywords are the name heuristics, trimmed and non-empty.
	Keywords []string `json:"keywords"`
	// City is used for rows whose source element carries no address tags.
	City string `json:"city"`
}

// SummaryHint is the static human hint attached to every run summary.
const SummaryHint = "review low-confidence rows manually; tune keywords or the bbox if results look thin"

// RunSummary is the per-run report persisted next to the dataset.
type RunSummary struct {
	// Found is the number of rows extracted before deduplication.
	Found int `json:"found"`
	// Deduped is the number of rows retained after deduplication.
	Deduped int `json:"deduped"`

	BBox     BoundingBox `json:"bbox"`
	Keywords []string    `json:"keywords"`
	City     string      `json:"city"`
	Hint     string      `json:"hint"`
}

// RunError is the error record written instead of a dataset when a run fails.
type RunError struct {
	// Message is the short human-readable failure description.
	Message string `json:"message"`
	// Detail carries the underlying cause, e.g. the last endpoint failure.
	Detail string `json:"detail,omitempty"`
}

// Run represents a single harvest run and its current state.
type Run struct {
	ID     RunID     `json:"id"`
	Status RunStatus `json:"status"`

	// Input echoes the raw input document the run was started with.
	Input json.RawMessage `json:"input,omitempty"`
	// Summary is present once the run completed.
	Summary *RunSummary `json:"summary,omitempty"`
	// Error is present once the run failed.
	Error *RunError `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
