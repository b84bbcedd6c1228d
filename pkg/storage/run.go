package storage

import (
	"context"
	"scout/pkg/domain"
)

// RunStorage defines lifecycle operations for harvest run records. A run is
// stored as PENDING when it starts, then transitions exactly once to either
// COMPLETED (with a summary in its summary slot) or FAILED (with an error
// record in its error slot).
type RunStorage interface {
	// StoreRun inserts a new run and returns the stored row as it exists in
	// the database (including generated fields).
	StoreRun(ctx context.Context, run domain.Run) (*domain.Run, error)
	// CompleteRun marks the run COMPLETED and writes its summary.
	// Returns a NOT_FOUND semantic error when the run does not exist.
	CompleteRun(ctx context.Context, id domain.RunID, summary domain.RunSummary) (*domain.Run, error)
	// FailRun marks the run FAILED and writes the error record.
	// Returns a NOT_FOUND semantic error when the run does not exist.
	FailRun(ctx context.Context, id domain.RunID, runErr domain.RunError) (*domain.Run, error)
	// RecentRuns returns up to limit runs ordered by creation time descending.
	RecentRuns(ctx context.Context, limit uint) ([]domain.Run, error)
}
