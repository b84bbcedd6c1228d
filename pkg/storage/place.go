package storage

import (
	"context"
	"scout/pkg/domain"
)

// PlaceStorage defines operations on the output dataset. Rows are written
// once per run and never updated; ordering within a run follows insertion
// order (query-result order after deduplication).
type PlaceStorage interface {
	// StorePlaces inserts one or more dataset rows and returns the stored
	// rows as they exist in the database (including generated fields).
	StorePlaces(ctx context.Context, places ...domain.Place) ([]domain.Place, error)
	// RunPlaces returns the dataset rows persisted for the given run, in
	// insertion order.
	RunPlaces(ctx context.Context, runID domain.RunID) ([]domain.Place, error)
}
