package postgres

import (
	"context"
	"fmt"
	"scout/pkg/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	placesTable = "places"
)

// StorePlaces inserts dataset rows and returns them as stored. Insertion
// order is preserved so that query-result order survives into the dataset.
func (p *PgSQL) StorePlaces(ctx context.Context, places ...domain.Place) ([]domain.Place, error) {
	if len(places) == 0 {
		return nil, nil
	}

	var result []PgPlace
	if err := p.Builder.Insert(placesTable).
		Rows(domainPlacesToPg(places)).
		Returning(&PgPlace{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store places into pg: %w", err)
	}

	return pgPlacesToDomain(result), nil
}

// RunPlaces returns the dataset rows of the given run in insertion order.
func (p *PgSQL) RunPlaces(ctx context.Context, runID domain.RunID) ([]domain.Place, error) {
	var rows []PgPlace
	if err := p.Builder.From(placesTable).
		Where(goqu.I("run_id").Eq(uuid.UUID(runID))).
		Order(goqu.I("seq").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch run places from pg: %w", err)
	}

	return pgPlacesToDomain(rows), nil
}
