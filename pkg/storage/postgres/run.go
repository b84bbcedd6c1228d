package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"scout/pkg/domain"
	"scout/pkg/serrors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	runsTable = "runs"
)

// StoreRun inserts a new run row and returns it as stored.
func (p *PgSQL) StoreRun(ctx context.Context, run domain.Run) (*domain.Run, error) {
	var pgRun PgRun
	if err := pgRun.FromDomain(run); err != nil {
		return nil, err
	}

	var row PgRun
	found, err := p.Builder.Insert(runsTable).
		Rows(pgRun).
		Returning(&PgRun{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not store run into pg: %w", err)
	}
	if !found {
		return nil, serrors.With(serrors.ErrInternal, "insert into %s returned no row", runsTable)
	}

	return row.ToDomain()
}

// CompleteRun transitions the run to COMPLETED and stores its summary in the
// summary slot. Returns a NOT_FOUND error when no such run exists.
func (p *PgSQL) CompleteRun(ctx context.Context, id domain.RunID, summary domain.RunSummary) (*domain.Run, error) {
	b, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("could not marshal run summary: %w", err)
	}

	return p.updateRun(ctx, id, goqu.Record{
		"status":     string(domain.RunStatusCompleted),
		"summary":    b,
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	})
}

// FailRun transitions the run to FAILED and stores the error record in the
// error slot. Returns a NOT_FOUND error when no such run exists.
func (p *PgSQL) FailRun(ctx context.Context, id domain.RunID, runErr domain.RunError) (*domain.Run, error) {
	b, err := json.Marshal(runErr)
	if err != nil {
		return nil, fmt.Errorf("could not marshal run error: %w", err)
	}

	return p.updateRun(ctx, id, goqu.Record{
		"status":     string(domain.RunStatusFailed),
		"error":      b,
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	})
}

func (p *PgSQL) updateRun(ctx context.Context, id domain.RunID, rec goqu.Record) (*domain.Run, error) {
	var row PgRun
	found, err := p.Builder.Update(runsTable).
		Set(rec).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgRun{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update run in pg: %w", err)
	}
	if !found {
		return nil, serrors.KindOnly(serrors.ErrNotFound)
	}

	return row.ToDomain()
}

// RecentRuns returns up to limit runs ordered newest first.
func (p *PgSQL) RecentRuns(ctx context.Context, limit uint) ([]domain.Run, error) {
	var rows []PgRun
	if err := p.Builder.From(runsTable).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch recent runs from pg: %w", err)
	}

	return pgRunsToDomain(rows)
}
