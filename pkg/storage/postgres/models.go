package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"scout/pkg/domain"
	"time"

	"github.com/google/uuid"
)

type PgRun struct {
	ID     uuid.UUID `db:"id" goqu:"skipinsert"`
	Status string    `db:"status"`

	Input   json.RawMessage `db:"input"`
	Summary json.RawMessage `db:"summary"  goqu:"skipinsert"`
	Error   json.RawMessage `db:"error"    goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (r *PgRun) ToDomain() (*domain.Run, error) {
	out := &domain.Run{
		ID:        domain.RunID(r.ID),
		Status:    domain.RunStatus(r.Status),
		Input:     r.Input,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt.Time,
	}

	if len(r.Summary) > 0 {
		var summary domain.RunSummary
		if err := json.Unmarshal(r.Summary, &summary); err != nil {
			return nil, fmt.Errorf("could not unmarshal run summary: %w", err)
		}
		out.Summary = &summary
	}
	if len(r.Error) > 0 {
		var runErr domain.RunError
		if err := json.Unmarshal(r.Error, &runErr); err != nil {
			return nil, fmt.Errorf("could not unmarshal run error: %w", err)
		}
		out.Error = &runErr
	}

	return out, nil
}

func (r *PgRun) FromDomain(run domain.Run) error {
	*r = PgRun{
		ID:        uuid.UUID(run.ID),
		Status:    string(run.Status),
		Input:     run.Input,
		CreatedAt: run.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  run.UpdatedAt,
			Valid: !run.UpdatedAt.IsZero(),
		},
	}

	if run.Summary != nil {
		b, err := json.Marshal(run.Summary)
		if err != nil {
			return fmt.Errorf("could not marshal run summary: %w", err)
		}
		r.Summary = b
	}
	if run.Error != nil {
		b, err := json.Marshal(run.Error)
		if err != nil {
			return fmt.Errorf("could not marshal run error: %w", err)
		}
		r.Error = b
	}

	return nil
}

func pgRunsToDomain(runs []PgRun) ([]domain.Run, error) {
	out := make([]domain.Run, 0, len(runs))
	for _, run := range runs {
		d, err := run.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}

type PgPlace struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`
	// Seq preserves dataset insertion order within a bulk insert, where all
	// rows share the same created_at.
	Seq   int64     `db:"seq" goqu:"skipinsert"`
	RunID uuid.UUID `db:"run_id"`

	Name       string `db:"name"`
	Domain     string `db:"domain"`
	City       string `db:"city"`
	Category   string `db:"category"`
	SourceURL  string `db:"source_url"`
	Lat        string `db:"lat"`
	Lon        string `db:"lon"`
	Confidence string `db:"confidence"`
	Notes      string `db:"notes"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgPlace) ToDomain() domain.Place {
	return domain.Place{
		ID:         domain.PlaceID(p.ID),
		RunID:      domain.RunID(p.RunID),
		Name:       p.Name,
		Domain:     p.Domain,
		City:       p.City,
		Category:   p.Category,
		SourceURL:  p.SourceURL,
		Lat:        p.Lat,
		Lon:        p.Lon,
		Confidence: p.Confidence,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

func (p *PgPlace) FromDomain(place domain.Place) {
	*p = PgPlace{
		ID:         uuid.UUID(place.ID),
		RunID:      uuid.UUID(place.RunID),
		Name:       place.Name,
		Domain:     place.Domain,
		City:       place.City,
		Category:   place.Category,
		SourceURL:  place.SourceURL,
		Lat:        place.Lat,
		Lon:        place.Lon,
		Confidence: place.Confidence,
		Notes:      place.Notes,
		CreatedAt:  place.CreatedAt,
	}
}

func domainPlacesToPg(places []domain.Place) []PgPlace {
	out := make([]PgPlace, len(places))
	for i := range out {
		out[i].FromDomain(places[i])
	}

	return out
}

func pgPlacesToDomain(places []PgPlace) []domain.Place {
	out := make([]domain.Place, 0, len(places))
	for _, place := range places {
		out = append(out, place.ToDomain())
	}

	return out
}
