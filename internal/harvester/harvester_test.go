package harvester_test

import (
	"context"
	"errors"
	"testing"

	"scout/internal/harvester"
	"scout/internal/input"
	"scout/pkg/domain"
	"scout/pkg/logger"
	"scout/pkg/overpass"
	"scout/pkg/serrors"
	"scout/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

// queryFunc allows using a function as an overpass.Client.
type queryFunc func(ctx context.Context, query string) (*overpass.Response, error)

func (f queryFunc) Query(ctx context.Context, query string) (*overpass.Response, error) {
	return f(ctx, query)
}

// stubStorage is an in-memory storage.Storage recording calls for assertions.
type stubStorage struct {
	run    *domain.Run
	places []domain.Place
}

func (s *stubStorage) StoreRun(_ context.Context, run domain.Run) (*domain.Run, error) {
	run.ID = domain.RunID(uuid.New())
	s.run = &run

	return s.run, nil
}

func (s *stubStorage) CompleteRun(_ context.Context, id domain.RunID, summary domain.RunSummary) (*domain.Run, error) {
	if s.run == nil || s.run.ID != id {
		return nil, serrors.KindOnly(serrors.ErrNotFound)
	}
	s.run.Status = domain.RunStatusCompleted
	s.run.Summary = &summary

	return s.run, nil
}

func (s *stubStorage) FailRun(_ context.Context, id domain.RunID, runErr domain.RunError) (*domain.Run, error) {
	if s.run == nil || s.run.ID != id {
		return nil, serrors.KindOnly(serrors.ErrNotFound)
	}
	s.run.Status = domain.RunStatusFailed
	s.run.Error = &runErr

	return s.run, nil
}

func (s *stubStorage) RecentRuns(context.Context, uint) ([]domain.Run, error) { return nil, nil }

func (s *stubStorage) StorePlaces(_ context.Context, places ...domain.Place) ([]domain.Place, error) {
	s.places = append(s.places, places...)

	return places, nil
}

func (s *stubStorage) RunPlaces(context.Context, domain.RunID) ([]domain.Place, error) {
	return s.places, nil
}

func (s *stubStorage) Close() error { return nil }

func (s *stubStorage) Begin(context.Context) (storage.TxStorage, error) {
	return nil, storage.ErrAlreadyInTx
}

func (s *stubStorage) WithTx(_ context.Context, cb func(storage.AllStorage) error) error {
	return cb(s)
}

func newTestHarvester(st *stubStorage, client overpass.Client) harvester.Harvester {
	return harvester.New(st, client, harvester.Options{QueryTimeout: 60})
}

func mustParse(t *testing.T, doc string) input.Document {
	t.Helper()

	d, err := input.Parse([]byte(doc))
	require.NoError(t, err)

	return d
}

func TestHarvest_endToEndDedupesByDomain(t *testing.T) {
	st := &stubStorage{}
	client := queryFunc(func(_ context.Context, query string) (*overpass.Response, error) {
		require.Contains(t, query, "(29.1,-98.85,29.75,-98.1)")

		return &overpass.Response{Elements: []overpass.Element{
			{Type: "node", ID: 1, Tags: map[string]string{"name": "Glow Med Spa", "website": "https://a.com"}},
			{Type: "way", ID: 2, Tags: map[string]string{"name": "Glow Annex", "website": "https://www.a.com"}},
		}}, nil
	})

	raw := `{"bbox":{"south":29.1,"west":-98.85,"north":29.75,"east":-98.1}}`
	run, err := newTestHarvester(st, client).Harvest(context.Background(), mustParse(t, raw))
	require.NoError(t, err)
	require.NotNil(t, run)
	require.Equal(t, domain.RunStatusCompleted, run.Status)

	require.NotNil(t, run.Summary)
	require.Equal(t, 2, run.Summary.Found)
	require.Equal(t, 1, run.Summary.Deduped)
	require.Equal(t, input.DefaultKeywords, run.Summary.Keywords)
	require.Equal(t, input.DefaultCity, run.Summary.City)
	require.Equal(t, domain.SummaryHint, run.Summary.Hint)

	require.Len(t, st.places, 1, "rows sharing domain a.com collapse to the first occurrence")
	require.Equal(t, "Glow Med Spa", st.places[0].Name)
	require.Equal(t, run.ID, st.places[0].RunID)

	require.JSONEq(t, raw, string(run.Input), "run should echo its input document verbatim")
}

func TestHarvest_inputEchoPreservesCoordinates(t *testing.T) {
	st := &stubStorage{}
	client := queryFunc(func(context.Context, string) (*overpass.Response, error) {
		return &overpass.Response{}, nil
	})

	// numeric-string coordinates decode lossily into the config, so the
	// stored echo must come from the original bytes
	raw := `{"bbox_south":"29.2","bbox_west":"-98.5","keyword_list":"botox","city":"Austin"}`
	run, err := newTestHarvester(st, client).Harvest(context.Background(), mustParse(t, raw))
	require.NoError(t, err)
	require.Equal(t, domain.RunStatusCompleted, run.Status)
	require.JSONEq(t, raw, string(run.Input))
	require.Equal(t, 29.2, run.Summary.BBox.South)
	require.Equal(t, -98.5, run.Summary.BBox.West)
	require.Equal(t, "Austin", run.Summary.City)
}

func TestHarvest_endpointExhaustionRecordsError(t *testing.T) {
	st := &stubStorage{}
	client := queryFunc(func(context.Context, string) (*overpass.Response, error) {
		return nil, serrors.Wrap(serrors.ErrExhausted, errors.New("connection refused"), "all overpass endpoints exhausted")
	})

	run, err := newTestHarvester(st, client).Harvest(context.Background(), mustParse(t, `{}`))
	require.NoError(t, err, "pipeline failures are recorded, not returned")
	require.NotNil(t, run)
	require.Equal(t, domain.RunStatusFailed, run.Status)

	require.NotNil(t, run.Error)
	require.Equal(t, "overpass fetch failed", run.Error.Message)
	require.Contains(t, run.Error.Detail, "ENDPOINT_EXHAUSTED")
	require.Contains(t, run.Error.Detail, "connection refused")

	require.Empty(t, st.places, "no dataset write is attempted on failure")
	require.Nil(t, run.Summary)
}

func TestHarvest_invalidInputFailsBeforeFetch(t *testing.T) {
	st := &stubStorage{}
	client := queryFunc(func(context.Context, string) (*overpass.Response, error) {
		t.Fatal("fetch must not run for invalid input")

		return nil, nil
	})

	doc := mustParse(t, `{"bbox":{"south":-91,"west":0,"north":1,"east":1}}`)
	run, err := newTestHarvester(st, client).Harvest(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, domain.RunStatusFailed, run.Status)
	require.NotNil(t, run.Error)
	require.Equal(t, "invalid input", run.Error.Message)
	require.Contains(t, run.Error.Detail, "INVALID_INPUT")
	require.Empty(t, st.places)
}

func TestHarvest_emptyResponseCompletesWithZeroCounts(t *testing.T) {
	st := &stubStorage{}
	client := queryFunc(func(context.Context, string) (*overpass.Response, error) {
		return &overpass.Response{}, nil
	})

	run, err := newTestHarvester(st, client).Harvest(context.Background(), mustParse(t, `{}`))
	require.NoError(t, err)
	require.Equal(t, domain.RunStatusCompleted, run.Status)
	require.Equal(t, 0, run.Summary.Found)
	require.Equal(t, 0, run.Summary.Deduped)
	require.Empty(t, st.places)
}
