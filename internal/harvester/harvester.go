// Package harvester implements the run driver and the pipeline stages of a
// harvest run: input normalization, query construction, fetch, extraction,
// deduplication and persistence of either the dataset plus summary or an
// error record.
package harvester

import (
	"context"
	"errors"
	"fmt"

	"scout/internal/config"
	"scout/internal/input"
	"scout/pkg/domain"
	"scout/pkg/logger"
	"scout/pkg/metrics"
	"scout/pkg/overpass"
	"scout/pkg/serrors"
	"scout/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configure the pipeline. These settings are typically derived from
// application configuration.
type Options struct {
	// QueryTimeout is the timeout in seconds declared inside the Overpass QL
	// query itself.
	QueryTimeout int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		QueryTimeout: cfg.Overpass.QueryTimeout,
	}
}

// Harvester executes harvest runs.
//
//go:generate mockgen -package mockharvester -source=harvester.go -destination=mock/mockharvester.go *
type Harvester interface {
	// Harvest executes one run end to end and returns the persisted run
	// record, COMPLETED or FAILED. The returned error is non-nil only for
	// infrastructure failures (storage unreachable); pipeline failures are
	// recorded on the run itself.
	Harvest(ctx context.Context, doc input.Document) (*domain.Run, error)
}

// harvester is the concrete implementation of the Harvester interface. It
// coordinates the pipeline stages with the storage layer.
type harvester struct {
	options  Options
	overpass overpass.Client
	storage  storage.Storage
}

// New creates a Harvester backed by the provided storage and Overpass client.
func New(storage storage.Storage, client overpass.Client, options Options) Harvester {
	return &harvester{
		options:  options,
		overpass: client,
		storage:  storage,
	}
}

// Result is the outcome of the pipeline before persistence: either a
// deduplicated dataset with its summary, or an error record. Exactly one of
// the two is set.
type Result struct {
	Places  []domain.Place
	Summary domain.RunSummary
	Err     *domain.RunError
}

// Harvest records a pending run, executes the pipeline, and persists the
// outcome. When the pipeline fails only the error record is written; no
// dataset write is attempted.
func (h *harvester) Harvest(ctx context.Context, doc input.Document) (*domain.Run, error) {
	run, err := h.storage.StoreRun(ctx, domain.Run{
		Status: domain.RunStatusPending,
		Input:  doc.Raw(),
	})
	if err != nil {
		return nil, fmt.Errorf("could not store run: %w", err)
	}
	ctx = logger.WithFields(ctx, zap.String("runID", uuid.UUID(run.ID).String()))

	res := h.execute(ctx, doc)
	if res.Err != nil {
		logger.Error(ctx, "harvest run failed",
			zap.String("message", res.Err.Message),
			zap.String("detail", res.Err.Detail))

		failed, err := h.storage.FailRun(ctx, run.ID, *res.Err)
		if err != nil {
			return nil, fmt.Errorf("could not record run failure: %w", err)
		}

		return failed, nil
	}

	for i := range res.Places {
		res.Places[i].RunID = run.ID
	}

	var completed *domain.Run
	if err := h.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := tx.StorePlaces(ctx, res.Places...); err != nil {
			return fmt.Errorf("could not store places: %w", err)
		}

		run, err := tx.CompleteRun(ctx, run.ID, res.Summary)
		if err != nil {
			return fmt.Errorf("could not complete run: %w", err)
		}
		completed = run

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not persist run outcome: %w", err)
	}

	logger.Info(ctx, "harvest run completed",
		zap.Int("found", res.Summary.Found),
		zap.Int("deduped", res.Summary.Deduped))

	return completed, nil
}

// execute runs the pure pipeline and returns its Result. All pipeline errors
// (invalid input, endpoint exhaustion) end up in Result.Err; nothing is
// persisted here.
func (h *harvester) execute(ctx context.Context, doc input.Document) Result {
	cfg, err := doc.Normalize()
	if err != nil {
		return Result{Err: runError("invalid input", err)}
	}

	pattern := KeywordPattern(cfg.Keywords)
	query := BuildQuery(cfg.BBox, pattern, h.options.QueryTimeout)
	logger.Debug(ctx, "built overpass query", zap.String("pattern", pattern))

	resp, err := h.overpass.Query(ctx, query)
	if err != nil {
		return Result{Err: runError("overpass fetch failed", err)}
	}
	if len(resp.Elements) == 0 {
		// Lenient by choice: an empty or missing elements field is treated as
		// zero results, so an upstream schema change would surface here.
		logger.Warn(ctx, "overpass returned no elements")
	}

	places := ExtractPlaces(resp.Elements, cfg)
	metrics.PlacesExtracted.Add(float64(len(places)))

	deduped := Dedupe(places)
	metrics.PlacesDeduped.Add(float64(len(deduped)))

	return Result{
		Places: deduped,
		Summary: domain.RunSummary{
			Found:    len(places),
			Deduped:  len(deduped),
			BBox:     cfg.BBox,
			Keywords: cfg.Keywords,
			City:     cfg.City,
			Hint:     domain.SummaryHint,
		},
	}
}

// runError builds the error record persisted on a failed run. The short
// message names the stage; the detail carries the cause, including the
// semantic kind when present.
func runError(message string, err error) *domain.RunError {
	detail := err.Error()

	var serr *serrors.Error
	if errors.As(err, &serr) && serr.Kind() != nil {
		detail = serr.Kind().Error() + ": " + detail
	}

	return &domain.RunError{Message: message, Detail: detail}
}
