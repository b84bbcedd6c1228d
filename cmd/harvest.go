package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"scout/internal/config"
	"scout/internal/harvester"
	"scout/internal/input"
	"scout/pkg/domain"
	"scout/pkg/logger"
	"scout/pkg/overpass/overpassapi"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// harvestCommand constructs the 'harvest' subcommand that executes a single
// harvest run end to end: read the input document, query Overpass, extract
// and deduplicate places, and persist the outcome.
func harvestCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Executes one harvest run and persists its dataset or error record",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			inputPath, _ := cmd.Flags().GetString("input")

			doc, err := readInput(inputPath)
			if err != nil {
				logger.Fatal(ctx, "could not read input document", zap.Error(err))
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			client := overpassapi.New(&http.Client{Timeout: cfg.Overpass.RequestTimeout}, overpassapi.Options{
				Endpoints:      cfg.Overpass.Endpoints,
				MaxAttempts:    cfg.Overpass.MaxAttempts,
				RetryBaseDelay: cfg.Overpass.RetryBaseDelay,
				UserAgent:      cfg.Overpass.UserAgent,
			})

			run, err := harvester.New(strg, client, harvester.NewOptions(cfg)).Harvest(ctx, doc)
			if err != nil {
				logger.Fatal(ctx, "could not execute harvest run", zap.Error(err))
			}

			if run.Status == domain.RunStatusFailed {
				logger.Warn(ctx, "harvest run failed; error record stored",
					zap.String("message", run.Error.Message),
					zap.String("detail", run.Error.Detail))

				return
			}

			logger.Info(ctx, "harvest run stored",
				zap.Int("found", run.Summary.Found),
				zap.Int("deduped", run.Summary.Deduped))
		},
	}

	cmd.Flags().String("input", "input.json", "Path to the run input document (JSON)")

	return cmd
}

// readInput loads and decodes the run input document. A missing file is not
// an error: the run falls back to defaults, same as an empty document.
func readInput(path string) (input.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return input.Document{}, nil
		}

		return input.Document{}, err
	}

	return input.Parse(raw)
}
