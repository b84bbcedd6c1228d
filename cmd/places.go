package main

import (
	"context"
	"encoding/json"
	"fmt"
	"scout/internal/config"
	"scout/pkg/domain"
	"scout/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// placesCommand constructs the 'places' subcommand that prints the dataset
// rows of a given run, one JSON object per line, in insertion order.
func placesCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Prints the dataset rows of a harvest run",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			rawID, _ := cmd.Flags().GetString("run")
			runID, err := uuid.Parse(rawID)
			if err != nil {
				logger.Fatal(ctx, "could not parse run ID", zap.Error(err))
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			places, err := strg.RunPlaces(ctx, domain.RunID(runID))
			if err != nil {
				logger.Fatal(ctx, "could not list places", zap.Error(err))
			}

			for _, place := range places {
				b, err := json.Marshal(place)
				if err != nil {
					logger.Fatal(ctx, "could not encode place", zap.Error(err))
				}

				fmt.Println(string(b)) //nolint: forbidigo
			}
		},
	}

	cmd.Flags().String("run", "", "Run ID whose dataset rows to print")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}
