package main

import (
	"context"
	"encoding/json"
	"fmt"
	"scout/internal/config"
	"scout/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runsCommand constructs the 'runs' subcommand that lists recent harvest runs
// with their status and, when present, summary or error record.
func runsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Lists recent harvest runs",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			limit, _ := cmd.Flags().GetUint("limit")

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			runs, err := strg.RecentRuns(ctx, limit)
			if err != nil {
				logger.Fatal(ctx, "could not list runs", zap.Error(err))
			}

			for _, run := range runs {
				b, err := json.Marshal(run)
				if err != nil {
					logger.Fatal(ctx, "could not encode run", zap.Error(err))
				}

				fmt.Println(string(b)) //nolint: forbidigo
			}
		},
	}

	cmd.Flags().Uint("limit", 20, "Maximum number of runs to list")

	return cmd
}
