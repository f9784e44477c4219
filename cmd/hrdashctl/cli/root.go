// Package cli implements hrdashctl, the operator command line for the
// attrition dashboard.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cinescope/hrdash/internal/app"
)

var (
	envFileFlag string
	verboseFlag bool
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hrdashctl",
		Short: "Operate the HR attrition dashboard",
		Long: `hrdashctl loads the attrition dashboard from the aggregation API,
schedules cache warmups and manages the upstream response cache.

Configuration is read from the environment (and an optional .env file),
exactly like the server. API_BASE is required.

Examples:
  hrdashctl snapshot
  hrdashctl snapshot --age-buckets 12 --json
  hrdashctl warmup
  hrdashctl cache bump`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "dotenv file loaded before the environment")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log upstream requests to stderr")
	cmd.AddCommand(newSnapshotCmd(), newWarmupCmd(), newCacheCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func loadConfig() (*app.Config, *slog.Logger, error) {
	cfg, err := app.LoadConfig(envFileFlag)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}
