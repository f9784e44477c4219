package cli

import (
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/cinescope/hrdash/internal/dashboard"
	"github.com/cinescope/hrdash/jobs"
)

func newWarmupCmd() *cobra.Command {
	params := dashboard.DefaultParams()
	cmd := &cobra.Command{
		Use:   "warmup",
		Short: "Enqueue a snapshot warmup task for the worker",
		Long: `Enqueue the snapshot warmup task on the job queue. The worker runs a
full load cycle so the upstream response cache is primed.

Parameter flags warm a non-default view.

Examples:
  hrdashctl warmup
  hrdashctl warmup --scatter-limit 2000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.RedisAddr == "" {
				return errors.New("warmup needs REDIS_ADDR to reach the job queue")
			}
			payload, err := warmupPayload(cmd, params)
			if err != nil {
				return err
			}
			client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()
			info, err := client.EnqueueSnapshotWarmup(cmd.Context(), payload)
			if errors.Is(err, jobs.ErrAlreadyQueued) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s a warmup is already waiting on the queue\n", warnStyle.Render("skipped"))
				return nil
			}
			if err != nil {
				return fmt.Errorf("enqueue warmup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s on queue %s\n", okStyle.Render("enqueued"), info.ID, info.Queue)
			return nil
		},
	}
	bindParamFlags(cmd, &params)
	return cmd
}

// warmupPayload carries params only when a parameter flag was given, so the
// worker otherwise warms whatever its defaults are.
func warmupPayload(cmd *cobra.Command, params dashboard.Params) (jobs.SnapshotWarmupPayload, error) {
	payload := jobs.SnapshotWarmupPayload{Reason: "cli"}
	changed := false
	for _, name := range paramFlagNames {
		changed = changed || cmd.Flags().Changed(name)
	}
	if !changed {
		return payload, nil
	}
	if err := params.Validate(); err != nil {
		return payload, err
	}
	payload.Params = &params
	return payload, nil
}
