package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cinescope/hrdash/internal/app"
	"github.com/cinescope/hrdash/internal/dashboard"
)

type snapshotOptions struct {
	params  dashboard.Params
	json    bool
	timeout time.Duration
}

func newSnapshotCmd() *cobra.Command {
	opts := &snapshotOptions{params: dashboard.DefaultParams()}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run one load cycle and print the dashboard",
		Long: `Fetch every dataset concurrently, reshape the results and print them.

Datasets that fail are listed with their error; the rest still print.

Examples:
  hrdashctl snapshot
  hrdashctl snapshot --dim1 job_role --dim2 gender
  hrdashctl snapshot --json > snapshot.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			services, err := app.NewServices(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			defer func() { _ = services.Close() }()
			return runSnapshot(cmd.Context(), cmd.OutOrStdout(), services.Dashboard, opts)
		},
	}
	bindParamFlags(cmd, &opts.params)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the dashboard as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "give up on the load cycle after this long")
	return cmd
}

var paramFlagNames = []string{"age-buckets", "min-age", "max-age", "income-buckets", "tenure-years", "scatter-limit", "min-income-buckets", "dim1", "dim2"}

func bindParamFlags(cmd *cobra.Command, p *dashboard.Params) {
	f := cmd.Flags()
	f.IntVar(&p.AgeBuckets, "age-buckets", p.AgeBuckets, "age histogram bucket count")
	f.IntVar(&p.MinAge, "min-age", p.MinAge, "lowest age in the histogram")
	f.IntVar(&p.MaxAge, "max-age", p.MaxAge, "highest age in the histogram")
	f.IntVar(&p.IncomeBuckets, "income-buckets", p.IncomeBuckets, "income histogram bucket count")
	f.IntVar(&p.TenureYears, "tenure-years", p.TenureYears, "years covered by the tenure curve")
	f.IntVar(&p.ScatterLimit, "scatter-limit", p.ScatterLimit, "age/income samples to fetch")
	f.IntVar(&p.MinIncomeBuckets, "min-income-buckets", p.MinIncomeBuckets, "buckets of the minimum income curve")
	f.StringVar(&p.PivotPrimary, "dim1", p.PivotPrimary, "pivot row dimension")
	f.StringVar(&p.PivotSecondary, "dim2", p.PivotSecondary, "pivot column dimension")
}

func runSnapshot(ctx context.Context, w io.Writer, svc *dashboard.Service, opts *snapshotOptions) error {
	if err := opts.params.Validate(); err != nil {
		return err
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	view := dashboard.NewView(ctx, svc, opts.params)
	defer view.Close()
	if err := view.Load(); err != nil {
		return err
	}
	view.Wait()

	snap := view.Snapshot()
	if snap == nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		return errors.New("snapshot: load cycle produced no dashboard")
	}
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	_, err := io.WriteString(w, renderSnapshot(snap))
	return err
}
