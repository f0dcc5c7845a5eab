package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tomasfarkasovsky/trailhead/internal/jobs"
	"github.com/tomasfarkasovsky/trailhead/internal/metrics"
	"github.com/tomasfarkasovsky/trailhead/internal/reconcile"
	"github.com/tomasfarkasovsky/trailhead/internal/report"
	"github.com/tomasfarkasovsky/trailhead/pkg/trailhead"
)

type syncOptions struct {
	migrate bool
	export  bool
}

func newSyncCmd(root *rootOptions) *cobra.Command {
	var opts syncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch certifications for every active profile and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := loadApp(root)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.openStore(ctx, opts.migrate); err != nil {
				return err
			}

			client, err := trailhead.NewClient(trailhead.Config{
				URL:       a.cfg.Trailhead.GraphQLURL,
				Timeout:   a.cfg.Trailhead.Timeout,
				UserAgent: "trailhead-sync/" + version,
			}, nil, a.logger)
			if err != nil {
				return withCode(exitConfig, err)
			}
			defer client.Close()

			runner := &jobs.Runner{
				Roster:     a.repo,
				Fetcher:    client,
				Reconciler: reconcile.New(a.repo, a.logger),
				Runs:       a.repo,
				Metrics:    metrics.New(a.cfg.Metrics, a.logger),
				Logger:     a.logger,
			}

			sum, err := runner.Run(ctx)
			if err != nil {
				return withCode(exitRun, err)
			}

			out := cmd.OutOrStdout()
			for _, line := range sum.Lines() {
				fmt.Fprintln(out, line)
			}

			if opts.export && sum.Total > 0 {
				path, n, err := report.NewExporter(a.repo, a.logger).Export(ctx, a.cfg.Report.Dir, "", a.cfg.Report.Format)
				if err != nil {
					// the sync itself is committed; a failed export is reported only
					a.logger.Error("export report", zap.Error(err))
					return nil
				}
				fmt.Fprintf(out, "✅ report saved to '%s' (%d users)\n", path, n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "Apply pending migrations before syncing")
	cmd.Flags().BoolVar(&opts.export, "export", false, "Write the statistics report after the sync")
	return cmd
}
