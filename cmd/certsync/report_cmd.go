package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomasfarkasovsky/trailhead/internal/report"
)

type reportOptions struct {
	out    string
	dir    string
	format string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export per-user certification statistics as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := loadApp(root)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.openStore(ctx, false); err != nil {
				return err
			}

			dir, format := a.cfg.Report.Dir, a.cfg.Report.Format
			if opts.dir != "" {
				dir = opts.dir
			}
			if opts.format != "" {
				format = opts.format
			}

			path, n, err := report.NewExporter(a.repo, a.logger).Export(ctx, dir, opts.out, format)
			if err != nil {
				return withCode(exitRun, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ report saved to '%s' (%d users)\n", path, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "", "Output file (default trailhead_certs_{year}.{format} in --dir)")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Output directory (overrides report.dir)")
	cmd.Flags().StringVar(&opts.format, "format", "", "csv or xlsx (overrides report.format)")
	return cmd
}
