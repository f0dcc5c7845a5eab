package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomasfarkasovsky/trailhead/internal/db"
)

func newCheckDBCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-db",
		Short: "Verify database connectivity and report TLS status",
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

			res, err := db.Probe(ctx, a.db)
			if err != nil {
				return withCode(exitDB, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SELECT 1 => %d\n", res.SelectOne)
			fmt.Fprintf(out, "server => %s\n", res.ServerVersion)
			if a.db.Driver() != "sqlite" {
				cipher := res.SSLCipher
				if cipher == "" {
					cipher = "(none)"
				}
				fmt.Fprintf(out, "SSL => %s\n", cipher)
			}
			fmt.Fprintln(out, "✅ Connection OK")
			return nil
		},
	}
}
