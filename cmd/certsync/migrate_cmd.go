package main

import (
	"fmt"

	"github.com/spf13/cobra"

	dbfs "github.com/tomasfarkasovsky/trailhead/db"
	"github.com/tomasfarkasovsky/trailhead/internal/db"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
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

			n, err := db.Migrate(ctx, a.db, dbfs.Migrations)
			if err != nil {
				return withCode(exitDB, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
}
