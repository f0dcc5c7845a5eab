package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRosterCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the profiles that are synced",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <username>...",
		Short: "Add or reactivate profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRoster(cmd, root, func(a *app) error {
				for _, u := range args {
					id, err := a.repo.AddProfile(cmd.Context(), u)
					if err != nil {
						return withCode(exitDB, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "active: %s (id %d)\n", u, id)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disable <username>...",
		Short: "Stop syncing profiles without deleting their data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRoster(cmd, root, func(a *app) error {
				for _, u := range args {
					if err := a.repo.SetProfileActive(cmd.Context(), u, false); err != nil {
						return withCode(exitUsage, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "disabled: %s\n", u)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRoster(cmd, root, func(a *app) error {
				profiles, err := a.repo.ListProfiles(cmd.Context())
				if err != nil {
					return withCode(exitDB, err)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUSERNAME\tACTIVE")
				for _, p := range profiles {
					fmt.Fprintf(tw, "%d\t%s\t%t\n", p.ID, p.Username, p.Active)
				}
				return tw.Flush()
			})
		},
	})

	return cmd
}

func withRoster(cmd *cobra.Command, root *rootOptions, fn func(a *app) error) error {
	a, err := loadApp(root)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.openStore(cmd.Context(), true); err != nil {
		return err
	}
	return fn(a)
}
