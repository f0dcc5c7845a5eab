package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "certsync",
		Short:         "Sync public Trailhead certifications into a SQL store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config YAML file")

	cmd.AddCommand(newSyncCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newRosterCmd(opts))
	cmd.AddCommand(newCheckDBCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newTokenCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
