package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomasfarkasovsky/trailhead/api"
	"github.com/tomasfarkasovsky/trailhead/internal/config"
)

func newTokenCmd(root *rootOptions) *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the statistics API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(root.configPath)
			if err != nil {
				return withCode(exitConfig, fmt.Errorf("load config: %w", err))
			}
			if err := cfg.ValidateAPI(); err != nil {
				return withCode(exitConfig, err)
			}
			if ttl == 0 {
				ttl = cfg.API.TokenDuration
			}

			tok, err := api.IssueToken(cfg.API.JWTSecret, subject, ttl, time.Now())
			if err != nil {
				return withCode(exitUsage, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "reporting", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default api.token_duration)")
	return cmd
}
