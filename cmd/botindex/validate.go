// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/ngsim/botindex/internal/log"
	"github.com/ngsim/botindex/internal/routes"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [routes-file]",
		Short: "Check the config and a routing file without building",
		Long: `Loads the botindex config (strict YAML, validated) and parses the routing
file. The routing file defaults to the configured one.

Exit codes:
  0  everything is valid
  1  a parse or validation error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			// Config loading and validation already ran in the root pre-run.
			if opts.configPath != "" {
				fmt.Fprintf(out, "✓ %s is valid\n", opts.configPath)
			}

			file := opts.cfg.RoutesPath
			if len(args) == 1 {
				file = args[0]
			}
			rc, err := routes.Load(file)
			if err != nil {
				return fmt.Errorf("routing error in %s: %w", file, err)
			}
			_, err = fmt.Fprintf(out, "✓ %s is valid\n", file)
			logger := log.WithComponent("validate")
			logger.Debug().Int("rewrites", len(rc.Rewrites)).Int("redirects", len(rc.Redirects)).Msg("routing file parsed")
			return err
		},
	}
}
