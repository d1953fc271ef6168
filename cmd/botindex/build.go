// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/ngsim/botindex/internal/health"
	"github.com/ngsim/botindex/internal/site"
	"github.com/spf13/cobra"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render index.html into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if outDir != "" {
				cfg.OutDir = outDir
			}
			ctx := cmd.Context()

			if err := health.PerformStartupChecks(ctx, cfg, health.StartupOptions{RequireOutDir: true}); err != nil {
				return err
			}

			siteCfg, err := site.ConfigFrom(cfg)
			if err != nil {
				return err
			}
			st, err := site.Write(ctx, siteCfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bots)\n", st.Path, st.Bots)
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides config)")
	return cmd
}
