// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/ngsim/botindex/internal/listing"
	"github.com/ngsim/botindex/internal/routes"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the bots derived from the routing file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := routes.Load(opts.cfg.RoutesPath)
			if err != nil {
				return err
			}
			tag, err := language.Parse(opts.cfg.Locale)
			if err != nil {
				return fmt.Errorf("parse locale %q: %w", opts.cfg.Locale, err)
			}
			bots := listing.Build(rc.Rewrites, rc.Redirects, listing.WithLocale(tag))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(bots)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATH\tURL")
			for _, b := range bots {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Name, b.Path, b.URL)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
