// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"os"

	"github.com/ngsim/botindex/internal/config"
	"github.com/ngsim/botindex/internal/log"
	"github.com/ngsim/botindex/internal/version"
	"github.com/spf13/cobra"
)

// rootOptions carries the persistent flags and the config they resolve to.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg config.AppConfig
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "botindex",
		Short:         "Render a directory page of bots from a vercel.json routing file",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return opts.load()
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to botindex YAML config (ENV: "+config.EnvConfigPath+")")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newBuildCmd(opts),
		newServeCmd(opts),
		newListCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load resolves the configuration and reconfigures logging from it. Logs go
// to stderr so command output on stdout stays clean.
func (o *rootOptions) load() error {
	path := o.configPath
	if path == "" {
		path = config.ParseString(config.EnvConfigPath, "")
	}

	cfg, err := config.NewLoader(path, version.Version).Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	o.cfg = cfg

	log.Configure(log.Config{
		Level:   cfg.Logging.Level,
		Output:  os.Stderr,
		Service: cfg.Logging.Service,
		Version: version.Version,
	})
	return nil
}
