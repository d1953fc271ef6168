// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"os"

	"github.com/ngsim/botindex/internal/config"
	"github.com/ngsim/botindex/internal/log"
	"github.com/ngsim/botindex/internal/routes"
	"github.com/rs/zerolog"
)

// StartupOptions selects which pre-flight checks run.
type StartupOptions struct {
	// RequireOutDir checks that the output directory can be created and written.
	RequireOutDir bool
}

// PerformStartupChecks validates the routing file and, when requested, the
// output directory before any work starts.
func PerformStartupChecks(ctx context.Context, cfg config.AppConfig, opts StartupOptions) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("Running pre-flight startup checks...")

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := checkRoutes(logger, cfg.RoutesPath); err != nil {
		return fmt.Errorf("routing config check failed: %w", err)
	}

	if opts.RequireOutDir {
		if err := checkOutDir(logger, cfg.OutDir); err != nil {
			return fmt.Errorf("output directory check failed: %w", err)
		}
	}

	logger.Info().Msg("All startup checks passed")
	return nil
}

func checkRoutes(logger zerolog.Logger, path string) error {
	rc, err := routes.Load(path)
	if err != nil {
		return err
	}
	logger.Info().
		Str("path", path).
		Int("rewrites", len(rc.Rewrites)).
		Int("redirects", len(rc.Redirects)).
		Int("rules", len(rc.Rules())).
		Msg("Routing config OK")
	return nil
}

func checkOutDir(logger zerolog.Logger, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".botindex-probe-*")
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	logger.Info().Str("path", dir).Msg("Output directory OK")
	return nil
}
