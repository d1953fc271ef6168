// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ngsim/botindex/internal/api"
	"github.com/ngsim/botindex/internal/config"
	"github.com/ngsim/botindex/internal/health"
	"github.com/ngsim/botindex/internal/log"
	"github.com/ngsim/botindex/internal/routes"
	"github.com/ngsim/botindex/internal/site"
	"github.com/ngsim/botindex/internal/telemetry"
	"github.com/ngsim/botindex/internal/version"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the page over HTTP and rebuild when the routing file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if listen != "" {
				cfg.Server.ListenAddr = listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, nil)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}

// runServe blocks until ctx is done or a component fails. onListen, when set,
// receives the server before it starts listening.
func runServe(ctx context.Context, cfg config.AppConfig, onListen func(*api.Server)) error {
	logger := log.WithComponent("serve")

	if err := health.PerformStartupChecks(ctx, cfg, health.StartupOptions{}); err != nil {
		return err
	}

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewProvider(ctx, cfg.TelemetrySettings())
		if err != nil {
			logger.Warn().Err(err).Msg("Telemetry initialization failed, continuing without tracing")
		} else {
			defer func() {
				if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
					logger.Error().Err(err).Msg("Telemetry shutdown error")
				}
			}()
		}
	}

	siteCfg, err := site.ConfigFrom(cfg)
	if err != nil {
		return err
	}
	pub := site.NewPublisher(siteCfg)
	if err := pub.Rebuild(ctx); err != nil {
		// Keep serving: readiness reports the failure until a rebuild succeeds.
		logger.Error().Err(err).Str(log.FieldEvent, "serve.initial_build_failed").Msg("initial build failed")
	}

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewPageChecker(pub))
	hm.RegisterChecker(health.NewFileChecker("routes", cfg.RoutesPath))

	srv := api.New(api.ConfigFrom(cfg), pub, hm)
	if onListen != nil {
		onListen(srv)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	if cfg.Server.Watch {
		w := routes.NewWatcher(cfg.RoutesPath, routes.DefaultDebounce, pub.Rebuild)
		g.Go(func() error { return w.Run(gctx) })
	}
	g.Go(func() error { return rebuildOnHangup(gctx, pub.Rebuild) })

	logger.Info().
		Str("listen", cfg.Server.ListenAddr).
		Str(log.FieldRoutesPath, pub.RoutesPath()).
		Bool("watch", cfg.Server.Watch).
		Msg("botindex serving")

	return g.Wait()
}

// rebuildOnHangup rebuilds on every SIGHUP until ctx is done.
func rebuildOnHangup(ctx context.Context, rebuild routes.ReloadFunc) error {
	logger := log.WithComponent("serve")
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			logger.Info().Str(log.FieldEvent, "serve.sighup").Msg("SIGHUP received, rebuilding")
			if err := rebuild(ctx); err != nil {
				logger.Error().Err(err).Str(log.FieldEvent, "routes.reload_failed").Msg("rebuild after SIGHUP failed")
			}
		}
	}
}
