// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package site runs the build pipeline: read the routing file, derive the
// bot listing and render the index page.
package site

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ngsim/botindex/internal/config"
	"github.com/ngsim/botindex/internal/listing"
	"github.com/ngsim/botindex/internal/log"
	"github.com/ngsim/botindex/internal/metrics"
	"github.com/ngsim/botindex/internal/page"
	"github.com/ngsim/botindex/internal/routes"
	"github.com/ngsim/botindex/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/language"
)

// IndexFile is the name of the rendered page inside the output directory.
const IndexFile = "index.html"

const tracerName = "botindex/site"

// Config holds everything a build needs.
type Config struct {
	RoutesPath string
	OutDir     string
	Locale     language.Tag
	Meta       page.Meta
	// Clock supplies the render time (footer year). Defaults to time.Now.
	Clock func() time.Time
}

// ConfigFrom derives a build config from the application config.
func ConfigFrom(app config.AppConfig) (Config, error) {
	tag, err := language.Parse(app.Locale)
	if err != nil {
		return Config{}, fmt.Errorf("parse locale %q: %w", app.Locale, err)
	}
	return Config{
		RoutesPath: app.RoutesPath,
		OutDir:     app.OutDir,
		Locale:     tag,
		Meta:       app.Site.WithDefaults(),
	}, nil
}

func (c Config) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// Result is one successful build held in memory.
type Result struct {
	ID        string
	Bots      []listing.Bot
	HTML      []byte
	Rewrites  int
	Redirects int
	BuiltAt   time.Time
}

// Status summarises the last build for logs and health output.
type Status struct {
	LastRun time.Time `json:"last_run"`
	Bots    int       `json:"bots"`
	Path    string    `json:"path,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Build loads the routing file, derives the listing and renders the page.
// Nothing is written to disk.
func Build(ctx context.Context, cfg Config) (*Result, error) {
	id := uuid.NewString()
	ctx = log.ContextWithBuildID(ctx, id)
	logger := log.WithComponentFromContext(ctx, "site")

	ctx, span := telemetry.Tracer(tracerName).Start(ctx, "site.build")
	defer span.End()
	span.SetAttributes(
		attribute.String(telemetry.BuildRoutesPathKey, cfg.RoutesPath),
		attribute.String(telemetry.BuildLocaleKey, cfg.Locale.String()),
	)

	start := time.Now()
	logger.Info().
		Str(log.FieldEvent, "site.build_start").
		Str(log.FieldRoutesPath, cfg.RoutesPath).
		Msg("starting build")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := routes.Load(cfg.RoutesPath)
	if err != nil {
		metrics.IncBuildFailure(metrics.StageLoad)
		span.RecordError(err)
		span.SetStatus(codes.Error, "load routes")
		logger.Error().Err(err).Str(log.FieldEvent, "site.build_failed").Str("stage", metrics.StageLoad).Msg("build failed")
		return nil, fmt.Errorf("load routes: %w", err)
	}

	bots := listing.Build(rc.Rewrites, rc.Redirects, listing.WithLocale(cfg.Locale))

	builtAt := cfg.now()
	html, err := page.RenderBytes(cfg.Meta, bots, builtAt)
	if err != nil {
		metrics.IncBuildFailure(metrics.StageRender)
		span.RecordError(err)
		span.SetStatus(codes.Error, "render page")
		logger.Error().Err(err).Str(log.FieldEvent, "site.build_failed").Str("stage", metrics.StageRender).Msg("build failed")
		return nil, fmt.Errorf("render page: %w", err)
	}

	took := time.Since(start)
	metrics.RecordBuild(len(bots), len(rc.Rewrites), len(rc.Redirects), len(html), took, builtAt)
	span.SetAttributes(telemetry.BuildAttributes(len(rc.Rewrites), len(rc.Redirects), len(bots), len(html))...)
	span.SetStatus(codes.Ok, "")

	logger.Info().
		Str(log.FieldEvent, "site.build_success").
		Int(log.FieldBots, len(bots)).
		Int("rewrites", len(rc.Rewrites)).
		Int("redirects", len(rc.Redirects)).
		Int64(log.FieldDuration, took.Milliseconds()).
		Msg("build completed")

	return &Result{
		ID:        id,
		Bots:      bots,
		HTML:      html,
		Rewrites:  len(rc.Rewrites),
		Redirects: len(rc.Redirects),
		BuiltAt:   builtAt,
	}, nil
}
