// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ngsim/botindex/internal/telemetry"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// Validate checks business rules on a resolved configuration. All problems
// are reported together, wrapped in ErrInvalidConfig.
func Validate(cfg AppConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.RoutesPath) == "" {
		errs = append(errs, errors.New("routes: must not be empty"))
	}
	if strings.TrimSpace(cfg.OutDir) == "" {
		errs = append(errs, errors.New("outDir: must not be empty"))
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale: %q is not a valid BCP 47 tag: %v", cfg.Locale, err))
	}
	if err := validateLinkBase(cfg.Site.LinkBase); err != nil {
		errs = append(errs, err)
	}
	if cfg.Server.RateLimitRPM < 0 {
		errs = append(errs, fmt.Errorf("server.rateLimitRPM: must be >= 0, got %d", cfg.Server.RateLimitRPM))
	}
	if cfg.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
			errs = append(errs, fmt.Errorf("logging.level: %v", err))
		}
	}
	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case telemetry.ExporterGRPC, telemetry.ExporterHTTP:
		default:
			errs = append(errs, fmt.Errorf("telemetry.exporter: must be grpc or http, got %q", cfg.Telemetry.Exporter))
		}
		if strings.TrimSpace(cfg.Telemetry.Endpoint) == "" {
			errs = append(errs, errors.New("telemetry.endpoint: must not be empty when telemetry is enabled"))
		}
	}
	if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("telemetry.samplingRate: must be within [0,1], got %v", cfg.Telemetry.SamplingRate))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func validateLinkBase(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("site.linkBase: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("site.linkBase: must be an absolute http(s) URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("site.linkBase: missing host in %q", raw)
	}
	return nil
}
