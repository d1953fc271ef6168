// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment keys read by the loader.
const (
	EnvConfigPath        = "BOTINDEX_CONFIG"
	EnvRoutes            = "BOTINDEX_ROUTES"
	EnvOutDir            = "BOTINDEX_OUT_DIR"
	EnvLocale            = "BOTINDEX_LOCALE"
	EnvLinkBase          = "BOTINDEX_LINK_BASE"
	EnvListen            = "BOTINDEX_LISTEN"
	EnvWatch             = "BOTINDEX_WATCH"
	EnvRateLimitRPM      = "BOTINDEX_RATE_LIMIT_RPM"
	EnvLogLevel          = "BOTINDEX_LOG_LEVEL"
	EnvTelemetryEnabled  = "BOTINDEX_TELEMETRY_ENABLED"
	EnvTelemetryExporter = "BOTINDEX_TELEMETRY_EXPORTER"
	EnvOTLPEndpoint      = "BOTINDEX_OTLP_ENDPOINT"
	EnvSamplingRate      = "BOTINDEX_SAMPLING_RATE"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // keys the loader looked at, for diagnostics
}

// NewLoader creates a new configuration loader. An empty configPath means
// defaults plus environment only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Order: defaults -> strict file parse -> env -> validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)

	cfg.Site = cfg.Site.WithDefaults()
	cfg.Version = l.version

	// Relative routing and output paths are resolved against the config file.
	if l.configPath != "" {
		base := filepath.Dir(l.configPath)
		cfg.RoutesPath = resolveRelative(base, cfg.RoutesPath)
		cfg.OutDir = resolveRelative(base, cfg.OutDir)
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg with STRICT parsing.
// Unknown fields fail with ErrUnknownConfigField.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.RoutesPath = l.envString(EnvRoutes, cfg.RoutesPath)
	cfg.OutDir = l.envString(EnvOutDir, cfg.OutDir)
	cfg.Locale = l.envString(EnvLocale, cfg.Locale)
	cfg.Site.LinkBase = l.envString(EnvLinkBase, cfg.Site.LinkBase)

	cfg.Server.ListenAddr = l.envString(EnvListen, cfg.Server.ListenAddr)
	cfg.Server.Watch = l.envBool(EnvWatch, cfg.Server.Watch)
	cfg.Server.RateLimitRPM = l.envInt(EnvRateLimitRPM, cfg.Server.RateLimitRPM)

	cfg.Logging.Level = l.envString(EnvLogLevel, cfg.Logging.Level)

	cfg.Telemetry.Enabled = l.envBool(EnvTelemetryEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvTelemetryExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvOTLPEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvSamplingRate, cfg.Telemetry.SamplingRate)
}

func resolveRelative(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
