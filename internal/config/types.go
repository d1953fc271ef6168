// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ngsim/botindex/internal/page"
	"github.com/ngsim/botindex/internal/telemetry"
)

// AppConfig is the fully resolved application configuration.
type AppConfig struct {
	// RoutesPath points at the routing file (vercel.json or a YAML equivalent).
	RoutesPath string `yaml:"routes"`
	// OutDir receives index.html on build.
	OutDir string `yaml:"outDir"`
	// Locale is the BCP 47 tag used to collate bot names.
	Locale string `yaml:"locale"`

	Site      page.Meta       `yaml:"site"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Version is stamped from the binary, never read from the file.
	Version string `yaml:"-"`
}

// ServerConfig configures `botindex serve`.
type ServerConfig struct {
	ListenAddr      string        `yaml:"listenAddr"`
	Watch           bool          `yaml:"watch"`
	RateLimitRPM    int           `yaml:"rateLimitRPM"` // 0 disables
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig configures the zerolog base logger.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Environment  string  `yaml:"environment"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// TelemetrySettings converts the config section into telemetry.Config.
func (c AppConfig) TelemetrySettings() telemetry.Config {
	service := c.Logging.Service
	if service == "" {
		service = DefaultService
	}
	return telemetry.Config{
		Enabled:        c.Telemetry.Enabled,
		ServiceName:    service,
		ServiceVersion: c.Version,
		Environment:    c.Telemetry.Environment,
		ExporterType:   c.Telemetry.Exporter,
		Endpoint:       c.Telemetry.Endpoint,
		SamplingRate:   c.Telemetry.SamplingRate,
	}
}

// Defaults.
const (
	DefaultRoutesPath = "vercel.json"
	DefaultOutDir     = "public"
	DefaultLocale     = "en"
	DefaultListenAddr = ":8080"
	DefaultService    = "botindex"
)

// Defaults returns the configuration used when neither file nor ENV set a value.
func Defaults() AppConfig {
	return AppConfig{
		RoutesPath: DefaultRoutesPath,
		OutDir:     DefaultOutDir,
		Locale:     DefaultLocale,
		Site:       page.DefaultMeta(),
		Server: ServerConfig{
			ListenAddr:      DefaultListenAddr,
			Watch:           true,
			RateLimitRPM:    600,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Service: DefaultService,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			Exporter:     telemetry.ExporterGRPC,
			Endpoint:     "localhost:4317",
			Environment:  "production",
			SamplingRate: 1.0,
		},
	}
}
