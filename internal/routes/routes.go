// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package routes reads the rewrite and redirect lists from a routing
// configuration file such as vercel.json.
package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ngsim/botindex/internal/listing"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingRuleList is returned when the rewrites or redirects key is absent.
	ErrMissingRuleList = errors.New("missing rule list")
	// ErrMalformedRoutes classifies decode failures (wrong shapes, bad syntax).
	ErrMalformedRoutes = errors.New("malformed routing config")
)

// Format selects the decoder for a routing file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Config holds the two ordered rule lists of a routing file.
type Config struct {
	Rewrites  []listing.Rule
	Redirects []listing.Rule
}

// Rules returns rewrites followed by redirects.
func (c Config) Rules() []listing.Rule {
	out := make([]listing.Rule, 0, len(c.Rewrites)+len(c.Redirects))
	out = append(out, c.Rewrites...)
	return append(out, c.Redirects...)
}

// document mirrors the parts of the routing file we read. Pointers tell an
// absent key apart from an empty list.
type document struct {
	Rewrites  *[]listing.Rule `json:"rewrites" yaml:"rewrites"`
	Redirects *[]listing.Rule `json:"redirects" yaml:"redirects"`
}

// FormatFor picks the decoder from the file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses the routing file at path.
func Load(path string) (Config, error) {
	// #nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read routing config %s: %w", path, err)
	}
	cfg, err := Parse(data, FormatFor(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a routing document. Keys other than rewrites and redirects
// are ignored.
func Parse(data []byte, format Format) (Config, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrMalformedRoutes, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrMalformedRoutes, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported format %q", ErrMalformedRoutes, format)
	}

	if doc.Rewrites == nil {
		return Config{}, fmt.Errorf("%w: rewrites", ErrMissingRuleList)
	}
	if doc.Redirects == nil {
		return Config{}, fmt.Errorf("%w: redirects", ErrMissingRuleList)
	}
	return Config{Rewrites: *doc.Rewrites, Redirects: *doc.Redirects}, nil
}
