// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package page renders the bot directory as a standalone HTML document.
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ngsim/botindex/internal/listing"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Default metadata used when the configuration leaves a field empty.
const (
	DefaultTitle       = "Bots"
	DefaultDescription = "A collection of bots by NGSIM"
	DefaultHeading     = "🤖"
	DefaultLinkBase    = "https://bot.ngsim.net"
	DefaultOwner       = "NGSIM"
)

// Meta carries the head metadata and the chrome around the list.
type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Heading     string `yaml:"heading"`
	// LinkBase is prepended verbatim to each bot path to form the link target.
	LinkBase string `yaml:"linkBase"`
	Owner    string `yaml:"owner"`
}

// DefaultMeta returns the stock metadata.
func DefaultMeta() Meta {
	return Meta{
		Title:       DefaultTitle,
		Description: DefaultDescription,
		Heading:     DefaultHeading,
		LinkBase:    DefaultLinkBase,
		Owner:       DefaultOwner,
	}
}

// WithDefaults fills empty fields from DefaultMeta.
func (m Meta) WithDefaults() Meta {
	d := DefaultMeta()
	if m.Title == "" {
		m.Title = d.Title
	}
	if m.Description == "" {
		m.Description = d.Description
	}
	if m.Heading == "" {
		m.Heading = d.Heading
	}
	if m.LinkBase == "" {
		m.LinkBase = d.LinkBase
	}
	if m.Owner == "" {
		m.Owner = d.Owner
	}
	return m
}

type view struct {
	Meta Meta
	Bots []listing.Bot
	Year int
}

// Render writes the page for bots to w. now supplies the footer year.
func Render(w io.Writer, meta Meta, bots []listing.Bot, now time.Time) error {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, view{Meta: meta, Bots: bots, Year: now.Year()}); err != nil {
		return fmt.Errorf("execute index template: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

// RenderBytes is Render into a fresh buffer.
func RenderBytes(meta Meta, bots []listing.Bot, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, meta, bots, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
