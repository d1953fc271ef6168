// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// RootSource is the catch-all route; it never becomes a bot.
	RootSource = "/"
	// Placeholder marks a wildcard parameter segment in a route source.
	Placeholder = ":match"
	// WildcardSuffix is stripped from the end of destinations.
	WildcardSuffix = "/:match*"
)

// DefaultLocale is the collation locale used when none is configured.
var DefaultLocale = language.English

// Rule is a single routing directive as found in the rewrites or redirects list.
type Rule struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// Bot is one entry of the rendered directory.
type Bot struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

type options struct {
	locale language.Tag
}

// Option tweaks Build.
type Option func(*options)

// WithLocale sets the collation locale used to order bots by name.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// Build concatenates rewrites and redirects, drops the root and placeholder
// routes, keeps the first rule seen per source and returns the bots ordered
// by name. The result is never nil.
func Build(rewrites, redirects []Rule, opts ...Option) []Bot {
	o := options{locale: DefaultLocale}
	for _, opt := range opts {
		opt(&o)
	}

	all := make([]Rule, 0, len(rewrites)+len(redirects))
	all = append(all, rewrites...)
	all = append(all, redirects...)

	seen := make(map[string]struct{}, len(all))
	bots := make([]Bot, 0, len(all))
	for _, r := range all {
		if Excluded(r.Source) {
			continue
		}
		if _, dup := seen[r.Source]; dup {
			continue
		}
		seen[r.Source] = struct{}{}
		bots = append(bots, Bot{
			Path: r.Source,
			URL:  StripWildcard(r.Destination),
			Name: DeriveName(r.Source),
		})
	}

	Sort(bots, o.locale)
	return bots
}

// Excluded reports whether a rule source must not appear in the listing.
func Excluded(source string) bool {
	return source == RootSource || strings.Contains(source, Placeholder)
}

// StripWildcard removes one trailing "/:match*" from a destination.
func StripWildcard(destination string) string {
	return strings.TrimSuffix(destination, WildcardSuffix)
}

// DeriveName upper-cases the character at index 1 of path and appends
// everything from index 2 on. Paths shorter than two characters yield "".
// The arithmetic is literal: "/ab" gives "Ab", "xyz" gives "Yz".
func DeriveName(path string) string {
	runes := []rune(path)
	if len(runes) < 2 {
		return ""
	}
	return cases.Upper(language.Und).String(string(runes[1])) + string(runes[2:])
}

// Sort orders bots by name using locale-aware collation. Equal names keep
// their relative order.
func Sort(bots []Bot, locale language.Tag) {
	c := collate.New(locale)
	slices.SortStableFunc(bots, func(a, b Bot) int {
		return c.CompareString(a.Name, b.Name)
	})
}
