// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics exposes Prometheus metrics for page builds.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Build outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Build failure stages.
const (
	StageLoad   = "load"
	StageRender = "render"
	StageWrite  = "write"
)

var (
	botsListed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "botindex_bots",
		Help: "Number of bots in the last successful build",
	})

	rulesSeen = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "botindex_rules",
		Help: "Routing rules read in the last successful build, by list",
	}, []string{"list"}) // list=rewrites|redirects

	buildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "botindex_builds_total",
		Help: "Page builds by outcome",
	}, []string{"outcome"})

	buildFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "botindex_build_failures_total",
		Help: "Failed page builds by stage",
	}, []string{"stage"})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "botindex_build_duration_seconds",
		Help:    "Time spent loading, transforming and rendering the page",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	pageBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "botindex_page_bytes",
		Help: "Size of the last rendered page in bytes",
	})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "botindex_last_build_success_timestamp_seconds",
		Help: "Unix time of the last successful build",
	})
)

// RecordBuild records a successful build.
func RecordBuild(bots, rewrites, redirects, size int, took time.Duration, at time.Time) {
	buildsTotal.WithLabelValues(OutcomeSuccess).Inc()
	botsListed.Set(float64(bots))
	rulesSeen.WithLabelValues("rewrites").Set(float64(rewrites))
	rulesSeen.WithLabelValues("redirects").Set(float64(redirects))
	pageBytes.Set(float64(size))
	buildDuration.Observe(took.Seconds())
	lastSuccess.Set(float64(at.Unix()))
}

// IncBuildFailure records a failed build at stage.
func IncBuildFailure(stage string) {
	buildsTotal.WithLabelValues(OutcomeFailure).Inc()
	buildFailures.WithLabelValues(stage).Inc()
}
