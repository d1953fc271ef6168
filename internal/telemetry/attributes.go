// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	// Build attributes
	BuildRoutesPathKey = "build.routes_path"
	BuildRewritesKey   = "build.rewrites"
	BuildRedirectsKey  = "build.redirects"
	BuildBotsKey       = "build.bots"
	BuildLocaleKey     = "build.locale"
	BuildPageBytesKey  = "build.page_bytes"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// BuildAttributes describes the outcome of a page build.
func BuildAttributes(rewrites, redirects, bots, pageBytes int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(BuildRewritesKey, rewrites),
		attribute.Int(BuildRedirectsKey, redirects),
		attribute.Int(BuildBotsKey, bots),
		attribute.Int(BuildPageBytesKey, pageBytes),
	}
}
