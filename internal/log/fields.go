// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldBuildID   = "build_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Build fields
	FieldBots       = "bots"
	FieldRoutesPath = "routes_path"
	FieldOutputPath = "output_path"
	FieldDuration   = "duration_ms"

	// HTTP fields
	FieldMethod = "method"
	FieldPath   = "path"
	FieldStatus = "status"
	FieldRemote = "remote_addr"
)
