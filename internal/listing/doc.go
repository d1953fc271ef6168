// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package listing turns routing rules into the sorted, de-duplicated bot
// directory shown on the index page.
package listing
