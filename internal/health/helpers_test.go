// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import "github.com/ngsim/botindex/internal/config"

func configFor(routesPath, outDir string) config.AppConfig {
	cfg := config.Defaults()
	cfg.RoutesPath = routesPath
	cfg.OutDir = outDir
	return cfg
}
