// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/ngsim/botindex/internal/log"
	"github.com/ngsim/botindex/internal/metrics"
)

// Write builds the page and stores it as {OutDir}/index.html.
func Write(ctx context.Context, cfg Config) (*Status, error) {
	res, err := Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(cfg.OutDir, IndexFile)
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		metrics.IncBuildFailure(metrics.StageWrite)
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := writeAtomic(log.ContextWithBuildID(ctx, res.ID), path, res.HTML); err != nil {
		metrics.IncBuildFailure(metrics.StageWrite)
		return nil, err
	}

	logger := log.WithComponentFromContext(log.ContextWithBuildID(ctx, res.ID), "site")
	logger.Info().
		Str(log.FieldEvent, "site.page_written").
		Str(log.FieldOutputPath, path).
		Int(log.FieldBots, len(res.Bots)).
		Msg("page written")

	return &Status{LastRun: res.BuiltAt, Bots: len(res.Bots), Path: path}, nil
}

// writeAtomic writes data via renameio: temp file, fsync, rename.
func writeAtomic(ctx context.Context, path string, data []byte) error {
	logger := log.WithComponentFromContext(ctx, "site")

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending page file: %w", err)
	}
	defer func() {
		// no-op once committed
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending page file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write page data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace page file: %w", err)
	}
	return nil
}
