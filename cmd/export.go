package main

import (
	"context"
	"fmt"

	"github.com/fretlog/fretlog/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) exportOpts(cmd *cli.Command) tasks.ExportOpts {
	outputDir := cmd.String("output")
	if outputDir == "" {
		outputDir = r.config.Export.Directory
	}
	return tasks.ExportOpts{
		Format:    cmd.String("format"),
		OutputDir: outputDir,
		Filename:  cmd.String("name"),
	}
}

// ExportSongs writes the repertoire to a file.
func (r *Runner) ExportSongs(ctx context.Context, cmd *cli.Command) error {
	result, err := r.engine.ExportSongs(ctx, r.exportOpts(cmd))
	if err != nil {
		return fmt.Errorf("failed to export songs: %w", err)
	}

	r.writePlain("✓ Exported %d songs to %s (%d bytes)\n", result.Count, result.Path, result.Bytes)
	return nil
}

// ExportLessons writes the lesson log to a file.
func (r *Runner) ExportLessons(ctx context.Context, cmd *cli.Command) error {
	result, err := r.engine.ExportLessons(ctx, r.exportOpts(cmd))
	if err != nil {
		return fmt.Errorf("failed to export lessons: %w", err)
	}

	r.writePlain("✓ Exported %d lessons to %s (%d bytes)\n", result.Count, result.Path, result.Bytes)
	return nil
}
