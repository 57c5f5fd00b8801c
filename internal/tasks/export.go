package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fretlog/fretlog/internal/formatter"
)

// ExportOpts configures a library export.
type ExportOpts struct {
	Format    string // csv, markdown, text, json (default: csv)
	OutputDir string // Destination directory (default: fretlog_export_{epoch})
	Filename  string // Base filename without extension (default: {entity}_{epoch})
}

// ExportResult describes the file an export produced.
type ExportResult struct {
	Path  string // Written file path
	Bytes int    // File size
	Count int    // Exported record count
}

// ExportSongs writes the repertoire to a file in the requested format.
func (e *LibraryEngine) ExportSongs(ctx context.Context, opts ExportOpts) (*ExportResult, error) {
	songs, err := e.LoadSongs(ctx)
	if err != nil {
		return nil, err
	}

	data, err := formatter.SongsTo(normalizeFormat(opts.Format), songs)
	if err != nil {
		return nil, err
	}

	return e.writeExport(data, len(songs), "songs", opts)
}

// ExportLessons writes the lesson log to a file in the requested format.
func (e *LibraryEngine) ExportLessons(ctx context.Context, opts ExportOpts) (*ExportResult, error) {
	lessons, err := e.LoadLessons(ctx)
	if err != nil {
		return nil, err
	}

	data, err := formatter.LessonsTo(normalizeFormat(opts.Format), lessons)
	if err != nil {
		return nil, err
	}

	return e.writeExport(data, len(lessons), "lessons", opts)
}

func normalizeFormat(format string) string {
	if format == "" {
		return formatter.FormatCSV
	}
	return format
}

func (e *LibraryEngine) writeExport(data []byte, count int, entity string, opts ExportOpts) (*ExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("fretlog_export_%d", time.Now().Unix())
	}
	if opts.Filename == "" {
		opts.Filename = fmt.Sprintf("%s_%d", entity, time.Now().Unix())
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(opts.OutputDir, opts.Filename+formatter.Extension(normalizeFormat(opts.Format)))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}

	e.logger.Info("export written", "path", path, "records", count)
	return &ExportResult{Path: path, Bytes: len(data), Count: count}, nil
}
