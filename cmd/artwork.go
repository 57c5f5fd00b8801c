package main

import (
	"context"
	"fmt"

	"github.com/fretlog/fretlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// ArtworkLookup queries iTunes for one artist/song pair and prints the URLs.
func (r *Runner) ArtworkLookup(ctx context.Context, cmd *cli.Command) error {
	author := cmd.StringArg("author")
	song := cmd.StringArg("song")
	if author == "" || song == "" {
		return fmt.Errorf("%w: usage: fretlog artwork lookup <author> <song>", shared.ErrMissingArgument)
	}

	if r.artwork == nil {
		return fmt.Errorf("%w: artwork lookups are disabled in config", shared.ErrInvalidConfig)
	}

	art := r.engine.LookupArtwork(ctx, song, author)
	if art == nil {
		r.writePlain("No artwork found for '%s - %s'\n", author, song)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(art, true)
	}

	r.writePlain("Small:  %s\n", art.Small)
	r.writePlain("Medium: %s\n", art.Medium)
	r.writePlain("Large:  %s\n", art.Large)
	return nil
}

// ArtworkRefresh re-resolves artwork for one stored song and persists it.
func (r *Runner) ArtworkRefresh(ctx context.Context, cmd *cli.Command) error {
	song, err := r.engine.RefreshArtwork(ctx, cmd.String("id"))
	if err != nil {
		return fmt.Errorf("failed to refresh artwork: %w", err)
	}

	if song.ArtworkURL == "" {
		r.writePlain("No artwork found for '%s - %s'\n", song.Author, song.Name)
		return nil
	}

	r.writePlain("✓ Artwork for '%s - %s': %s\n", song.Author, song.Name, song.ArtworkURL)
	return nil
}
