package main

import (
	"context"
	"fmt"

	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
	"github.com/fretlog/fretlog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SongsList prints the repertoire, grouped by category or filtered to one.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	songs, err := r.engine.LoadSongs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if filter := cmd.String("category"); filter != "" {
		category, err := models.ParseCategory(filter)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		filtered := make([]models.Song, 0, len(songs))
		for _, song := range songs {
			if song.Category == category {
				filtered = append(filtered, song)
			}
		}
		songs = filtered
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	for _, bucket := range tasks.Buckets(songs) {
		if len(bucket.Songs) == 0 {
			continue
		}
		r.writePlainHeader(fmt.Sprintf("%s (%d)", bucket.Category.Title(), len(bucket.Songs)))
		for _, song := range bucket.Songs {
			r.writePlain("%s  %s - %s\n", song.ID, song.Author, song.Name)
			if song.Comments != "" {
				r.writePlain("    %s\n", song.Comments)
			}
		}
		r.writePlain("\n")
	}

	return nil
}

// SongsAdd creates a song from flags.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	category, err := models.ParseCategory(cmd.String("category"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	song, err := r.engine.AddSong(ctx, &models.Song{
		Name:          cmd.String("name"),
		Author:        cmd.String("author"),
		TabsLink:      cmd.String("tabs"),
		VideoLink:     cmd.String("video"),
		Comments:      cmd.String("comments"),
		RecordingLink: cmd.String("recording"),
		Category:      category,
	})
	if err != nil {
		return fmt.Errorf("failed to add song: %w", err)
	}

	r.writePlain("✓ Added '%s - %s' to %s (id %s)\n", song.Author, song.Name, song.Category, song.ID)
	return nil
}

// SongsEdit patches the fields whose flags were provided.
func (r *Runner) SongsEdit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	patch := models.SongPatch{}
	if cmd.IsSet("name") {
		patch.Name = models.Ptr(cmd.String("name"))
	}
	if cmd.IsSet("author") {
		patch.Author = models.Ptr(cmd.String("author"))
	}
	if cmd.IsSet("tabs") {
		patch.TabsLink = models.Ptr(cmd.String("tabs"))
	}
	if cmd.IsSet("video") {
		patch.VideoLink = models.Ptr(cmd.String("video"))
	}
	if cmd.IsSet("comments") {
		patch.Comments = models.Ptr(cmd.String("comments"))
	}
	if cmd.IsSet("recording") {
		patch.RecordingLink = models.Ptr(cmd.String("recording"))
	}

	if patch.IsEmpty() {
		return fmt.Errorf("%w: nothing to change, provide at least one field flag", shared.ErrMissingArgument)
	}

	song, err := r.engine.EditSong(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to edit song: %w", err)
	}

	r.writePlain("✓ Updated '%s - %s'\n", song.Author, song.Name)
	return nil
}

// SongsMove reassigns a song's category.
func (r *Runner) SongsMove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	category, err := models.ParseCategory(cmd.String("category"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	song, err := r.engine.MoveSong(ctx, id, category)
	if err != nil {
		return fmt.Errorf("failed to move song: %w", err)
	}

	r.writePlain("✓ Moved '%s - %s' to %s\n", song.Author, song.Name, song.Category)
	return nil
}

// SongsDelete removes a song.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	if err := r.engine.RemoveSong(ctx, id); err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	r.writePlain("✓ Deleted song %s\n", id)
	return nil
}

// SongsOpen opens one of a song's links in the system browser.
func (r *Runner) SongsOpen(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	song, err := r.engine.GetSong(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load song: %w", err)
	}

	var url string
	switch link := cmd.String("link"); link {
	case "tabs":
		url = song.TabsLink
	case "video":
		url = song.VideoLink
	case "recording":
		url = song.RecordingLink
	default:
		return fmt.Errorf("%w: unknown link %q (want tabs, video, or recording)", shared.ErrInvalidFlag, link)
	}

	if url == "" {
		return fmt.Errorf("%w: song has no %s link", shared.ErrInvalidInput, cmd.String("link"))
	}

	r.logger.Info("opening link", "song", song.Name, "url", url)
	if err := shared.OpenBrowser(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
