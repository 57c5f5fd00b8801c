package tasks

import (
	"context"
	"fmt"

	"github.com/fretlog/fretlog/internal/artwork"
	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
)

// LookupArtwork queries the artwork client. Returns nil when lookups are
// disabled or iTunes has no match.
func (e *LibraryEngine) LookupArtwork(ctx context.Context, song, author string) *artwork.Artwork {
	if e.artwork == nil {
		return nil
	}
	return e.artwork.Lookup(ctx, song, author)
}

// RefreshArtwork forces a fresh lookup for one song and persists the result.
// The returned song carries the new URL even when the write-back fails.
func (e *LibraryEngine) RefreshArtwork(ctx context.Context, songID string) (*models.Song, error) {
	if e.artwork == nil {
		return nil, fmt.Errorf("%w: artwork lookups are disabled", shared.ErrInvalidConfig)
	}

	song, err := e.store.GetSong(ctx, songID)
	if err != nil {
		return nil, err
	}

	art := e.artwork.Refresh(ctx, song.Name, song.Author)
	if art == nil {
		e.logger.Info("no artwork found", "song", song.Name, "author", song.Author)
		return song, nil
	}

	song.ArtworkURL = art.Large
	e.persistArtwork(ctx, song.ID, song.Name, art.Large)
	return song, nil
}

// persistArtwork writes a resolved artwork URL back to the store. Failures
// log and are swallowed; the hosted backend may not have the column yet.
func (e *LibraryEngine) persistArtwork(ctx context.Context, songID, name, artworkURL string) {
	patch := models.SongPatch{ArtworkURL: models.Ptr(artworkURL)}
	if _, err := e.store.UpdateSong(ctx, songID, patch); err != nil {
		e.logger.Warn("failed to persist artwork URL", "song", name, "error", err)
	}
}
