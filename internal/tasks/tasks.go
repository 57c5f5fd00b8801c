// package tasks orchestrates the record store and the artwork client behind
// a single engine the CLI and TUI layers share.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/fretlog/fretlog/internal/artwork"
	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
	"github.com/fretlog/fretlog/internal/store"
)

// Engine defines the library operations exposed to the presentation layers.
type Engine interface {
	// LoadSongs lists the repertoire, resolving cached artwork and warming
	// the artwork cache for the rest in the background.
	LoadSongs(ctx context.Context) ([]models.Song, error)

	// LoadLessons lists the lesson log, newest first.
	LoadLessons(ctx context.Context) ([]models.Lesson, error)

	AddSong(ctx context.Context, song *models.Song) (*models.Song, error)
	EditSong(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error)
	MoveSong(ctx context.Context, id string, category models.Category) (*models.Song, error)
	RemoveSong(ctx context.Context, id string) error
	GetSong(ctx context.Context, id string) (*models.Song, error)

	AddLesson(ctx context.Context, lesson *models.Lesson, songIDs []string) (*models.Lesson, error)
	EditLesson(ctx context.Context, id string, patch models.LessonPatch, songIDs []string) (*models.Lesson, error)
	RemoveLesson(ctx context.Context, id string) error
	GetLesson(ctx context.Context, id string) (*models.Lesson, error)

	// LookupArtwork queries the artwork client directly; nil when disabled
	// or unmatched.
	LookupArtwork(ctx context.Context, song, author string) *artwork.Artwork

	// RefreshArtwork drops a song's cached artwork, looks it up again, and
	// persists the new URL best-effort.
	RefreshArtwork(ctx context.Context, songID string) (*models.Song, error)

	ExportSongs(ctx context.Context, opts ExportOpts) (*ExportResult, error)
	ExportLessons(ctx context.Context, opts ExportOpts) (*ExportResult, error)
}

// Bucket is one category's slice of the repertoire.
type Bucket struct {
	Category models.Category
	Songs    []models.Song
}

// Buckets groups songs into the four category buckets in display order.
// Every category appears, empty or not, so tab indices stay stable.
func Buckets(songs []models.Song) []Bucket {
	buckets := make([]Bucket, 0, len(models.Categories()))
	for _, cat := range models.Categories() {
		bucket := Bucket{Category: cat, Songs: []models.Song{}}
		for _, song := range songs {
			if song.Category == cat {
				bucket.Songs = append(bucket.Songs, song)
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// LibraryEngine implements [Engine] on a [store.Store] and an optional
// artwork client. A nil artwork client disables lookups entirely.
type LibraryEngine struct {
	store   store.Store
	artwork *artwork.Client
	logger  *log.Logger
}

// NewLibraryEngine creates an engine. The artwork client may be nil.
func NewLibraryEngine(st store.Store, art *artwork.Client, logger *log.Logger) *LibraryEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LibraryEngine{store: st, artwork: art, logger: logger}
}

// LoadSongs lists the repertoire and fills in artwork. Songs whose artwork
// has already been looked up get the URL applied and written back; the rest
// warm in the background so a later load picks them up from cache.
func (e *LibraryEngine) LoadSongs(ctx context.Context) ([]models.Song, error) {
	songs, err := e.store.ListSongs(ctx)
	if err != nil {
		return nil, err
	}
	if e.artwork == nil {
		return songs, nil
	}

	var pending []models.Song
	for i := range songs {
		if songs[i].ArtworkURL != "" {
			continue
		}
		art, seen := e.artwork.Cached(songs[i].Name, songs[i].Author)
		if !seen {
			pending = append(pending, songs[i])
			continue
		}
		if art == nil {
			continue
		}
		songs[i].ArtworkURL = art.Large
		e.persistArtwork(ctx, songs[i].ID, songs[i].Name, art.Large)
	}

	if len(pending) > 0 {
		e.artwork.Preload(ctx, pending)
	}
	return songs, nil
}

// LoadLessons lists the lesson log.
func (e *LibraryEngine) LoadLessons(ctx context.Context) ([]models.Lesson, error) {
	return e.store.ListLessons(ctx)
}

func (e *LibraryEngine) AddSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	return e.store.CreateSong(ctx, song)
}

func (e *LibraryEngine) EditSong(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error) {
	return e.store.UpdateSong(ctx, id, patch)
}

// MoveSong reassigns a song's category bucket.
func (e *LibraryEngine) MoveSong(ctx context.Context, id string, category models.Category) (*models.Song, error) {
	if _, err := models.ParseCategory(string(category)); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return e.store.UpdateSong(ctx, id, models.SongPatch{Category: models.Ptr(category)})
}

func (e *LibraryEngine) RemoveSong(ctx context.Context, id string) error {
	return e.store.DeleteSong(ctx, id)
}

func (e *LibraryEngine) GetSong(ctx context.Context, id string) (*models.Song, error) {
	return e.store.GetSong(ctx, id)
}

func (e *LibraryEngine) AddLesson(ctx context.Context, lesson *models.Lesson, songIDs []string) (*models.Lesson, error) {
	return e.store.CreateLesson(ctx, lesson, songIDs)
}

func (e *LibraryEngine) EditLesson(ctx context.Context, id string, patch models.LessonPatch, songIDs []string) (*models.Lesson, error) {
	return e.store.UpdateLesson(ctx, id, patch, songIDs)
}

func (e *LibraryEngine) RemoveLesson(ctx context.Context, id string) error {
	return e.store.DeleteLesson(ctx, id)
}

func (e *LibraryEngine) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	return e.store.GetLesson(ctx, id)
}
