package store

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Mode names for [Store.Mode].
const (
	ModeHosted = "hosted"
	ModeMemory = "memory"
)

// Store defines the persistence interface for lessons, songs, and their join
// relation. Two implementations exist: [SupabaseStore] talks to a hosted
// PostgREST backend, [MemoryStore] keeps everything in process memory.
// Callers never branch on which one they hold.
type Store interface {
	// Lessons. songIDs on create attaches practiced songs best-effort; on
	// update a non-nil songIDs (including an empty one) replaces all
	// existing relations, nil leaves them untouched.
	ListLessons(ctx context.Context) ([]models.Lesson, error)
	GetLesson(ctx context.Context, id string) (*models.Lesson, error)
	CreateLesson(ctx context.Context, lesson *models.Lesson, songIDs []string) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, id string, patch models.LessonPatch, songIDs []string) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id string) error

	// Songs, newest first.
	ListSongs(ctx context.Context) ([]models.Song, error)
	GetSong(ctx context.Context, id string) (*models.Song, error)
	CreateSong(ctx context.Context, song *models.Song) (*models.Song, error)
	UpdateSong(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error)
	DeleteSong(ctx context.Context, id string) error

	// Mode reports which backend is active, [ModeHosted] or [ModeMemory].
	Mode() string
}

// Open selects the backend once at startup: hosted when the Supabase
// credentials pass [shared.Config.SupabaseConfigured], in-memory otherwise.
func Open(config *shared.Config, logger *log.Logger) Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	if config.SupabaseConfigured() {
		return NewSupabaseStore(config.Supabase, shared.WithLogger(logger, "store", ModeHosted))
	}

	logger.Warn("supabase not configured, using in-memory store; data will not survive a restart")
	return NewMemoryStore(shared.WithLogger(logger, "store", ModeMemory))
}
