package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
)

// MemoryStore is the process-lifetime fallback [Store] used when no hosted
// credentials are configured. Everything lives in mutex-guarded slices and is
// lost on exit.
type MemoryStore struct {
	mu          sync.Mutex
	lessons     []models.Lesson
	songs       []models.Song
	lessonSongs []models.LessonSongRelation
	logger      *log.Logger
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(logger *log.Logger) *MemoryStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MemoryStore{logger: logger}
}

func (m *MemoryStore) Mode() string { return ModeMemory }

// withSongs annotates a lesson with its practiced-song summaries. Relations
// pointing at deleted songs are skipped. Caller holds the lock.
func (m *MemoryStore) withSongs(lesson models.Lesson) models.Lesson {
	lesson.Songs = []models.SongSummary{}
	for _, rel := range m.lessonSongs {
		if rel.LessonID != lesson.ID {
			continue
		}
		for i := range m.songs {
			if m.songs[i].ID == rel.SongID {
				lesson.Songs = append(lesson.Songs, m.songs[i].Summary())
				break
			}
		}
	}
	return lesson
}

// ListLessons returns all lessons newest-date-first, each with its practiced songs.
func (m *MemoryStore) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lessons := make([]models.Lesson, 0, len(m.lessons))
	for _, l := range m.lessons {
		lessons = append(lessons, m.withSongs(l))
	}
	sortLessonsByDateDesc(lessons)
	return lessons, nil
}

// GetLesson returns one lesson with its practiced songs.
func (m *MemoryStore) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.lessons {
		if l.ID == id {
			result := m.withSongs(l)
			return &result, nil
		}
	}
	return nil, ErrNotFound
}

// CreateLesson inserts a lesson and attaches the given songs.
func (m *MemoryStore) CreateLesson(ctx context.Context, lesson *models.Lesson, songIDs []string) (*models.Lesson, error) {
	if err := lesson.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	created := *lesson
	created.ID = shared.GenerateID()
	created.CreatedAt = now
	created.UpdatedAt = now

	// Newest first, matching hosted created_at ordering
	m.lessons = append([]models.Lesson{created}, m.lessons...)

	for _, songID := range songIDs {
		m.lessonSongs = append(m.lessonSongs, models.LessonSongRelation{
			ID:        shared.GenerateID(),
			LessonID:  created.ID,
			SongID:    songID,
			CreatedAt: now,
		})
	}

	result := m.withSongs(created)
	return &result, nil
}

// UpdateLesson applies the patch and, when songIDs is non-nil, replaces the
// lesson's relations wholesale.
func (m *MemoryStore) UpdateLesson(ctx context.Context, id string, patch models.LessonPatch, songIDs []string) (*models.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i := range m.lessons {
		if m.lessons[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	// Patch a copy first so a rejected update leaves the stored lesson intact.
	updated := m.lessons[idx]
	patch.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	m.lessons[idx] = updated

	if songIDs != nil {
		m.removeLessonSongs(id)
		now := time.Now().UTC()
		for _, songID := range songIDs {
			m.lessonSongs = append(m.lessonSongs, models.LessonSongRelation{
				ID:        shared.GenerateID(),
				LessonID:  id,
				SongID:    songID,
				CreatedAt: now,
			})
		}
	}

	result := m.withSongs(m.lessons[idx])
	return &result, nil
}

// DeleteLesson removes a lesson and its join rows.
func (m *MemoryStore) DeleteLesson(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lessons {
		if m.lessons[i].ID == id {
			m.lessons = append(m.lessons[:i], m.lessons[i+1:]...)
			m.removeLessonSongs(id)
			return nil
		}
	}
	return ErrNotFound
}

// removeLessonSongs drops all join rows for a lesson. Caller holds the lock.
func (m *MemoryStore) removeLessonSongs(lessonID string) {
	kept := m.lessonSongs[:0]
	for _, rel := range m.lessonSongs {
		if rel.LessonID != lessonID {
			kept = append(kept, rel)
		}
	}
	m.lessonSongs = kept
}

// ListSongs returns all songs newest first.
func (m *MemoryStore) ListSongs(ctx context.Context) ([]models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	songs := make([]models.Song, len(m.songs))
	copy(songs, m.songs)
	return songs, nil
}

// GetSong returns one song by ID.
func (m *MemoryStore) GetSong(ctx context.Context, id string) (*models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.songs {
		if m.songs[i].ID == id {
			result := m.songs[i]
			return &result, nil
		}
	}
	return nil, ErrNotFound
}

// CreateSong inserts a song.
func (m *MemoryStore) CreateSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	if err := song.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	created := *song
	created.ID = shared.GenerateID()
	created.CreatedAt = now
	created.UpdatedAt = now

	m.songs = append([]models.Song{created}, m.songs...)

	result := created
	return &result, nil
}

// UpdateSong applies a partial patch to a song.
func (m *MemoryStore) UpdateSong(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.songs {
		if m.songs[i].ID == id {
			// Patch a copy first so a rejected update leaves the stored song intact.
			updated := m.songs[i]
			patch.Apply(&updated)
			updated.UpdatedAt = time.Now().UTC()
			if err := updated.Validate(); err != nil {
				return nil, err
			}
			m.songs[i] = updated
			result := updated
			return &result, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteSong removes a song. Join rows pointing at it are left behind and
// skipped during lesson assembly, mirroring the hosted store's referential
// cleanup being out of this layer's hands.
func (m *MemoryStore) DeleteSong(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.songs {
		if m.songs[i].ID == id {
			m.songs = append(m.songs[:i], m.songs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// sortLessonsByDateDesc orders lessons by calendar date descending, newest
// created first within a date. ISO dates compare correctly as strings.
func sortLessonsByDateDesc(lessons []models.Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		if lessons[i].Date != lessons[j].Date {
			return lessons[i].Date > lessons[j].Date
		}
		return lessons[i].CreatedAt.After(lessons[j].CreatedAt)
	})
}
