// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/fretlog/fretlog/internal/artwork"
	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/store"
	"github.com/fretlog/fretlog/internal/tasks"
)

// MockEngine is a canned test double for [tasks.Engine]. Responses come from
// the exported fields; Err, when set, is returned from every operation.
type MockEngine struct {
	Songs   []models.Song
	Lessons []models.Lesson
	Artwork *artwork.Artwork
	Export  *tasks.ExportResult
	Err     error

	// Calls records the operations invoked, in order.
	Calls []string
}

func (m *MockEngine) record(op string) { m.Calls = append(m.Calls, op) }

func (m *MockEngine) LoadSongs(ctx context.Context) ([]models.Song, error) {
	m.record("LoadSongs")
	return m.Songs, m.Err
}

func (m *MockEngine) LoadLessons(ctx context.Context) ([]models.Lesson, error) {
	m.record("LoadLessons")
	return m.Lessons, m.Err
}

func (m *MockEngine) AddSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	m.record("AddSong")
	if m.Err != nil {
		return nil, m.Err
	}
	return song, nil
}

func (m *MockEngine) EditSong(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error) {
	m.record("EditSong")
	return m.firstSong()
}

func (m *MockEngine) MoveSong(ctx context.Context, id string, category models.Category) (*models.Song, error) {
	m.record("MoveSong")
	song, err := m.firstSong()
	if song != nil {
		song.Category = category
	}
	return song, err
}

func (m *MockEngine) RemoveSong(ctx context.Context, id string) error {
	m.record("RemoveSong")
	return m.Err
}

func (m *MockEngine) GetSong(ctx context.Context, id string) (*models.Song, error) {
	m.record("GetSong")
	return m.firstSong()
}

func (m *MockEngine) AddLesson(ctx context.Context, lesson *models.Lesson, songIDs []string) (*models.Lesson, error) {
	m.record("AddLesson")
	if m.Err != nil {
		return nil, m.Err
	}
	return lesson, nil
}

func (m *MockEngine) EditLesson(ctx context.Context, id string, patch models.LessonPatch, songIDs []string) (*models.Lesson, error) {
	m.record("EditLesson")
	return m.firstLesson()
}

func (m *MockEngine) RemoveLesson(ctx context.Context, id string) error {
	m.record("RemoveLesson")
	return m.Err
}

func (m *MockEngine) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	m.record("GetLesson")
	return m.firstLesson()
}

func (m *MockEngine) LookupArtwork(ctx context.Context, song, author string) *artwork.Artwork {
	m.record("LookupArtwork")
	return m.Artwork
}

func (m *MockEngine) RefreshArtwork(ctx context.Context, songID string) (*models.Song, error) {
	m.record("RefreshArtwork")
	return m.firstSong()
}

func (m *MockEngine) ExportSongs(ctx context.Context, opts tasks.ExportOpts) (*tasks.ExportResult, error) {
	m.record("ExportSongs")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Export, nil
}

func (m *MockEngine) ExportLessons(ctx context.Context, opts tasks.ExportOpts) (*tasks.ExportResult, error) {
	m.record("ExportLessons")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Export, nil
}

func (m *MockEngine) firstSong() (*models.Song, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Songs) == 0 {
		return nil, store.ErrNotFound
	}
	song := m.Songs[0]
	return &song, nil
}

func (m *MockEngine) firstLesson() (*models.Lesson, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Lessons) == 0 {
		return nil, store.ErrNotFound
	}
	lesson := m.Lessons[0]
	return &lesson, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
