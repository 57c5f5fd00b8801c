// Supabase (PostgREST) implementation of [Store]
//
// Wire format per https://postgrest.org/en/stable/references/api.html
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
	"golang.org/x/oauth2"
)

const (
	lessonsTable     = "lessons"
	songsTable       = "songs"
	lessonSongsTable = "lesson_songs"
	lessonsView      = "lessons_with_songs"

	// Column list for the embedded song summaries on a relation read
	relationSelect = "songs(id,name,author,category,artwork_url)"
)

// capabilities records optional schema elements discovered missing at
// runtime. A flag flips at most once per process; there is no re-probing.
type capabilities struct {
	mu            sync.Mutex
	viewMissing   bool // lessons_with_songs view absent
	joinMissing   bool // lesson_songs table absent
	artworkColumn bool // songs.artwork_url column absent
}

func (c *capabilities) viewOK() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.viewMissing
}

func (c *capabilities) markViewMissing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewMissing = true
}

func (c *capabilities) joinOK() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.joinMissing
}

func (c *capabilities) markJoinMissing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joinMissing = true
}

func (c *capabilities) artworkOK() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.artworkColumn
}

func (c *capabilities) markArtworkMissing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artworkColumn = true
}

// postgrestError is the JSON error body PostgREST returns on failure.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
	Status  int    `json:"-"`
}

func (e *postgrestError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("postgrest error %s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("postgrest error (status %d): %s", e.Status, e.Message)
}

// missingArtworkColumn reports whether err is PostgREST telling us the
// songs.artwork_url column does not exist (schema cache code PGRST204, or a
// message naming the column). Only this narrow case disables write-back;
// transient failures stay enabled.
func missingArtworkColumn(err error) bool {
	var pgErr *postgrestError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "PGRST204" || strings.Contains(pgErr.Message, "artwork_url")
}

// SupabaseStore implements [Store] against a hosted Supabase project's
// PostgREST API. All non-fallback failures pass through to the caller
// wrapped in [shared.ErrStoreRequest]; nothing is retried.
type SupabaseStore struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *log.Logger
	caps       capabilities
}

// NewSupabaseStore creates a hosted store client. The anon key rides on
// every request both as the apikey header and as a static bearer token.
func NewSupabaseStore(cfg shared.SupabaseConfig, logger *log.Logger) *SupabaseStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AnonKey})

	return &SupabaseStore{
		baseURL:    strings.TrimRight(cfg.URL, "/") + "/rest/v1",
		anonKey:    cfg.AnonKey,
		httpClient: oauth2.NewClient(context.Background(), src),
		logger:     logger,
	}
}

func (s *SupabaseStore) Mode() string { return ModeHosted }

// do performs one PostgREST request. A non-2xx response decodes into a
// *postgrestError; result may be nil for calls without a body of interest.
func (s *SupabaseStore) do(ctx context.Context, method, table string, query url.Values, body any, result any) error {
	endpoint := s.baseURL + "/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		pgErr := &postgrestError{Status: resp.StatusCode}
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			// Body may be empty or non-JSON; keep the status either way
			_ = json.Unmarshal(data, pgErr)
			if pgErr.Message == "" {
				pgErr.Message = strings.TrimSpace(string(data))
			}
		}
		return fmt.Errorf("%w: %s %s: %w", shared.ErrStoreRequest, method, table, pgErr)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ListLessons returns all lessons ordered by date descending, annotated with
// practiced songs. The pre-joined view is preferred; on its first failure the
// store falls back permanently to per-lesson relation reads, and a lesson
// whose relation read fails simply carries no songs.
func (s *SupabaseStore) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	if s.caps.viewOK() {
		query := url.Values{}
		query.Set("select", "*")
		query.Set("order", "date.desc")

		var lessons []models.Lesson
		err := s.do(ctx, http.MethodGet, lessonsView, query, nil, &lessons)
		if err == nil {
			return normalizeLessons(lessons), nil
		}
		s.logger.Warn("lessons_with_songs view unavailable, falling back to manual join", "error", err)
		s.caps.markViewMissing()
	}

	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "date.desc")

	var lessons []models.Lesson
	if err := s.do(ctx, http.MethodGet, lessonsTable, query, nil, &lessons); err != nil {
		return nil, err
	}

	for i := range lessons {
		lessons[i].Songs = s.fetchLessonSongs(ctx, lessons[i].ID)
	}
	return lessons, nil
}

// GetLesson returns one lesson with its practiced songs, view-first.
func (s *SupabaseStore) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	if s.caps.viewOK() {
		lesson, err := s.fetchLessonRow(ctx, lessonsView, id)
		switch {
		case err == nil:
			return lesson, nil
		case errors.Is(err, ErrNotFound):
			return nil, ErrNotFound
		default:
			s.logger.Warn("lessons_with_songs view unavailable, falling back to manual join", "error", err)
			s.caps.markViewMissing()
		}
	}

	lesson, err := s.fetchLessonRow(ctx, lessonsTable, id)
	if err != nil {
		return nil, err
	}
	lesson.Songs = s.fetchLessonSongs(ctx, id)
	return lesson, nil
}

func (s *SupabaseStore) fetchLessonRow(ctx context.Context, table, id string) (*models.Lesson, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id)

	var lessons []models.Lesson
	if err := s.do(ctx, http.MethodGet, table, query, nil, &lessons); err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, ErrNotFound
	}
	lesson := lessons[0]
	if lesson.Songs == nil {
		lesson.Songs = []models.SongSummary{}
	}
	return &lesson, nil
}

// fetchLessonSongs reads the join rows for one lesson, degrading to an empty
// list on any failure. The first failure marks the join table missing for
// the rest of the process.
func (s *SupabaseStore) fetchLessonSongs(ctx context.Context, lessonID string) []models.SongSummary {
	if !s.caps.joinOK() {
		return []models.SongSummary{}
	}

	query := url.Values{}
	query.Set("select", relationSelect)
	query.Set("lesson_id", "eq."+lessonID)

	var rows []struct {
		Song models.SongSummary `json:"songs"`
	}
	if err := s.do(ctx, http.MethodGet, lessonSongsTable, query, nil, &rows); err != nil {
		s.logger.Warn("lesson_songs unavailable, returning lesson without songs", "lesson", lessonID, "error", err)
		s.caps.markJoinMissing()
		return []models.SongSummary{}
	}

	songs := make([]models.SongSummary, 0, len(rows))
	for _, row := range rows {
		if row.Song.ID != "" {
			songs = append(songs, row.Song)
		}
	}
	return songs
}

// CreateLesson inserts the lesson row, then attaches songs best-effort: a
// relation insert failure is logged and swallowed, never rolled back.
func (s *SupabaseStore) CreateLesson(ctx context.Context, lesson *models.Lesson, songIDs []string) (*models.Lesson, error) {
	if err := lesson.Validate(); err != nil {
		return nil, err
	}

	insert := map[string]any{
		"date":              lesson.Date,
		"remaining_lessons": lesson.RemainingLessons,
		"notes":             lesson.Notes,
	}

	var created []models.Lesson
	if err := s.do(ctx, http.MethodPost, lessonsTable, nil, []map[string]any{insert}, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("%w: insert returned no representation", shared.ErrStoreRequest)
	}
	row := created[0]

	if len(songIDs) > 0 {
		s.insertLessonSongs(ctx, row.ID, songIDs)
	}

	return s.readBackLesson(ctx, row), nil
}

// UpdateLesson patches the set fields; a non-nil songIDs replaces all
// relations via delete-all-then-insert, best-effort and non-atomic.
func (s *SupabaseStore) UpdateLesson(ctx context.Context, id string, patch models.LessonPatch, songIDs []string) (*models.Lesson, error) {
	var row models.Lesson

	if patch.IsEmpty() {
		existing, err := s.fetchLessonRow(ctx, lessonsTable, id)
		if err != nil {
			return nil, err
		}
		row = *existing
	} else {
		query := url.Values{}
		query.Set("id", "eq."+id)

		var updated []models.Lesson
		if err := s.do(ctx, http.MethodPatch, lessonsTable, query, patch, &updated); err != nil {
			return nil, err
		}
		if len(updated) == 0 {
			return nil, ErrNotFound
		}
		row = updated[0]
	}

	if songIDs != nil {
		s.replaceLessonSongs(ctx, id, songIDs)
	}

	return s.readBackLesson(ctx, row), nil
}

// readBackLesson fetches the joined shape for a freshly written row, falling
// back to the bare row with no songs when the view read fails.
func (s *SupabaseStore) readBackLesson(ctx context.Context, row models.Lesson) *models.Lesson {
	if s.caps.viewOK() {
		lesson, err := s.fetchLessonRow(ctx, lessonsView, row.ID)
		if err == nil {
			return lesson
		}
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("lessons_with_songs view unavailable, returning bare lesson", "error", err)
			s.caps.markViewMissing()
		}
	}
	row.Songs = []models.SongSummary{}
	return &row
}

// insertLessonSongs attaches songs to a lesson, logging and swallowing any failure.
func (s *SupabaseStore) insertLessonSongs(ctx context.Context, lessonID string, songIDs []string) {
	if !s.caps.joinOK() {
		return
	}

	rows := make([]map[string]any, 0, len(songIDs))
	for _, songID := range songIDs {
		rows = append(rows, map[string]any{"lesson_id": lessonID, "song_id": songID})
	}

	if err := s.do(ctx, http.MethodPost, lessonSongsTable, nil, rows, nil); err != nil {
		s.logger.Warn("failed to attach songs to lesson", "lesson", lessonID, "error", err)
		s.caps.markJoinMissing()
	}
}

// replaceLessonSongs deletes all join rows for the lesson and inserts the new
// set. A delete success followed by an insert failure leaves the lesson with
// no songs recorded; that is accepted, not surfaced.
func (s *SupabaseStore) replaceLessonSongs(ctx context.Context, lessonID string, songIDs []string) {
	if !s.caps.joinOK() {
		return
	}

	query := url.Values{}
	query.Set("lesson_id", "eq."+lessonID)

	if err := s.do(ctx, http.MethodDelete, lessonSongsTable, query, nil, nil); err != nil {
		s.logger.Warn("failed to clear song relations, skipping update", "lesson", lessonID, "error", err)
		s.caps.markJoinMissing()
		return
	}

	if len(songIDs) > 0 {
		s.insertLessonSongs(ctx, lessonID, songIDs)
	}
}

// DeleteLesson removes the lesson row. Join-row cleanup is the hosted
// store's own referential rule, not this layer's.
func (s *SupabaseStore) DeleteLesson(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	return s.do(ctx, http.MethodDelete, lessonsTable, query, nil, nil)
}

// ListSongs returns all songs ordered by creation time descending.
func (s *SupabaseStore) ListSongs(ctx context.Context) ([]models.Song, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")

	var songs []models.Song
	if err := s.do(ctx, http.MethodGet, songsTable, query, nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// GetSong returns one song by ID.
func (s *SupabaseStore) GetSong(ctx context.Context, id string) (*models.Song, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id)

	var songs []models.Song
	if err := s.do(ctx, http.MethodGet, songsTable, query, nil, &songs); err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, ErrNotFound
	}
	return &songs[0], nil
}

// CreateSong inserts a song. The artwork URL is dropped from the insert once
// the column is known missing.
func (s *SupabaseStore) CreateSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	if err := song.Validate(); err != nil {
		return nil, err
	}

	insert := map[string]any{
		"name":       song.Name,
		"author":     song.Author,
		"tabs_link":  song.TabsLink,
		"video_link": song.VideoLink,
		"comments":   song.Comments,
		"category":   song.Category,
	}
	if song.RecordingLink != "" {
		insert["recording_link"] = song.RecordingLink
	}
	if song.ArtworkURL != "" && s.caps.artworkOK() {
		insert["artwork_url"] = song.ArtworkURL
	}

	var created []models.Song
	if err := s.do(ctx, http.MethodPost, songsTable, nil, []map[string]any{insert}, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("%w: insert returned no representation", shared.ErrStoreRequest)
	}
	return &created[0], nil
}

// UpdateSong applies a partial patch. A patch rejected because the
// artwork_url column is missing flips that capability once and the write is
// retried without the column; other failures pass through.
func (s *SupabaseStore) UpdateSong(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error) {
	if patch.ArtworkURL != nil && !s.caps.artworkOK() {
		patch.ArtworkURL = nil
	}
	if patch.IsEmpty() {
		return s.GetSong(ctx, id)
	}

	query := url.Values{}
	query.Set("id", "eq."+id)

	var updated []models.Song
	err := s.do(ctx, http.MethodPatch, songsTable, query, patch, &updated)
	if err != nil && patch.ArtworkURL != nil && missingArtworkColumn(err) {
		s.logger.Warn("artwork_url column not found, disabling artwork persistence; run the migration to enable it")
		s.caps.markArtworkMissing()
		patch.ArtworkURL = nil
		if patch.IsEmpty() {
			return s.GetSong(ctx, id)
		}
		err = s.do(ctx, http.MethodPatch, songsTable, query, patch, &updated)
	}
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, ErrNotFound
	}
	return &updated[0], nil
}

// DeleteSong removes a song row.
func (s *SupabaseStore) DeleteSong(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	return s.do(ctx, http.MethodDelete, songsTable, query, nil, nil)
}

// normalizeLessons replaces nil song lists with empty ones so callers can
// range without nil checks.
func normalizeLessons(lessons []models.Lesson) []models.Lesson {
	for i := range lessons {
		if lessons[i].Songs == nil {
			lessons[i].Songs = []models.SongSummary{}
		}
	}
	return lessons
}
