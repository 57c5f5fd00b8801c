package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
)

func newTestStore(serverURL string) *SupabaseStore {
	return NewSupabaseStore(shared.SupabaseConfig{
		URL:     serverURL,
		AnonKey: "test-anon-key",
	}, shared.NewLogger(io.Discard))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// requestLog records "METHOD /path" lines for asserting call sequences.
type requestLog struct {
	mu    sync.Mutex
	calls []string
}

func (r *requestLog) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req.Method+" "+req.URL.Path)
}

func (r *requestLog) count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func TestSupabaseStoreLessons(t *testing.T) {
	ctx := context.Background()

	t.Run("ListUsesViewFirst", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/rest/v1/lessons_with_songs" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("apikey") != "test-anon-key" {
				t.Error("expected apikey header")
			}
			if r.Header.Get("Authorization") != "Bearer test-anon-key" {
				t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
			}
			if got := r.URL.Query().Get("order"); got != "date.desc" {
				t.Errorf("expected date.desc ordering, got %q", got)
			}
			writeJSON(w, http.StatusOK, `[
				{"id":"l1","date":"2026-03-14","remaining_lessons":3,"notes":"barre chords",
				 "songs":[{"id":"s1","name":"Blackbird","author":"The Beatles","category":"rehearsing"}]},
				{"id":"l2","date":"2026-02-01","remaining_lessons":4,"notes":"","songs":null}
			]`)
		}))
		defer server.Close()

		lessons, err := newTestStore(server.URL).ListLessons(ctx)
		if err != nil {
			t.Fatalf("ListLessons failed: %v", err)
		}
		if len(lessons) != 2 {
			t.Fatalf("expected 2 lessons, got %d", len(lessons))
		}
		if len(lessons[0].Songs) != 1 || lessons[0].Songs[0].Name != "Blackbird" {
			t.Errorf("expected practiced song from view, got %+v", lessons[0].Songs)
		}
		if lessons[1].Songs == nil {
			t.Error("expected nil songs normalized to empty slice")
		}
	})

	t.Run("ListFallsBackWhenViewMissing", func(t *testing.T) {
		var reqs requestLog
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqs.add(r)
			switch r.URL.Path {
			case "/rest/v1/lessons_with_songs":
				writeJSON(w, http.StatusNotFound, `{"code":"42P01","message":"relation \"public.lessons_with_songs\" does not exist"}`)
			case "/rest/v1/lessons":
				writeJSON(w, http.StatusOK, `[
					{"id":"l1","date":"2026-03-14","remaining_lessons":3,"notes":""},
					{"id":"l2","date":"2026-02-01","remaining_lessons":4,"notes":""}
				]`)
			case "/rest/v1/lesson_songs":
				lessonID := strings.TrimPrefix(r.URL.Query().Get("lesson_id"), "eq.")
				if lessonID == "l1" {
					writeJSON(w, http.StatusOK, `[{"songs":{"id":"s1","name":"Angie","author":"The Rolling Stones","category":"studied"}}]`)
				} else {
					writeJSON(w, http.StatusOK, `[]`)
				}
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		s := newTestStore(server.URL)

		lessons, err := s.ListLessons(ctx)
		if err != nil {
			t.Fatalf("ListLessons failed: %v", err)
		}
		if len(lessons) != 2 {
			t.Fatalf("expected 2 lessons, got %d", len(lessons))
		}
		if len(lessons[0].Songs) != 1 || lessons[0].Songs[0].ID != "s1" {
			t.Errorf("expected manual join for l1, got %+v", lessons[0].Songs)
		}
		if len(lessons[1].Songs) != 0 {
			t.Errorf("expected empty songs for l2, got %+v", lessons[1].Songs)
		}

		// The missing view is cached; the second listing skips it
		if _, err := s.ListLessons(ctx); err != nil {
			t.Fatalf("second ListLessons failed: %v", err)
		}
		if got := reqs.count("GET /rest/v1/lessons_with_songs"); got != 1 {
			t.Errorf("expected exactly 1 view probe, got %d", got)
		}
	})

	t.Run("ListDegradesWhenRelationTableMissing", func(t *testing.T) {
		var reqs requestLog
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqs.add(r)
			switch r.URL.Path {
			case "/rest/v1/lessons_with_songs", "/rest/v1/lesson_songs":
				writeJSON(w, http.StatusNotFound, `{"code":"42P01","message":"relation does not exist"}`)
			case "/rest/v1/lessons":
				writeJSON(w, http.StatusOK, `[
					{"id":"l1","date":"2026-03-14","remaining_lessons":3,"notes":""},
					{"id":"l2","date":"2026-02-01","remaining_lessons":4,"notes":""}
				]`)
			}
		}))
		defer server.Close()

		lessons, err := newTestStore(server.URL).ListLessons(ctx)
		if err != nil {
			t.Fatalf("expected degraded listing, got error: %v", err)
		}
		if len(lessons) != 2 {
			t.Fatalf("expected all lesson rows, got %d", len(lessons))
		}
		for _, lesson := range lessons {
			if len(lesson.Songs) != 0 {
				t.Errorf("expected empty practiced songs, got %+v", lesson.Songs)
			}
		}
		// First failure marks the join table missing; no per-lesson fan-out after that
		if got := reqs.count("GET /rest/v1/lesson_songs"); got != 1 {
			t.Errorf("expected a single relation probe, got %d", got)
		}
	})

	t.Run("ListPropagatesPrimaryFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/rest/v1/lessons_with_songs" {
				writeJSON(w, http.StatusNotFound, `{"code":"42P01","message":"missing"}`)
				return
			}
			writeJSON(w, http.StatusInternalServerError, `{"message":"permission denied"}`)
		}))
		defer server.Close()

		_, err := newTestStore(server.URL).ListLessons(ctx)
		if err == nil {
			t.Fatal("expected pass-through error")
		}
		if !errors.Is(err, shared.ErrStoreRequest) {
			t.Errorf("expected ErrStoreRequest, got %v", err)
		}
	})

	t.Run("CreateAttachesSongsBestEffort", func(t *testing.T) {
		var reqs requestLog
		var relationBody string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqs.add(r)
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/lessons":
				if r.Header.Get("Prefer") != "return=representation" {
					t.Error("expected return=representation on insert")
				}
				writeJSON(w, http.StatusCreated, `[{"id":"l9","date":"2026-03-14","remaining_lessons":2,"notes":"new"}]`)
			case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/lesson_songs":
				data, _ := io.ReadAll(r.Body)
				relationBody = string(data)
				writeJSON(w, http.StatusCreated, `[]`)
			case r.URL.Path == "/rest/v1/lessons_with_songs":
				writeJSON(w, http.StatusOK, `[{"id":"l9","date":"2026-03-14","remaining_lessons":2,"notes":"new",
					"songs":[{"id":"s1","name":"Blackbird","author":"The Beatles","category":"rehearsing"}]}]`)
			default:
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
		}))
		defer server.Close()

		lesson, err := newTestStore(server.URL).CreateLesson(ctx, &models.Lesson{
			Date:             "2026-03-14",
			RemainingLessons: 2,
			Notes:            "new",
		}, []string{"s1"})
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}
		if lesson.ID != "l9" {
			t.Errorf("expected created lesson l9, got %s", lesson.ID)
		}
		if len(lesson.Songs) != 1 {
			t.Errorf("expected joined read-back, got %+v", lesson.Songs)
		}
		if !strings.Contains(relationBody, `"lesson_id":"l9"`) || !strings.Contains(relationBody, `"song_id":"s1"`) {
			t.Errorf("unexpected relation insert body: %s", relationBody)
		}
	})

	t.Run("CreateSurvivesRelationInsertFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/lessons":
				writeJSON(w, http.StatusCreated, `[{"id":"l9","date":"2026-03-14","remaining_lessons":2,"notes":""}]`)
			case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/lesson_songs":
				writeJSON(w, http.StatusNotFound, `{"code":"42P01","message":"relation does not exist"}`)
			case r.URL.Path == "/rest/v1/lessons_with_songs":
				writeJSON(w, http.StatusOK, `[{"id":"l9","date":"2026-03-14","remaining_lessons":2,"notes":"","songs":[]}]`)
			}
		}))
		defer server.Close()

		lesson, err := newTestStore(server.URL).CreateLesson(ctx, &models.Lesson{
			Date: "2026-03-14",
		}, []string{"s1"})
		if err != nil {
			t.Fatalf("expected lesson row to persist, got error: %v", err)
		}
		if lesson.ID != "l9" || len(lesson.Songs) != 0 {
			t.Errorf("expected bare lesson with no songs, got %+v", lesson)
		}
	})

	t.Run("CreateFallsBackToBareRowWhenViewReadFails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/lessons":
				writeJSON(w, http.StatusCreated, `[{"id":"l9","date":"2026-03-14","remaining_lessons":2,"notes":"x"}]`)
			case r.URL.Path == "/rest/v1/lessons_with_songs":
				writeJSON(w, http.StatusNotFound, `{"code":"42P01","message":"missing"}`)
			}
		}))
		defer server.Close()

		lesson, err := newTestStore(server.URL).CreateLesson(ctx, &models.Lesson{Date: "2026-03-14", RemainingLessons: 2, Notes: "x"}, nil)
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}
		if lesson.ID != "l9" || lesson.Notes != "x" {
			t.Errorf("expected bare inserted row, got %+v", lesson)
		}
		if lesson.Songs == nil || len(lesson.Songs) != 0 {
			t.Errorf("expected empty song list, got %+v", lesson.Songs)
		}
	})

	t.Run("UpdateSendsOnlySetFields", func(t *testing.T) {
		var patchBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/lessons":
				if got := r.URL.Query().Get("id"); got != "eq.l1" {
					t.Errorf("expected id=eq.l1 filter, got %q", got)
				}
				json.NewDecoder(r.Body).Decode(&patchBody)
				writeJSON(w, http.StatusOK, `[{"id":"l1","date":"2026-03-14","remaining_lessons":1,"notes":"old"}]`)
			case r.URL.Path == "/rest/v1/lessons_with_songs":
				writeJSON(w, http.StatusOK, `[{"id":"l1","date":"2026-03-14","remaining_lessons":1,"notes":"old","songs":[]}]`)
			}
		}))
		defer server.Close()

		_, err := newTestStore(server.URL).UpdateLesson(ctx, "l1", models.LessonPatch{
			RemainingLessons: models.Ptr(1),
		}, nil)
		if err != nil {
			t.Fatalf("UpdateLesson failed: %v", err)
		}

		if len(patchBody) != 1 {
			t.Errorf("expected only remaining_lessons in patch, got %v", patchBody)
		}
		if _, ok := patchBody["remaining_lessons"]; !ok {
			t.Errorf("expected remaining_lessons key, got %v", patchBody)
		}
	})

	t.Run("UpdateMissingIsNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `[]`)
		}))
		defer server.Close()

		_, err := newTestStore(server.URL).UpdateLesson(ctx, "missing", models.LessonPatch{Notes: models.Ptr("x")}, nil)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateReplacesRelationsDeleteThenInsert", func(t *testing.T) {
		var reqs requestLog
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqs.add(r)
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/lessons":
				writeJSON(w, http.StatusOK, `[{"id":"l1","date":"2026-03-14","remaining_lessons":1,"notes":""}]`)
			case r.Method == http.MethodDelete && r.URL.Path == "/rest/v1/lesson_songs":
				writeJSON(w, http.StatusNoContent, ``)
			case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/lesson_songs":
				writeJSON(w, http.StatusCreated, `[]`)
			case r.URL.Path == "/rest/v1/lessons_with_songs":
				writeJSON(w, http.StatusOK, `[{"id":"l1","date":"2026-03-14","remaining_lessons":1,"notes":"","songs":[]}]`)
			}
		}))
		defer server.Close()

		if _, err := newTestStore(server.URL).UpdateLesson(ctx, "l1", models.LessonPatch{}, []string{"s2"}); err != nil {
			t.Fatalf("UpdateLesson failed: %v", err)
		}

		if reqs.count("DELETE /rest/v1/lesson_songs") != 1 {
			t.Error("expected relation delete before insert")
		}
		if reqs.count("POST /rest/v1/lesson_songs") != 1 {
			t.Error("expected relation insert after delete")
		}
	})

	t.Run("DeleteIssuesFilteredDelete", func(t *testing.T) {
		var deleted bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete && r.URL.Path == "/rest/v1/lessons" && r.URL.Query().Get("id") == "eq.l1" {
				deleted = true
			}
			writeJSON(w, http.StatusNoContent, ``)
		}))
		defer server.Close()

		if err := newTestStore(server.URL).DeleteLesson(ctx, "l1"); err != nil {
			t.Fatalf("DeleteLesson failed: %v", err)
		}
		if !deleted {
			t.Error("expected DELETE /rest/v1/lessons?id=eq.l1")
		}
	})
}

func TestSupabaseStoreSongs(t *testing.T) {
	ctx := context.Background()

	t.Run("ListOrdersByCreation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("order"); got != "created_at.desc" {
				t.Errorf("expected created_at.desc, got %q", got)
			}
			writeJSON(w, http.StatusOK, `[{"id":"s1","name":"Blackbird","author":"The Beatles",
				"tabs_link":"https://t","video_link":"https://v","comments":"","category":"rehearsing"}]`)
		}))
		defer server.Close()

		songs, err := newTestStore(server.URL).ListSongs(ctx)
		if err != nil {
			t.Fatalf("ListSongs failed: %v", err)
		}
		if len(songs) != 1 || songs[0].Name != "Blackbird" {
			t.Errorf("unexpected songs: %+v", songs)
		}
	})

	t.Run("CreateReturnsRepresentation", func(t *testing.T) {
		var insertBody string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			insertBody = string(data)
			writeJSON(w, http.StatusCreated, `[{"id":"s9","name":"Angie","author":"The Rolling Stones",
				"tabs_link":"https://t","video_link":"https://v","comments":"","category":"want-to-learn"}]`)
		}))
		defer server.Close()

		song, err := newTestStore(server.URL).CreateSong(ctx, &models.Song{
			Name:      "Angie",
			Author:    "The Rolling Stones",
			TabsLink:  "https://t",
			VideoLink: "https://v",
			Category:  models.CategoryWantToLearn,
		})
		if err != nil {
			t.Fatalf("CreateSong failed: %v", err)
		}
		if song.ID != "s9" {
			t.Errorf("expected assigned id, got %q", song.ID)
		}
		if strings.Contains(insertBody, "recording_link") {
			t.Errorf("expected empty optional fields omitted, got %s", insertBody)
		}
	})

	t.Run("ArtworkColumnMissingDisablesWriteBack", func(t *testing.T) {
		var reqs requestLog
		var lastPatch map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqs.add(r)
			switch {
			case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/songs":
				body, _ := io.ReadAll(r.Body)
				patch := map[string]any{}
				json.Unmarshal(body, &patch)
				lastPatch = patch
				if _, hasArt := lastPatch["artwork_url"]; hasArt {
					writeJSON(w, http.StatusBadRequest, `{"code":"PGRST204","message":"Could not find the 'artwork_url' column of 'songs' in the schema cache"}`)
					return
				}
				writeJSON(w, http.StatusOK, `[{"id":"s1","name":"Blackbird","author":"The Beatles",
					"tabs_link":"https://t","video_link":"https://v","comments":"updated","category":"rehearsing"}]`)
			case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/songs":
				writeJSON(w, http.StatusOK, `[{"id":"s1","name":"Blackbird","author":"The Beatles",
					"tabs_link":"https://t","video_link":"https://v","comments":"","category":"rehearsing"}]`)
			}
		}))
		defer server.Close()

		s := newTestStore(server.URL)

		// Artwork-only patch degrades to a plain read
		song, err := s.UpdateSong(ctx, "s1", models.SongPatch{ArtworkURL: models.Ptr("https://img/600x600bb.jpg")})
		if err != nil {
			t.Fatalf("expected degradation, got error: %v", err)
		}
		if song.ID != "s1" {
			t.Errorf("expected current row back, got %+v", song)
		}

		// Capability is cached: later patches never mention the column
		if _, err := s.UpdateSong(ctx, "s1", models.SongPatch{
			Comments:   models.Ptr("updated"),
			ArtworkURL: models.Ptr("https://img/600x600bb.jpg"),
		}); err != nil {
			t.Fatalf("UpdateSong failed: %v", err)
		}
		if _, hasArt := lastPatch["artwork_url"]; hasArt {
			t.Errorf("expected artwork_url stripped after capability flip, got %v", lastPatch)
		}
	})

	t.Run("TransientPatchFailurePassesThrough", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"message":"permission denied"}`)
		}))
		defer server.Close()

		_, err := newTestStore(server.URL).UpdateSong(ctx, "s1", models.SongPatch{ArtworkURL: models.Ptr("https://img")})
		if !errors.Is(err, shared.ErrStoreRequest) {
			t.Errorf("expected pass-through ErrStoreRequest, got %v", err)
		}
	})
}

func TestMissingArtworkColumn(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{"pgrst204 code", fmt.Errorf("wrap: %w", &postgrestError{Code: "PGRST204", Message: "schema cache"}), true},
		{"column in message", fmt.Errorf("wrap: %w", &postgrestError{Code: "42703", Message: "column \"artwork_url\" does not exist"}), true},
		{"other postgrest error", fmt.Errorf("wrap: %w", &postgrestError{Code: "42P01", Message: "relation missing"}), false},
		{"plain error", errors.New("network down"), false},
		{"nil", nil, false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := missingArtworkColumn(tt.err); got != tt.want {
				t.Errorf("missingArtworkColumn() = %v, want %v", got, tt.want)
			}
		})
	}
}
