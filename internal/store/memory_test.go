package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
)

func sharedTestConfig(url, key string) *shared.Config {
	return &shared.Config{Supabase: shared.SupabaseConfig{URL: url, AnonKey: key}}
}

func seedSong(t *testing.T, s Store, name, author string) *models.Song {
	t.Helper()
	song, err := s.CreateSong(context.Background(), &models.Song{
		Name:      name,
		Author:    author,
		TabsLink:  "https://tabs.example.com/" + name,
		VideoLink: "https://youtube.com/watch?v=" + name,
		Category:  models.CategoryRehearsing,
	})
	if err != nil {
		t.Fatalf("failed to seed song %s: %v", name, err)
	}
	return song
}

func TestMemoryStoreSongs(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAssignsIDAndTimestamps", func(t *testing.T) {
		s := NewMemoryStore(nil)
		before := time.Now().UTC()

		song := seedSong(t, s, "Blackbird", "The Beatles")

		if song.ID == "" {
			t.Error("expected a non-empty ID")
		}
		if song.CreatedAt.Before(before) || song.UpdatedAt.Before(before) {
			t.Error("expected timestamps no earlier than the call time")
		}

		songs, err := s.ListSongs(ctx)
		if err != nil {
			t.Fatalf("ListSongs failed: %v", err)
		}
		if len(songs) != 1 || songs[0].ID != song.ID {
			t.Errorf("expected created song in listing, got %+v", songs)
		}
	})

	t.Run("CreateRejectsInvalid", func(t *testing.T) {
		s := NewMemoryStore(nil)
		_, err := s.CreateSong(ctx, &models.Song{Name: "No Author"})
		if err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		s := NewMemoryStore(nil)
		first := seedSong(t, s, "Yesterday", "The Beatles")
		second := seedSong(t, s, "Angie", "The Rolling Stones")

		songs, err := s.ListSongs(ctx)
		if err != nil {
			t.Fatalf("ListSongs failed: %v", err)
		}
		if songs[0].ID != second.ID || songs[1].ID != first.ID {
			t.Error("expected newest-first ordering")
		}
	})

	t.Run("UpdatePatchesOnlySetFields", func(t *testing.T) {
		s := NewMemoryStore(nil)
		song := seedSong(t, s, "Wish You Were Here", "Pink Floyd")

		updated, err := s.UpdateSong(ctx, song.ID, models.SongPatch{
			Category: models.Ptr(models.CategoryRecorded),
		})
		if err != nil {
			t.Fatalf("UpdateSong failed: %v", err)
		}

		if updated.Category != models.CategoryRecorded {
			t.Errorf("expected category recorded, got %s", updated.Category)
		}
		if updated.Name != song.Name || updated.Author != song.Author || updated.TabsLink != song.TabsLink {
			t.Error("untouched fields changed")
		}
		if !updated.UpdatedAt.After(song.UpdatedAt) && !updated.UpdatedAt.Equal(song.UpdatedAt) {
			t.Error("expected updated_at to advance")
		}
	})

	t.Run("CategoryMoveChangesBucket", func(t *testing.T) {
		s := NewMemoryStore(nil)
		song := seedSong(t, s, "Dust in the Wind", "Kansas")

		if _, err := s.UpdateSong(ctx, song.ID, models.SongPatch{Category: models.Ptr(models.CategoryRecorded)}); err != nil {
			t.Fatalf("UpdateSong failed: %v", err)
		}

		songs, _ := s.ListSongs(ctx)
		for _, got := range songs {
			if got.ID != song.ID {
				continue
			}
			if got.Category != models.CategoryRecorded {
				t.Errorf("expected song in recorded bucket, got %s", got.Category)
			}
		}
	})

	t.Run("UpdateMissingIsNotFound", func(t *testing.T) {
		s := NewMemoryStore(nil)
		_, err := s.UpdateSong(ctx, "missing", models.SongPatch{Comments: models.Ptr("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RejectedUpdateLeavesSongUntouched", func(t *testing.T) {
		s := NewMemoryStore(nil)
		song := seedSong(t, s, "Wonderwall", "Oasis")

		_, err := s.UpdateSong(ctx, song.ID, models.SongPatch{Name: models.Ptr("")})
		if err == nil {
			t.Fatal("expected validation error")
		}

		got, err := s.GetSong(ctx, song.ID)
		if err != nil {
			t.Fatalf("GetSong failed: %v", err)
		}
		if got.Name != song.Name {
			t.Errorf("failed update mutated the store: name %q", got.Name)
		}
		if !got.UpdatedAt.Equal(song.UpdatedAt) {
			t.Error("failed update advanced updated_at")
		}
	})

	t.Run("DeleteRemovesSong", func(t *testing.T) {
		s := NewMemoryStore(nil)
		song := seedSong(t, s, "Hallelujah", "Leonard Cohen")

		if err := s.DeleteSong(ctx, song.ID); err != nil {
			t.Fatalf("DeleteSong failed: %v", err)
		}

		songs, _ := s.ListSongs(ctx)
		for _, got := range songs {
			if got.ID == song.ID {
				t.Error("deleted song still listed")
			}
		}

		if err := s.DeleteSong(ctx, song.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on double delete, got %v", err)
		}
	})
}

func TestMemoryStoreLessons(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateWithSongs", func(t *testing.T) {
		s := NewMemoryStore(nil)
		s1 := seedSong(t, s, "Blackbird", "The Beatles")
		s2 := seedSong(t, s, "Angie", "The Rolling Stones")

		lesson, err := s.CreateLesson(ctx, &models.Lesson{
			Date:             "2026-03-14",
			RemainingLessons: 7,
			Notes:            "fingerpicking",
		}, []string{s1.ID, s2.ID})
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}

		if lesson.ID == "" {
			t.Error("expected a non-empty lesson ID")
		}
		if len(lesson.Songs) != 2 {
			t.Fatalf("expected 2 practiced songs, got %d", len(lesson.Songs))
		}

		got := map[string]bool{}
		for _, sum := range lesson.Songs {
			got[sum.ID] = true
		}
		if !got[s1.ID] || !got[s2.ID] {
			t.Errorf("expected summaries for both songs, got %+v", lesson.Songs)
		}
	})

	t.Run("ListOrdersByDateDescending", func(t *testing.T) {
		s := NewMemoryStore(nil)
		for _, date := range []string{"2026-01-05", "2026-03-01", "2026-02-11"} {
			if _, err := s.CreateLesson(ctx, &models.Lesson{Date: date}, nil); err != nil {
				t.Fatalf("CreateLesson failed: %v", err)
			}
		}

		lessons, err := s.ListLessons(ctx)
		if err != nil {
			t.Fatalf("ListLessons failed: %v", err)
		}

		want := []string{"2026-03-01", "2026-02-11", "2026-01-05"}
		for i, lesson := range lessons {
			if lesson.Date != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], lesson.Date)
			}
		}
	})

	t.Run("UpdateReplacesRelations", func(t *testing.T) {
		s := NewMemoryStore(nil)
		s1 := seedSong(t, s, "Blackbird", "The Beatles")
		s2 := seedSong(t, s, "Angie", "The Rolling Stones")

		lesson, err := s.CreateLesson(ctx, &models.Lesson{Date: "2026-03-14"}, []string{s1.ID})
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}

		updated, err := s.UpdateLesson(ctx, lesson.ID, models.LessonPatch{}, []string{s2.ID})
		if err != nil {
			t.Fatalf("UpdateLesson failed: %v", err)
		}
		if len(updated.Songs) != 1 || updated.Songs[0].ID != s2.ID {
			t.Errorf("expected relations replaced with s2, got %+v", updated.Songs)
		}
	})

	t.Run("UpdateWithExplicitEmptyClearsRelations", func(t *testing.T) {
		s := NewMemoryStore(nil)
		s1 := seedSong(t, s, "Blackbird", "The Beatles")

		lesson, err := s.CreateLesson(ctx, &models.Lesson{Date: "2026-03-14"}, []string{s1.ID})
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}

		updated, err := s.UpdateLesson(ctx, lesson.ID, models.LessonPatch{}, []string{})
		if err != nil {
			t.Fatalf("UpdateLesson failed: %v", err)
		}
		if len(updated.Songs) != 0 {
			t.Errorf("expected cleared relations, got %+v", updated.Songs)
		}

		lessons, _ := s.ListLessons(ctx)
		if len(lessons) != 1 || len(lessons[0].Songs) != 0 {
			t.Errorf("expected empty practiced songs after clear, got %+v", lessons)
		}
	})

	t.Run("UpdateWithNilKeepsRelations", func(t *testing.T) {
		s := NewMemoryStore(nil)
		s1 := seedSong(t, s, "Blackbird", "The Beatles")

		lesson, err := s.CreateLesson(ctx, &models.Lesson{Date: "2026-03-14"}, []string{s1.ID})
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}

		updated, err := s.UpdateLesson(ctx, lesson.ID, models.LessonPatch{Notes: models.Ptr("new notes")}, nil)
		if err != nil {
			t.Fatalf("UpdateLesson failed: %v", err)
		}
		if updated.Notes != "new notes" {
			t.Errorf("expected patched notes, got %q", updated.Notes)
		}
		if len(updated.Songs) != 1 {
			t.Errorf("expected relations untouched, got %+v", updated.Songs)
		}
	})

	t.Run("UpdateMissingIsNotFound", func(t *testing.T) {
		s := NewMemoryStore(nil)
		_, err := s.UpdateLesson(ctx, "missing", models.LessonPatch{}, nil)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RejectedUpdateLeavesLessonUntouched", func(t *testing.T) {
		s := NewMemoryStore(nil)
		lesson, err := s.CreateLesson(ctx, &models.Lesson{Date: "2026-03-14", RemainingLessons: 7}, nil)
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}

		_, err = s.UpdateLesson(ctx, lesson.ID, models.LessonPatch{RemainingLessons: models.Ptr(-5)}, nil)
		if err == nil {
			t.Fatal("expected validation error")
		}

		got, err := s.GetLesson(ctx, lesson.ID)
		if err != nil {
			t.Fatalf("GetLesson failed: %v", err)
		}
		if got.RemainingLessons != 7 {
			t.Errorf("failed update mutated the store: remaining %d", got.RemainingLessons)
		}
		if !got.UpdatedAt.Equal(lesson.UpdatedAt) {
			t.Error("failed update advanced updated_at")
		}
	})

	t.Run("DeleteRemovesLessonAndRelations", func(t *testing.T) {
		s := NewMemoryStore(nil)
		s1 := seedSong(t, s, "Blackbird", "The Beatles")

		lesson, err := s.CreateLesson(ctx, &models.Lesson{Date: "2026-03-14"}, []string{s1.ID})
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}

		if err := s.DeleteLesson(ctx, lesson.ID); err != nil {
			t.Fatalf("DeleteLesson failed: %v", err)
		}

		lessons, _ := s.ListLessons(ctx)
		if len(lessons) != 0 {
			t.Errorf("expected no lessons, got %+v", lessons)
		}

		if err := s.DeleteLesson(ctx, lesson.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on double delete, got %v", err)
		}
	})

	t.Run("DeletedSongSkippedInSummaries", func(t *testing.T) {
		s := NewMemoryStore(nil)
		s1 := seedSong(t, s, "Blackbird", "The Beatles")
		s2 := seedSong(t, s, "Angie", "The Rolling Stones")

		lesson, err := s.CreateLesson(ctx, &models.Lesson{Date: "2026-03-14"}, []string{s1.ID, s2.ID})
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}

		if err := s.DeleteSong(ctx, s1.ID); err != nil {
			t.Fatalf("DeleteSong failed: %v", err)
		}

		got, err := s.GetLesson(ctx, lesson.ID)
		if err != nil {
			t.Fatalf("GetLesson failed: %v", err)
		}
		if len(got.Songs) != 1 || got.Songs[0].ID != s2.ID {
			t.Errorf("expected dangling relation skipped, got %+v", got.Songs)
		}
	})
}

func TestOpenSelectsMode(t *testing.T) {
	t.Run("MemoryWithoutCredentials", func(t *testing.T) {
		s := Open(sharedTestConfig("", ""), nil)
		if s.Mode() != ModeMemory {
			t.Errorf("expected memory mode, got %s", s.Mode())
		}
	})

	t.Run("HostedWithCredentials", func(t *testing.T) {
		s := Open(sharedTestConfig("https://myproject.supabase.co", "anon-key"), nil)
		if s.Mode() != ModeHosted {
			t.Errorf("expected hosted mode, got %s", s.Mode())
		}
	})

	t.Run("MemoryWithInsecureURL", func(t *testing.T) {
		s := Open(sharedTestConfig("http://myproject.supabase.co", "anon-key"), nil)
		if s.Mode() != ModeMemory {
			t.Errorf("expected memory mode, got %s", s.Mode())
		}
	})
}
