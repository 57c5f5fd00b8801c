// package models defines the data model for the lesson log and song repertoire
package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is one of the four fixed repertoire buckets a song lives in.
type Category string

const (
	CategoryRehearsing  Category = "rehearsing"
	CategoryWantToLearn Category = "want-to-learn"
	CategoryStudied     Category = "studied"
	CategoryRecorded    Category = "recorded"
)

// Categories returns the four buckets in display order.
func Categories() []Category {
	return []Category{CategoryRehearsing, CategoryWantToLearn, CategoryStudied, CategoryRecorded}
}

// ParseCategory maps user input to a [Category].
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryRehearsing, CategoryWantToLearn, CategoryStudied, CategoryRecorded:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (want one of rehearsing, want-to-learn, studied, recorded)", s)
}

// Title returns a human-readable label for display in tabs and lists.
func (c Category) Title() string {
	switch c {
	case CategoryRehearsing:
		return "Rehearsing"
	case CategoryWantToLearn:
		return "Want to Learn"
	case CategoryStudied:
		return "Studied"
	case CategoryRecorded:
		return "Recorded"
	}
	return string(c)
}

// Song represents a repertoire entry.
//
// JSON tags use the hosted store's column names so the same struct
// round-trips through the PostgREST API.
type Song struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	Author        string    `json:"author"`
	TabsLink      string    `json:"tabs_link"`
	VideoLink     string    `json:"video_link"`
	Comments      string    `json:"comments"`
	RecordingLink string    `json:"recording_link,omitempty"`
	ArtworkURL    string    `json:"artwork_url,omitempty"`
	Category      Category  `json:"category"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Validate checks required song fields.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("song name is required")
	}
	if strings.TrimSpace(s.Author) == "" {
		return fmt.Errorf("song author is required")
	}
	if strings.TrimSpace(s.TabsLink) == "" {
		return fmt.Errorf("tabs link is required")
	}
	if strings.TrimSpace(s.VideoLink) == "" {
		return fmt.Errorf("video link is required")
	}
	if _, err := ParseCategory(string(s.Category)); err != nil {
		return err
	}
	return nil
}

// SongSummary is the slim song shape attached to lessons.
type SongSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Author     string   `json:"author"`
	Category   Category `json:"category"`
	ArtworkURL string   `json:"artwork_url,omitempty"`
}

// Summary returns the slim shape used when a song is attached to a lesson.
func (s *Song) Summary() SongSummary {
	return SongSummary{
		ID:         s.ID,
		Name:       s.Name,
		Author:     s.Author,
		Category:   s.Category,
		ArtworkURL: s.ArtworkURL,
	}
}

// Lesson represents a dated lesson log entry.
type Lesson struct {
	ID               string        `json:"id,omitempty"`
	Date             string        `json:"date"` // calendar date, YYYY-MM-DD
	RemainingLessons int           `json:"remaining_lessons"`
	Notes            string        `json:"notes"`
	CreatedAt        time.Time     `json:"created_at,omitempty"`
	UpdatedAt        time.Time     `json:"updated_at,omitempty"`
	Songs            []SongSummary `json:"songs,omitempty"` // practiced songs, empty when unresolved
}

// Validate checks required lesson fields.
func (l *Lesson) Validate() error {
	if strings.TrimSpace(l.Date) == "" {
		return fmt.Errorf("lesson date is required")
	}
	if _, err := time.Parse("2006-01-02", l.Date); err != nil {
		return fmt.Errorf("lesson date must be YYYY-MM-DD: %w", err)
	}
	if l.RemainingLessons < 0 {
		return fmt.Errorf("remaining lessons must be non-negative")
	}
	return nil
}

// LessonSongRelation is a join row linking a lesson to a practiced song.
type LessonSongRelation struct {
	ID        string    `json:"id,omitempty"`
	LessonID  string    `json:"lesson_id"`
	SongID    string    `json:"song_id"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SongPatch is a partial song update. Nil fields are left unchanged.
type SongPatch struct {
	Name          *string   `json:"name,omitempty"`
	Author        *string   `json:"author,omitempty"`
	TabsLink      *string   `json:"tabs_link,omitempty"`
	VideoLink     *string   `json:"video_link,omitempty"`
	Comments      *string   `json:"comments,omitempty"`
	RecordingLink *string   `json:"recording_link,omitempty"`
	ArtworkURL    *string   `json:"artwork_url,omitempty"`
	Category      *Category `json:"category,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p SongPatch) IsEmpty() bool {
	return p.Name == nil && p.Author == nil && p.TabsLink == nil && p.VideoLink == nil &&
		p.Comments == nil && p.RecordingLink == nil && p.ArtworkURL == nil && p.Category == nil
}

// Apply copies the set fields onto the song.
func (p SongPatch) Apply(s *Song) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Author != nil {
		s.Author = *p.Author
	}
	if p.TabsLink != nil {
		s.TabsLink = *p.TabsLink
	}
	if p.VideoLink != nil {
		s.VideoLink = *p.VideoLink
	}
	if p.Comments != nil {
		s.Comments = *p.Comments
	}
	if p.RecordingLink != nil {
		s.RecordingLink = *p.RecordingLink
	}
	if p.ArtworkURL != nil {
		s.ArtworkURL = *p.ArtworkURL
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
}

// LessonPatch is a partial lesson update. Nil fields are left unchanged.
type LessonPatch struct {
	Date             *string `json:"date,omitempty"`
	RemainingLessons *int    `json:"remaining_lessons,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p LessonPatch) IsEmpty() bool {
	return p.Date == nil && p.RemainingLessons == nil && p.Notes == nil
}

// Apply copies the set fields onto the lesson.
func (p LessonPatch) Apply(l *Lesson) {
	if p.Date != nil {
		l.Date = *p.Date
	}
	if p.RemainingLessons != nil {
		l.RemainingLessons = *p.RemainingLessons
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
