// package formatter renders songs and lessons to export formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
)

// Export format names accepted by [SongsTo] and [LessonsTo].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

// Formats lists the supported export format names.
func Formats() []string {
	return []string{FormatCSV, FormatMarkdown, FormatText, FormatJSON}
}

// Extension returns the file extension for a format name.
func Extension(format string) string {
	switch format {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	case FormatJSON:
		return ".json"
	default:
		return ".csv"
	}
}

// SongsTo renders songs in the named format.
func SongsTo(format string, songs []models.Song) ([]byte, error) {
	switch format {
	case FormatCSV:
		return SongsToCSV(songs)
	case FormatMarkdown:
		return SongsToMarkdown(songs), nil
	case FormatText:
		return SongsToText(songs), nil
	case FormatJSON:
		return shared.MarshalJSON(songs, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// LessonsTo renders lessons in the named format.
func LessonsTo(format string, lessons []models.Lesson) ([]byte, error) {
	switch format {
	case FormatCSV:
		return LessonsToCSV(lessons)
	case FormatMarkdown:
		return LessonsToMarkdown(lessons), nil
	case FormatText:
		return LessonsToText(lessons), nil
	case FormatJSON:
		return shared.MarshalJSON(lessons, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// SongsToCSV converts songs to CSV with columns: ID, Name, Author, Category, Tabs, Video, Recording, Comments
func SongsToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Author", "Category", "Tabs", "Video", "Recording", "Comments"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			song.ID,
			song.Name,
			song.Author,
			string(song.Category),
			song.TabsLink,
			song.VideoLink,
			song.RecordingLink,
			song.Comments,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SongsToMarkdown converts songs to a Markdown document grouped by category.
func SongsToMarkdown(songs []models.Song) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Repertoire\n\n")
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(songs)))

	for _, cat := range models.Categories() {
		var inCategory []models.Song
		for _, song := range songs {
			if song.Category == cat {
				inCategory = append(inCategory, song)
			}
		}
		if len(inCategory) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("\n## %s\n\n", cat.Title()))
		for i, song := range inCategory {
			buf.WriteString(fmt.Sprintf("%d. %s - %s [tabs](%s) [video](%s)", i+1, song.Author, song.Name, song.TabsLink, song.VideoLink))
			if song.RecordingLink != "" {
				buf.WriteString(fmt.Sprintf(" [recording](%s)", song.RecordingLink))
			}
			buf.WriteString("\n")
			if song.Comments != "" {
				buf.WriteString(fmt.Sprintf("   - %s\n", song.Comments))
			}
		}
	}

	return buf.Bytes()
}

// SongsToText converts songs to plain text.
func SongsToText(songs []models.Song) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))
	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, song.Author, song.Name, song.Category))
	}

	return buf.Bytes()
}

// LessonsToCSV converts lessons to CSV with columns: ID, Date, Remaining, Notes, Songs
//
// The Songs column joins practiced song names with "; ".
func LessonsToCSV(lessons []models.Lesson) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Date", "Remaining", "Notes", "Songs"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, lesson := range lessons {
		record := []string{
			lesson.ID,
			lesson.Date,
			strconv.Itoa(lesson.RemainingLessons),
			lesson.Notes,
			joinSongNames(lesson.Songs),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// LessonsToMarkdown converts lessons to a Markdown log, newest first as given.
func LessonsToMarkdown(lessons []models.Lesson) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Lesson Log\n\n")
	buf.WriteString(fmt.Sprintf("**Lessons**: %d\n", len(lessons)))

	for _, lesson := range lessons {
		buf.WriteString(fmt.Sprintf("\n## %s\n\n", lesson.Date))
		buf.WriteString(fmt.Sprintf("**Remaining in package**: %d\n", lesson.RemainingLessons))
		if lesson.Notes != "" {
			buf.WriteString(fmt.Sprintf("\n%s\n", lesson.Notes))
		}
		if len(lesson.Songs) > 0 {
			buf.WriteString("\nPracticed:\n")
			for _, song := range lesson.Songs {
				buf.WriteString(fmt.Sprintf("- %s - %s\n", song.Author, song.Name))
			}
		}
	}

	return buf.Bytes()
}

// LessonsToText converts lessons to plain text.
func LessonsToText(lessons []models.Lesson) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Lessons: %d\n\n", len(lessons)))
	for _, lesson := range lessons {
		buf.WriteString(fmt.Sprintf("%s  remaining=%d", lesson.Date, lesson.RemainingLessons))
		if names := joinSongNames(lesson.Songs); names != "" {
			buf.WriteString("  [" + names + "]")
		}
		buf.WriteString("\n")
		if lesson.Notes != "" {
			buf.WriteString("  " + lesson.Notes + "\n")
		}
	}

	return buf.Bytes()
}

func joinSongNames(songs []models.SongSummary) string {
	names := make([]string, 0, len(songs))
	for _, song := range songs {
		names = append(names, song.Name)
	}
	return strings.Join(names, "; ")
}
