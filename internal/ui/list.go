package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/fretlog/fretlog/internal/models"
)

var (
	_ list.Item = songItem{}
	_ list.Item = lessonItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Name }
func (i songItem) Title() string       { return i.song.Name }
func (i songItem) Description() string {
	desc := i.song.Author
	if i.song.Comments != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Comments)
	}
	return desc
}

// lessonItem wraps [models.Lesson] to implement [list.Item].
type lessonItem struct {
	lesson models.Lesson
}

func (i lessonItem) FilterValue() string { return i.lesson.Date }
func (i lessonItem) Title() string       { return i.lesson.Date }
func (i lessonItem) Description() string {
	desc := fmt.Sprintf("%d lessons remaining", i.lesson.RemainingLessons)
	if len(i.lesson.Songs) > 0 {
		desc = fmt.Sprintf("%s • %d songs practiced", desc, len(i.lesson.Songs))
	}
	return desc
}
