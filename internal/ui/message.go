package ui

import (
	"github.com/fretlog/fretlog/internal/models"
)

// songsLoadedMsg carries the repertoire after a load or reload.
type songsLoadedMsg struct {
	songs []models.Song
	err   error
}

// lessonsLoadedMsg carries the lesson log.
type lessonsLoadedMsg struct {
	lessons []models.Lesson
	err     error
}

// artworkRefreshedMsg reports a forced artwork re-lookup for one song.
type artworkRefreshedMsg struct {
	song *models.Song
	err  error
}

// browserOpenedMsg reports the result of opening a song link externally.
type browserOpenedMsg struct {
	err error
}
