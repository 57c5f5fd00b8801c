// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the song library:
//  1. [SongListView] : Browse the repertoire by category tab (tab/shift+tab to cycle)
//  2. [LessonListView] : Browse the lesson log, newest first
//  3. [SongDetailView] : Full song record with links and artwork URL
//  4. [LessonDetailView] : Lesson notes and practiced songs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// All data access goes through [tasks.Engine]; the model keeps render-only copies
// and reloads via messages after mutations such as an artwork refresh.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, l/s, r, o, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
