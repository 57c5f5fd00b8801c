package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
	"github.com/fretlog/fretlog/internal/store"
	"github.com/fretlog/fretlog/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongListView ViewState = iota
	LessonListView
	SongDetailView
	LessonDetailView
)

// Model represents the TUI application state. Data lives in the engine; the
// model holds render-only copies refreshed through messages.
type Model struct {
	ctx       context.Context
	view      ViewState
	engine    tasks.Engine
	storeMode string
	width     int
	height    int

	tab      int
	buckets  []tasks.Bucket
	songList list.Model

	lessonList    list.Model
	lessonsLoaded bool

	selectedSong   *models.Song
	selectedLesson *models.Lesson

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model on the provided engine. storeMode is the
// active backend name, shown as a status line when records are not persisted.
func NewModel(ctx context.Context, engine tasks.Engine, storeMode string) *Model {
	return &Model{
		ctx:       ctx,
		view:      SongListView,
		engine:    engine,
		storeMode: storeMode,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading the repertoire.
func (m *Model) Init() tea.Cmd {
	return m.loadSongs()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(msg.Width-4, msg.Height-10)
		m.lessonList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SongListView:
			return m.handleSongListKeys(msg)
		case LessonListView:
			return m.handleLessonListKeys(msg)
		case SongDetailView, LessonDetailView:
			return m.handleDetailKeys(msg)
		}

	case songsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.buckets = tasks.Buckets(msg.songs)
		m.setBucket(m.tab)
		return m, nil

	case lessonsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = SongListView
			return m, nil
		}
		items := make([]list.Item, len(msg.lessons))
		for i, lesson := range msg.lessons {
			items[i] = lessonItem{lesson: lesson}
		}
		m.lessonList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.lessonList.Title = "Lesson Log"
		m.lessonList.SetSize(m.width-4, m.height-8)
		m.lessonsLoaded = true
		m.view = LessonListView
		return m, nil

	case artworkRefreshedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if m.selectedSong != nil && msg.song != nil && m.selectedSong.ID == msg.song.ID {
			m.selectedSong = msg.song
		}
		return m, m.loadSongs()

	case browserOpenedMsg:
		m.err = msg.err
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == SongListView && m.buckets == nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SongListView:
		return m.renderSongList()
	case LessonListView:
		return m.renderLessonList()
	case SongDetailView:
		return m.renderSongDetail()
	case LessonDetailView:
		return m.renderLessonDetail()
	default:
		return ""
	}
}

// setBucket points the song list at one category bucket.
func (m *Model) setBucket(tab int) {
	if len(m.buckets) == 0 {
		return
	}
	m.tab = (tab + len(m.buckets)) % len(m.buckets)
	bucket := m.buckets[m.tab]

	items := make([]list.Item, len(bucket.Songs))
	for i, song := range bucket.Songs {
		items[i] = songItem{song: song}
	}
	m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.songList.Title = bucket.Category.Title()
	m.songList.SetShowHelp(false)
	m.songList.SetSize(m.width-4, m.height-10)
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.nextTab):
		m.setBucket(m.tab + 1)
		return m, nil
	case key.Matches(msg, m.keys.prevTab):
		m.setBucket(m.tab - 1)
		return m, nil
	case key.Matches(msg, m.keys.lessons):
		if m.lessonsLoaded {
			m.view = LessonListView
			return m, nil
		}
		return m, m.loadLessons()
	case key.Matches(msg, m.keys.refresh):
		if song, ok := m.selectedSongItem(); ok {
			return m, m.refreshArtwork(song.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.openTabs):
		if song, ok := m.selectedSongItem(); ok {
			return m, openBrowser(song.TabsLink)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if song, ok := m.selectedSongItem(); ok {
			m.selectedSong = &song
			m.view = SongDetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleLessonListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.songs), key.Matches(msg, m.keys.back):
		m.view = SongListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.lessonList.SelectedItem().(lessonItem); ok {
			m.selectedLesson = &selected.lesson
			m.view = LessonDetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.lessonList, cmd = m.lessonList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.view == SongDetailView {
			m.view = SongListView
			m.selectedSong = nil
		} else {
			m.view = LessonListView
			m.selectedLesson = nil
		}
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		if m.view == SongDetailView && m.selectedSong != nil {
			return m, m.refreshArtwork(m.selectedSong.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.openTabs):
		if m.view == SongDetailView && m.selectedSong != nil {
			return m, openBrowser(m.selectedSong.TabsLink)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) selectedSongItem() (models.Song, bool) {
	if selected, ok := m.songList.SelectedItem().(songItem); ok {
		return selected.song, true
	}
	return models.Song{}, false
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	case LessonListView:
		m.lessonList, cmd = m.lessonList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.engine.LoadSongs(m.ctx)
		return songsLoadedMsg{songs: songs, err: err}
	}
}

func (m *Model) loadLessons() tea.Cmd {
	return func() tea.Msg {
		lessons, err := m.engine.LoadLessons(m.ctx)
		return lessonsLoadedMsg{lessons: lessons, err: err}
	}
}

func (m *Model) refreshArtwork(songID string) tea.Cmd {
	return func() tea.Msg {
		song, err := m.engine.RefreshArtwork(m.ctx, songID)
		return artworkRefreshedMsg{song: song, err: err}
	}
}

func openBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg{err: shared.OpenBrowser(url)}
	}
}

// renderTabs draws the category tab bar with the active bucket highlighted.
func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(m.buckets))
	for i, bucket := range m.buckets {
		label := fmt.Sprintf("%s (%d)", bucket.Category.Title(), len(bucket.Songs))
		if i == m.tab {
			tabs = append(tabs, styles.activeTab.Render(label))
		} else {
			tabs = append(tabs, styles.tab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.nextTab, m.keys.enter, m.keys.lessons, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var warn string
	if m.storeMode == store.ModeMemory {
		warn = "\n" + styles.warn.Render("In-memory mode: records are lost on exit")
	}
	if m.err != nil {
		warn += "\n" + styles.warn.Render(fmt.Sprintf("Warning: %v", m.err))
	}

	return fmt.Sprintf("%s\n\n%s%s\n\n%s", m.renderTabs(), m.songList.View(), warn, helpView)
}

func (m *Model) renderLessonList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.songs, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.lessonList.View(), helpView)
}

func (m *Model) renderSongDetail() string {
	if m.selectedSong == nil {
		return ""
	}
	song := m.selectedSong

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s - %s", song.Author, song.Name)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n", styles.detailLabel.Render("Category:"), song.Category.Title()))
	b.WriteString(fmt.Sprintf("%s %s\n", styles.detailLabel.Render("Tabs:"), song.TabsLink))
	b.WriteString(fmt.Sprintf("%s %s\n", styles.detailLabel.Render("Video:"), song.VideoLink))
	if song.RecordingLink != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", styles.detailLabel.Render("Recording:"), song.RecordingLink))
	}
	if song.ArtworkURL != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", styles.detailLabel.Render("Artwork:"), song.ArtworkURL))
	}
	if song.Comments != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", song.Comments))
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.openTabs, m.keys.refresh, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderLessonDetail() string {
	if m.selectedLesson == nil {
		return ""
	}
	lesson := m.selectedLesson

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Lesson on %s", lesson.Date)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %d\n", styles.detailLabel.Render("Remaining in package:"), lesson.RemainingLessons))
	if lesson.Notes != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", lesson.Notes))
	}
	if len(lesson.Songs) > 0 {
		b.WriteString("\n" + styles.ok.Render("Practiced:") + "\n")
		for _, song := range lesson.Songs {
			b.WriteString(fmt.Sprintf("  • %s - %s\n", song.Author, song.Name))
		}
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}
