package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	nextTab  key.Binding
	prevTab  key.Binding
	enter    key.Binding
	back     key.Binding
	lessons  key.Binding
	songs    key.Binding
	refresh  key.Binding
	openTabs key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		nextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
		prevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		lessons:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lessons")),
		songs:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "songs")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh artwork")),
		openTabs: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open tabs")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.nextTab, k.prevTab, k.back},
		{k.lessons, k.songs, k.refresh},
		{k.openTabs, k.quit},
	}
}
