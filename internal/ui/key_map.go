package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of every view. Each view shows only its own in the help line.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	open    key.Binding
	export  key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show tracks")),
		export:  key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "export")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "playlists")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "export")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "browse again")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forView returns the bindings shown in the help line of v.
func (k keyMap) forView(v ViewState) []key.Binding {
	switch v {
	case PlaylistListView:
		return []key.Binding{k.up, k.down, k.open, k.quit}
	case TrackListView:
		return []key.Binding{k.export, k.back, k.quit}
	case ConfirmView:
		return []key.Binding{k.yes, k.no, k.quit}
	case ResultView:
		return []key.Binding{k.restart, k.quit}
	}
	return []key.Binding{k.quit}
}
