package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.SimplifiedPlaylist] to implement [list.Item].
type playlistItem struct {
	playlist models.SimplifiedPlaylist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks • %s", i.playlist.Tracks.Total, i.playlist.Owner.Name())
	if d := i.playlist.Description; d != nil && *d != "" {
		desc = fmt.Sprintf("%s • %s", desc, *d)
	}
	return desc
}

// trackItem wraps [formatter.Row] to implement [list.Item].
type trackItem struct {
	row formatter.Row
}

func (i trackItem) FilterValue() string { return i.row.Name }
func (i trackItem) Title() string       { return fmt.Sprintf("%d. %s", i.row.Position, i.row.Name) }
func (i trackItem) Description() string {
	desc := strings.Join(i.row.Artists, ", ")
	if i.row.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.row.Album)
	}
	return fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.row.Duration))
}
