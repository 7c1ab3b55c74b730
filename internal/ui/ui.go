package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotx/client"
	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/tasks"
	"github.com/desertthunder/spotx/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	ConfirmView
	ExportView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	client       *client.Client
	exporter     *tasks.Exporter
	opts         tasks.BulkExportOpts
	width        int
	height       int
	playlistList list.Model
	playlists    []models.SimplifiedPlaylist
	trackList    list.Model
	selected     *models.SimplifiedPlaylist
	listing      *formatter.Listing
	progressChan chan tasks.ProgressUpdate
	outcome      *exportPayload
	progress     tasks.ProgressUpdate
	result       *tasks.BulkExportResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model. Exports selected in the browser are written with opts.
func NewModel(ctx context.Context, c *client.Client, exporter *tasks.Exporter, opts tasks.BulkExportOpts) *Model {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}

	playlists := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlists.Title = "Spotify Playlists"
	tracks := list.New(nil, list.NewDefaultDelegate(), 0, 0)

	return &Model{
		ctx:          ctx,
		view:         PlaylistListView,
		client:       c,
		exporter:     exporter,
		opts:         opts,
		playlistList: playlists,
		trackList:    tracks,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init initializes the TUI by fetching the current user's playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ExportView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(playlistsPayload)
		if data.err != nil {
			m.err = data.err
			return m, tea.Quit
		}
		m.playlists = data.playlists
		items := make([]list.Item, len(data.playlists))
		for i, pl := range data.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		return m, m.playlistList.SetItems(items)

	case MsgTracksFetched:
		data := msg.data.(tracksPayload)
		if data.err != nil {
			m.err = data.err
			m.view = PlaylistListView
			return m, nil
		}
		m.listing = data.listing
		items := make([]list.Item, len(data.listing.Rows))
		for i, row := range data.listing.Rows {
			items[i] = trackItem{row: row}
		}
		m.trackList.Title = fmt.Sprintf("Tracks in '%s'", data.listing.Title)
		m.trackList.ResetSelected()
		m.view = TrackListView
		return m, m.trackList.SetItems(items)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgExportComplete:
		data := msg.data.(exportPayload)
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		m.progressChan, m.outcome = nil, nil
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) resize() {
	w, h := max(m.width-4, 0), max(m.height-8, 0)
	m.playlistList.SetSize(w, h)
	m.trackList.SetSize(w, h)
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.playlistList.FilterState() == list.Filtering
	switch {
	case !filtering && key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case !filtering && key.Matches(msg, m.keys.open):
		if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.selected = &pl.playlist
			m.err = nil
			return m, m.fetchTracks(pl.playlist.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.trackList.FilterState() == list.Filtering
	switch {
	case !filtering && key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case !filtering && key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		return m, nil
	case !filtering && key.Matches(msg, m.keys.export):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = ExportView
		return m, m.startExport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = PlaylistListView
		m.selected = nil
		m.listing = nil
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		first, err := m.client.CurrentUserPlaylists(m.ctx, &client.PageOptions{Limit: 50})
		if err != nil {
			return playlistsFetchedMsg(nil, err)
		}
		playlists, err := client.Collect(m.ctx, client.Iterate(m.client, first))
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) fetchTracks(playlistID string) tea.Cmd {
	return func() tea.Msg {
		listing, err := m.exporter.FetchPlaylist(m.ctx, playlistID, nil)
		return tracksFetchedMsg(listing, err)
	}
}

// startExport runs the export in the background. The goroutine stores the outcome
// before closing the channel, so it is visible once the close is observed.
func (m *Model) startExport() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	outcome := &exportPayload{}
	m.progressChan, m.outcome = progress, outcome
	m.result, m.err = nil, nil

	ctx, id, opts := m.ctx, m.selected.ID, m.opts
	go func() {
		outcome.result, outcome.err = m.exporter.BulkExport(ctx, progress, []string{id}, opts)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, outcome := m.progressChan, m.outcome
	return func() tea.Msg {
		if progress == nil || outcome == nil {
			return exportCompleteMsg(nil, fmt.Errorf("%w: no export running", shared.ErrInvalidInput))
		}

		update, ok := <-progress
		if !ok {
			return exportCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	helpView := m.help.ShortHelpView(m.keys.forView(PlaylistListView))
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	helpView := m.help.ShortHelpView(m.keys.forView(TrackListView))
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	if m.listing == nil {
		return ""
	}

	title := styles.title.Render(fmt.Sprintf("Export '%s' as %s?", m.listing.Title, m.opts.Format))
	info := fmt.Sprintf(
		"\nPlaylist: %s\nOwner: %s\nTracks: %d (%s)\nOutput: %s\n",
		m.listing.Title,
		m.listing.Owner,
		len(m.listing.Rows),
		shared.FormatDuration(m.listing.Length()),
		m.opts.OutputDir,
	)

	helpView := m.help.ShortHelpView(m.keys.forView(ConfirmView))

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Exporting Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchPlaylist:
		phase = "Fetching playlist..."
	case tasks.FetchTracks:
		phase = fmt.Sprintf("Fetching tracks (%d/%d)\n%s", m.progress.Step, m.progress.Total,
			styles.progressBar(m.progress.Step, m.progress.Total, min(m.width-4, 40)))
	case tasks.ExportPlaylist:
		phase = "Writing export..."
	case tasks.WriteManifest:
		phase = "Writing manifest..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView(m.keys.forView(ResultView))

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Export failed: %v", m.err)) + "\n\n" + helpView
	}
	if m.result == nil || len(m.result.Results) == 0 {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	res := m.result.Results[0]
	if !res.Success {
		failed := styles.warn.Render(fmt.Sprintf("✗ Could not export %s", res.PlaylistName))
		return fmt.Sprintf("%s\n\n  • %s\n\n%s", failed, res.Error, helpView)
	}

	title := styles.ok.Render("✓ Export Complete!")
	info := fmt.Sprintf("\nPlaylist: %s (%d tracks)\nFile: %s\nManifest: %s", res.PlaylistName, res.Tracks, res.File, m.result.ManifestPath)
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
