// Package ui implements an interactive terminal browser using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for exporting playlists:
//  1. [PlaylistListView] : Browse the current user's playlists
//  2. [TrackListView] : Preview a playlist's tracks
//  3. [ConfirmView] : Confirm the export
//  4. [ExportView] : Monitor progress updates
//  5. [ResultView] : Display the written file or the failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the [Msg] union type.
// Progress updates flow through a channel from [tasks.Exporter], so the export never blocks rendering.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
