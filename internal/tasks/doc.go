// Package tasks runs multi-request operations on top of the client with progress reporting.
//
// # Fetching
//
// [Exporter.FetchPlaylist], [Exporter.FetchAlbum] and [Exporter.FetchSaved] collect every page of a
// listing with the client's paging iterator and turn it into a [formatter.Listing].
//
// # Bulk Export
//
// [Exporter.BulkExport] exports many playlists with a worker pool. Playlist fetches are paced by a
// token bucket limiter; each worker renders its playlist in the requested format and a manifest
// summarizing the run is written next to the exports.
//
// # Progress Reporting
//
// Operations accept a send-only [ProgressUpdate] channel, which may be nil. Updates are sent
// with select and default so a slow reader never blocks an operation.
package tasks
