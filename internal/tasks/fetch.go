package tasks

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/client"
	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/models"
)

// Exporter turns paged API listings into [formatter.Listing] values and files.
type Exporter struct {
	client     *client.Client
	httpClient *http.Client
	logger     *log.Logger
}

// NewExporter creates an exporter. hc is used for cover image downloads and may be nil.
func NewExporter(c *client.Client, hc *http.Client, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NopLogger()
	}
	return &Exporter{client: c, httpClient: hc, logger: logger}
}

// FetchPlaylist loads a playlist and every one of its items.
func (e *Exporter) FetchPlaylist(ctx context.Context, id string, prog chan<- ProgressUpdate) (*formatter.Listing, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: client not initialized", shared.ErrServiceUnavailable)
	}

	playlist, err := e.client.Playlist(ctx, id, "")
	if err != nil {
		return nil, err
	}

	items, err := collect(ctx, client.Iterate(e.client, &playlist.Tracks), playlist.Tracks.Total, playlist.Name, prog)
	if err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlist.Name, err)
	}

	e.logger.Debug("fetched playlist", "id", playlist.ID, "items", len(items))
	return formatter.FromPlaylist(playlist, items), nil
}

// FetchAlbum loads an album and every one of its tracks.
func (e *Exporter) FetchAlbum(ctx context.Context, id string, prog chan<- ProgressUpdate) (*formatter.Listing, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: client not initialized", shared.ErrServiceUnavailable)
	}

	album, err := e.client.Album(ctx, id, "")
	if err != nil {
		return nil, err
	}

	tracks, err := collect(ctx, client.Iterate(e.client, &album.Tracks), album.Tracks.Total, album.Name, prog)
	if err != nil {
		return nil, fmt.Errorf("album %s: %w", album.Name, err)
	}

	l := formatter.FromAlbum(album.ID, album.Name, album.Artists, tracks)
	if len(album.Images) > 0 {
		l.ImageURL = album.Images[0].URL
	}
	return l, nil
}

// FetchSaved loads the current user's saved tracks.
func (e *Exporter) FetchSaved(ctx context.Context, prog chan<- ProgressUpdate) (*formatter.Listing, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: client not initialized", shared.ErrServiceUnavailable)
	}

	first, err := e.client.SavedTracks(ctx, &client.PageOptions{Limit: 50})
	if err != nil {
		return nil, err
	}

	saved, err := collect(ctx, client.Iterate(e.client, first), first.Total, "Saved tracks", prog)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.FullTrack, len(saved))
	for i, s := range saved {
		tracks[i] = s.Track
	}
	l := formatter.FromTracks("Saved tracks", tracks)
	l.ID = "saved_tracks"
	return l, nil
}

func collect[T any](ctx context.Context, it *client.Iterator[T], total int, name string, prog chan<- ProgressUpdate) ([]T, error) {
	items := make([]T, 0, total)
	for item, err := range it.All(ctx) {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if len(items)%50 == 0 || len(items) == total {
			sendProgress(prog, fetchTracksUpdate(len(items), total, name))
		}
	}
	return items, nil
}
