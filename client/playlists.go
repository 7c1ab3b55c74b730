package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/spotx/models"
)

// Playlist fetches a playlist with the first page of its items.
func (c *Client) Playlist(ctx context.Context, id, market string) (*models.FullPlaylist, error) {
	id, err := parseID(models.TypePlaylist, id)
	if err != nil {
		return nil, err
	}

	var playlist models.FullPlaylist
	if err := c.get(ctx, "/playlists/"+id, c.marketQuery(nil, market), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistTracks lists one page of a playlist's items. Limit may be at most 100.
func (c *Client) PlaylistTracks(ctx context.Context, id string, opts *PageOptions) (*models.Paging[models.PlaylistTrack], error) {
	id, err := parseID(models.TypePlaylist, id)
	if err != nil {
		return nil, err
	}
	q, err := opts.query(100)
	if err != nil {
		return nil, err
	}

	var page models.Paging[models.PlaylistTrack]
	if err := c.get(ctx, "/playlists/"+id+"/tracks", c.marketQuery(q, opts.market()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CurrentUserPlaylists lists the playlists owned or followed by the current user.
func (c *Client) CurrentUserPlaylists(ctx context.Context, opts *PageOptions) (*models.Paging[models.SimplifiedPlaylist], error) {
	q, err := opts.query(50)
	if err != nil {
		return nil, err
	}

	var page models.Paging[models.SimplifiedPlaylist]
	if err := c.get(ctx, "/me/playlists", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserPlaylists lists the public playlists of a user.
func (c *Client) UserPlaylists(ctx context.Context, userID string, opts *PageOptions) (*models.Paging[models.SimplifiedPlaylist], error) {
	userID, err := parseID(models.TypeUser, userID)
	if err != nil {
		return nil, err
	}
	q, err := opts.query(50)
	if err != nil {
		return nil, err
	}

	var page models.Paging[models.SimplifiedPlaylist]
	if err := c.get(ctx, "/users/"+userID+"/playlists", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePlaylist creates an empty playlist owned by userID.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name string, public bool, description string) (*models.FullPlaylist, error) {
	userID, err := parseID(models.TypeUser, userID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is empty", ErrInvalidArgument)
	}

	body := map[string]any{"name": name, "public": public}
	if description != "" {
		body["description"] = description
	}

	var playlist models.FullPlaylist
	if err := c.doRequest(ctx, http.MethodPost, "/users/"+userID+"/playlists", nil, body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddTracksToPlaylist appends up to 100 tracks, or inserts them at position when it is not nil.
func (c *Client) AddTracksToPlaylist(ctx context.Context, id string, trackIDs []string, position *int) (string, error) {
	id, err := parseID(models.TypePlaylist, id)
	if err != nil {
		return "", err
	}
	ids, err := parseIDs(models.TypeTrack, trackIDs, 1, 100)
	if err != nil {
		return "", err
	}
	if position != nil && *position < 0 {
		return "", fmt.Errorf("%w: negative position %d", ErrInvalidArgument, *position)
	}

	body := struct {
		URIs     []string `json:"uris"`
		Position *int     `json:"position,omitempty"`
	}{trackURIs(ids), position}

	return c.mutatePlaylist(ctx, http.MethodPost, id, body)
}

// ReplacePlaylistTracks replaces every item of a playlist with up to 100 tracks.
// An empty list clears the playlist.
func (c *Client) ReplacePlaylistTracks(ctx context.Context, id string, trackIDs []string) (string, error) {
	id, err := parseID(models.TypePlaylist, id)
	if err != nil {
		return "", err
	}
	ids, err := parseIDs(models.TypeTrack, trackIDs, 0, 100)
	if err != nil {
		return "", err
	}

	body := struct {
		URIs []string `json:"uris"`
	}{trackURIs(ids)}

	return c.mutatePlaylist(ctx, http.MethodPut, id, body)
}

// ReorderOptions moves RangeLength items starting at RangeStart to before InsertBefore.
type ReorderOptions struct {
	RangeStart   int
	RangeLength  int
	InsertBefore int
	SnapshotID   string
}

// ReorderPlaylistTracks moves a range of items within a playlist.
func (c *Client) ReorderPlaylistTracks(ctx context.Context, id string, opts ReorderOptions) (string, error) {
	id, err := parseID(models.TypePlaylist, id)
	if err != nil {
		return "", err
	}
	if opts.RangeStart < 0 || opts.InsertBefore < 0 {
		return "", fmt.Errorf("%w: negative position", ErrInvalidArgument)
	}
	if opts.RangeLength < 0 {
		return "", fmt.Errorf("%w: negative range length %d", ErrInvalidArgument, opts.RangeLength)
	}
	length := max(opts.RangeLength, 1)

	body := struct {
		RangeStart   int    `json:"range_start"`
		RangeLength  int    `json:"range_length"`
		InsertBefore int    `json:"insert_before"`
		SnapshotID   string `json:"snapshot_id,omitempty"`
	}{opts.RangeStart, length, opts.InsertBefore, opts.SnapshotID}

	return c.mutatePlaylist(ctx, http.MethodPut, id, body)
}

type trackPositionsBody struct {
	URI       string `json:"uri"`
	Positions []int  `json:"positions"`
}

// RemoveTrackOccurrences removes the listed occurrences of up to 100 tracks.
//
// Each entry names a track and the zero-based positions to remove. snapshot pins
// the playlist version the positions refer to; an empty snapshot uses the latest.
func (c *Client) RemoveTrackOccurrences(ctx context.Context, id string, tracks []models.TrackPositions, snapshot string) (string, error) {
	id, err := parseID(models.TypePlaylist, id)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 || len(tracks) > 100 {
		return "", fmt.Errorf("%w: %d tracks given, want 1..100", ErrInvalidArgument, len(tracks))
	}

	entries := make([]trackPositionsBody, 0, len(tracks))
	for _, tp := range tracks {
		trackID, err := parseID(models.TypeTrack, tp.ID)
		if err != nil {
			return "", err
		}
		if len(tp.Positions) == 0 {
			return "", fmt.Errorf("%w: no positions for track %s", ErrInvalidArgument, trackID)
		}
		for _, p := range tp.Positions {
			if p < 0 {
				return "", fmt.Errorf("%w: negative position %d for track %s", ErrInvalidArgument, p, trackID)
			}
		}
		entries = append(entries, trackPositionsBody{URI: models.NewTrackPositions(trackID).URI(), Positions: tp.Positions})
	}

	body := struct {
		Tracks     []trackPositionsBody `json:"tracks"`
		SnapshotID string               `json:"snapshot_id,omitempty"`
	}{entries, snapshot}

	return c.mutatePlaylist(ctx, http.MethodDelete, id, body)
}

func (c *Client) mutatePlaylist(ctx context.Context, method, id string, body any) (string, error) {
	var snapshot models.SnapshotID
	if err := c.doRequest(ctx, method, "/playlists/"+id+"/tracks", nil, body, &snapshot); err != nil {
		return "", err
	}
	return snapshot.SnapshotID, nil
}
