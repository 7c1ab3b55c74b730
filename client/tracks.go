package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/desertthunder/spotx/models"
)

// Track fetches a single track. id may be an id, URI or URL.
func (c *Client) Track(ctx context.Context, id, market string) (*models.FullTrack, error) {
	id, err := parseID(models.TypeTrack, id)
	if err != nil {
		return nil, err
	}

	var track models.FullTrack
	if err := c.get(ctx, "/tracks/"+id, c.marketQuery(nil, market), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Tracks fetches up to 50 tracks in one request.
// Unknown ids yield a nil entry at their position.
func (c *Client) Tracks(ctx context.Context, ids []string, market string) ([]*models.FullTrack, error) {
	ids, err := parseIDs(models.TypeTrack, ids, 1, 50)
	if err != nil {
		return nil, err
	}

	response := models.Keyed[[]*models.FullTrack]{Key: "tracks"}
	q := c.marketQuery(url.Values{"ids": {strings.Join(ids, ",")}}, market)
	if err := c.get(ctx, "/tracks", q, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// SavedTracks lists the tracks in the current user's library.
func (c *Client) SavedTracks(ctx context.Context, opts *PageOptions) (*models.Paging[models.SavedTrack], error) {
	q, err := opts.query(50)
	if err != nil {
		return nil, err
	}

	var page models.Paging[models.SavedTrack]
	if err := c.get(ctx, "/me/tracks", c.marketQuery(q, opts.market()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AudioFeatures fetches the audio features of one track.
func (c *Client) AudioFeatures(ctx context.Context, id string) (*models.AudioFeatures, error) {
	id, err := parseID(models.TypeTrack, id)
	if err != nil {
		return nil, err
	}

	var features models.AudioFeatures
	if err := c.get(ctx, "/audio-features/"+id, nil, &features); err != nil {
		return nil, err
	}
	return &features, nil
}

// SeveralAudioFeatures fetches the audio features of up to 100 tracks.
func (c *Client) SeveralAudioFeatures(ctx context.Context, ids []string) ([]*models.AudioFeatures, error) {
	ids, err := parseIDs(models.TypeTrack, ids, 1, 100)
	if err != nil {
		return nil, err
	}

	response := models.Keyed[[]*models.AudioFeatures]{Key: "audio_features"}
	if err := c.get(ctx, "/audio-features", url.Values{"ids": {strings.Join(ids, ",")}}, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}
