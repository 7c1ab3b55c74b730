package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/desertthunder/spotx/models"
)

// Album fetches a single album with the first page of its tracks.
func (c *Client) Album(ctx context.Context, id, market string) (*models.FullAlbum, error) {
	id, err := parseID(models.TypeAlbum, id)
	if err != nil {
		return nil, err
	}

	var album models.FullAlbum
	if err := c.get(ctx, "/albums/"+id, c.marketQuery(nil, market), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Albums fetches up to 20 albums in one request.
func (c *Client) Albums(ctx context.Context, ids []string, market string) ([]*models.FullAlbum, error) {
	ids, err := parseIDs(models.TypeAlbum, ids, 1, 20)
	if err != nil {
		return nil, err
	}

	response := models.Keyed[[]*models.FullAlbum]{Key: "albums"}
	q := c.marketQuery(url.Values{"ids": {strings.Join(ids, ",")}}, market)
	if err := c.get(ctx, "/albums", q, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// AlbumTracks lists one page of an album's tracks. Limit may be at most 50.
func (c *Client) AlbumTracks(ctx context.Context, id string, opts *PageOptions) (*models.Paging[models.SimplifiedTrack], error) {
	id, err := parseID(models.TypeAlbum, id)
	if err != nil {
		return nil, err
	}
	q, err := opts.query(50)
	if err != nil {
		return nil, err
	}

	var page models.Paging[models.SimplifiedTrack]
	if err := c.get(ctx, "/albums/"+id+"/tracks", c.marketQuery(q, opts.market()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
