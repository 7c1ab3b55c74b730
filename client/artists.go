package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/spotx/models"
)

// Album groups accepted by [Client.ArtistAlbums].
const (
	GroupAlbum       = "album"
	GroupSingle      = "single"
	GroupAppearsOn   = "appears_on"
	GroupCompilation = "compilation"
)

// Artist fetches a single artist.
func (c *Client) Artist(ctx context.Context, id string) (*models.FullArtist, error) {
	id, err := parseID(models.TypeArtist, id)
	if err != nil {
		return nil, err
	}

	var artist models.FullArtist
	if err := c.get(ctx, "/artists/"+id, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Artists fetches up to 50 artists in one request.
func (c *Client) Artists(ctx context.Context, ids []string) ([]*models.FullArtist, error) {
	ids, err := parseIDs(models.TypeArtist, ids, 1, 50)
	if err != nil {
		return nil, err
	}

	response := models.Keyed[[]*models.FullArtist]{Key: "artists"}
	if err := c.get(ctx, "/artists", url.Values{"ids": {strings.Join(ids, ",")}}, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// ArtistAlbums lists an artist's albums, optionally restricted to groups.
func (c *Client) ArtistAlbums(ctx context.Context, id string, groups []string, opts *PageOptions) (*models.Paging[models.SimplifiedAlbum], error) {
	id, err := parseID(models.TypeArtist, id)
	if err != nil {
		return nil, err
	}
	q, err := opts.query(50)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		switch g {
		case GroupAlbum, GroupSingle, GroupAppearsOn, GroupCompilation:
		default:
			return nil, fmt.Errorf("%w: unknown album group %q", ErrInvalidArgument, g)
		}
	}
	if len(groups) > 0 {
		q.Set("include_groups", strings.Join(groups, ","))
	}

	var page models.Paging[models.SimplifiedAlbum]
	if err := c.get(ctx, "/artists/"+id+"/albums", c.marketQuery(q, opts.market()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ArtistTopTracks fetches an artist's most popular tracks in market, which is required.
func (c *Client) ArtistTopTracks(ctx context.Context, id, market string) ([]models.FullTrack, error) {
	id, err := parseID(models.TypeArtist, id)
	if err != nil {
		return nil, err
	}
	q := c.marketQuery(nil, market)
	if q.Get("market") == "" {
		return nil, fmt.Errorf("%w: top tracks require a market", ErrInvalidArgument)
	}

	response := models.Keyed[[]models.FullTrack]{Key: "tracks"}
	if err := c.get(ctx, "/artists/"+id+"/top-tracks", q, &response); err != nil {
		return nil, err
	}
	return response.Value, nil
}

// FollowedArtists lists the artists the current user follows, starting after the given artist id.
func (c *Client) FollowedArtists(ctx context.Context, after string, limit int) (*models.CursorPaging[models.FullArtist], error) {
	if limit < 0 || limit > 50 {
		return nil, fmt.Errorf("%w: limit %d outside 0..50 (0 uses the server default)", ErrInvalidArgument, limit)
	}

	q := url.Values{"type": {"artist"}}
	if after != "" {
		id, err := parseID(models.TypeArtist, after)
		if err != nil {
			return nil, err
		}
		q.Set("after", id)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}

	response := models.Keyed[models.CursorPaging[models.FullArtist]]{Key: "artists"}
	if err := c.get(ctx, "/me/following", q, &response); err != nil {
		return nil, err
	}
	return &response.Value, nil
}
