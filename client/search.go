package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotx/models"
)

// Search looks up query across types, which must be drawn from album, artist, playlist and track.
func (c *Client) Search(ctx context.Context, query string, types []models.Type, opts *PageOptions) (*models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidArgument)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no search types", ErrInvalidArgument)
	}

	names := make([]string, 0, len(types))
	for _, t := range types {
		switch t {
		case models.TypeAlbum, models.TypeArtist, models.TypePlaylist, models.TypeTrack:
			names = append(names, string(t))
		default:
			return nil, fmt.Errorf("%w: cannot search for %q", ErrInvalidArgument, t)
		}
	}

	q, err := opts.query(50)
	if err != nil {
		return nil, err
	}
	q.Set("q", query)
	q.Set("type", strings.Join(names, ","))

	var result models.SearchResult
	if err := c.get(ctx, "/search", c.marketQuery(q, opts.market()), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ParseTypes reads a comma separated list of search types.
func ParseTypes(s string) ([]models.Type, error) {
	var types []models.Type
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		types = append(types, models.Type(part))
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no search types", ErrInvalidArgument)
	}
	return types, nil
}

