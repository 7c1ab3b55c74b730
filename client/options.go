package client

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/spotx/models"
)

// PageOptions selects a page of a listing. Zero values use the server defaults.
type PageOptions struct {
	Limit  int
	Offset int
	Market string
}

func (o *PageOptions) query(maxLimit int) (url.Values, error) {
	q := url.Values{}
	if o == nil {
		return q, nil
	}
	if o.Limit < 0 || o.Limit > maxLimit {
		return nil, fmt.Errorf("%w: limit %d outside 0..%d (0 uses the server default)", ErrInvalidArgument, o.Limit, maxLimit)
	}
	if o.Offset < 0 {
		return nil, fmt.Errorf("%w: negative offset %d", ErrInvalidArgument, o.Offset)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	return q, nil
}

func (o *PageOptions) market() string {
	if o == nil {
		return ""
	}
	return o.Market
}

func parseID(kind models.Type, s string) (string, error) {
	id, err := models.ParseID(kind, s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return id, nil
}

// parseIDs parses between min and max ids of kind.
func parseIDs(kind models.Type, values []string, min, max int) ([]string, error) {
	if len(values) < min || len(values) > max {
		return nil, fmt.Errorf("%w: %d %s ids given, want %d..%d", ErrInvalidArgument, len(values), kind, min, max)
	}
	ids, err := models.ParseIDs(kind, values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return ids, nil
}

func trackURIs(ids []string) []string {
	uris := make([]string, len(ids))
	for i, id := range ids {
		uris[i] = models.URI(models.TypeTrack, id)
	}
	return uris
}
