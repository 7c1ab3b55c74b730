package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidID is returned when a value cannot be read as an id of the requested kind.
var ErrInvalidID = errors.New("models: invalid spotify id")

// URI builds the spotify:<kind>:<id> form of an id.
func URI(kind Type, id string) string {
	return "spotify:" + string(kind) + ":" + id
}

// ParseID extracts the bare id from s, which may be an id, a spotify URI or an open.spotify.com URL.
//
// URIs and URLs naming a different kind are rejected.
func ParseID(kind Type, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty %s id", ErrInvalidID, kind)
	}

	switch {
	case strings.HasPrefix(s, "spotify:"):
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return "", fmt.Errorf("%w: malformed uri %q", ErrInvalidID, s)
		}
		return checkID(kind, Type(parts[1]), parts[2], s)
	case strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://"):
		u, err := url.Parse(s)
		if err != nil || u.Host != "open.spotify.com" {
			return "", fmt.Errorf("%w: not an open.spotify.com url %q", ErrInvalidID, s)
		}
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		// Localized links look like /intl-de/track/<id>.
		if len(segs) == 3 && strings.HasPrefix(segs[0], "intl-") {
			segs = segs[1:]
		}
		if len(segs) != 2 {
			return "", fmt.Errorf("%w: malformed url %q", ErrInvalidID, s)
		}
		return checkID(kind, Type(segs[0]), segs[1], s)
	}

	if strings.ContainsAny(s, ":/?# ") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return s, nil
}

func checkID(want, got Type, id, raw string) (string, error) {
	if got != want {
		return "", fmt.Errorf("%w: %q is a %s, want %s", ErrInvalidID, raw, got, want)
	}
	if id == "" {
		return "", fmt.Errorf("%w: %q has no id", ErrInvalidID, raw)
	}
	return id, nil
}

// ParseIDs applies [ParseID] to each value.
func ParseIDs(kind Type, values []string) ([]string, error) {
	ids := make([]string, 0, len(values))
	for _, v := range values {
		id, err := ParseID(kind, v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
