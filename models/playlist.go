package models

import (
	"encoding/json"
	"fmt"
	"time"
)

var (
	simplifiedPlaylistFields = []string{
		"collaborative", "external_urls", "href", "id", "images", "name", "owner", "snapshot_id", "tracks", "type", "uri",
	}
	fullPlaylistFields = []string{
		"collaborative", "external_urls", "followers", "href", "id", "images", "name", "owner", "snapshot_id",
		"tracks", "type", "uri",
	}
	playlistTracksRefFields = []string{"href", "total"}
	snapshotFields          = []string{"snapshot_id"}
)

// PlaylistTracksRef points at a playlist's tracks without listing them.
type PlaylistTracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

func (r *PlaylistTracksRef) UnmarshalJSON(data []byte) error {
	type alias PlaylistTracksRef
	return decodeObject(data, (*alias)(r), "playlist tracks ref", playlistTracksRefFields)
}

// SimplifiedPlaylist is the playlist object returned by the playlist listing endpoints.
type SimplifiedPlaylist struct {
	Collaborative bool              `json:"collaborative"`
	Description   *string           `json:"description"`
	ExternalURLs  map[string]string `json:"external_urls"`
	Href          string            `json:"href"`
	ID            string            `json:"id"`
	Images        []Image           `json:"images"`
	Name          string            `json:"name"`
	Owner         PublicUser        `json:"owner"`
	Public        *bool             `json:"public"`
	SnapshotID    string            `json:"snapshot_id"`
	Tracks        PlaylistTracksRef `json:"tracks"`
	Type          Type              `json:"type"`
	URI           string            `json:"uri"`
}

func (p *SimplifiedPlaylist) UnmarshalJSON(data []byte) error {
	type alias SimplifiedPlaylist
	return decodeObject(data, (*alias)(p), "simplified playlist", simplifiedPlaylistFields)
}

// FullPlaylist is the playlist object returned by the playlist endpoint, including its first page of items.
type FullPlaylist struct {
	Collaborative bool                  `json:"collaborative"`
	Description   *string               `json:"description"`
	ExternalURLs  map[string]string     `json:"external_urls"`
	Followers     Followers             `json:"followers"`
	Href          string                `json:"href"`
	ID            string                `json:"id"`
	Images        []Image               `json:"images"`
	Name          string                `json:"name"`
	Owner         PublicUser            `json:"owner"`
	Public        *bool                 `json:"public"`
	SnapshotID    string                `json:"snapshot_id"`
	Tracks        Paging[PlaylistTrack] `json:"tracks"`
	Type          Type                  `json:"type"`
	URI           string                `json:"uri"`
}

func (p *FullPlaylist) UnmarshalJSON(data []byte) error {
	type alias FullPlaylist
	return decodeObject(data, (*alias)(p), "playlist", fullPlaylistFields)
}

// PlaylistTrack is one item of a playlist.
//
// Track is nil when the item is an episode or was removed from the catalog;
// episodes are kept undecoded in Episode.
type PlaylistTrack struct {
	AddedAt *time.Time      `json:"added_at"`
	AddedBy *PublicUser     `json:"added_by"`
	IsLocal bool            `json:"is_local"`
	Track   *FullTrack      `json:"track"`
	Episode json.RawMessage `json:"-"`
}

type playlistTrackWire struct {
	AddedAt *time.Time      `json:"added_at"`
	AddedBy *PublicUser     `json:"added_by"`
	IsLocal bool            `json:"is_local"`
	Track   json.RawMessage `json:"track"`
}

func (p PlaylistTrack) MarshalJSON() ([]byte, error) {
	w := playlistTrackWire{AddedAt: p.AddedAt, AddedBy: p.AddedBy, IsLocal: p.IsLocal}
	switch {
	case p.Track != nil:
		data, err := json.Marshal(p.Track)
		if err != nil {
			return nil, err
		}
		w.Track = data
	case len(p.Episode) > 0:
		w.Track = p.Episode
	default:
		w.Track = null
	}
	return json.Marshal(w)
}

func (p *PlaylistTrack) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var w playlistTrackWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("models: playlist track: %w", err)
	}

	*p = PlaylistTrack{AddedAt: w.AddedAt, AddedBy: w.AddedBy, IsLocal: w.IsLocal}
	if len(w.Track) == 0 || isNull(w.Track) {
		return nil
	}

	var tag struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(w.Track, &tag); err != nil {
		return fmt.Errorf("models: playlist track: %w", err)
	}
	if tag.Type == TypeEpisode {
		p.Episode = w.Track
		return nil
	}

	var track FullTrack
	if err := json.Unmarshal(w.Track, &track); err != nil {
		return err
	}
	p.Track = &track
	return nil
}

// SnapshotID identifies a playlist version; mutation endpoints return the new one.
type SnapshotID struct {
	SnapshotID string `json:"snapshot_id"`
}

func (s *SnapshotID) UnmarshalJSON(data []byte) error {
	type alias SnapshotID
	return decodeObject(data, (*alias)(s), "snapshot", snapshotFields)
}
