package models

import (
	"encoding/json"
	"time"
)

var (
	fullTrackFields = []string{
		"album", "artists", "disc_number", "duration_ms", "explicit", "external_ids",
		"external_urls", "is_local", "name", "popularity", "track_number", "type", "uri",
	}
	simplifiedTrackFields = []string{
		"artists", "disc_number", "duration_ms", "explicit", "external_urls",
		"is_local", "name", "track_number", "type", "uri",
	}
	trackLinkFields  = []string{"external_urls", "href", "id", "type", "uri"}
	savedTrackFields = []string{"added_at", "track"}
)

// FullTrack is the complete track object returned by the track endpoints.
//
// Id, Href and PreviewURL are null for local files and clips without a preview.
type FullTrack struct {
	Album            SimplifiedAlbum    `json:"album"`
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets,omitempty"`
	DiscNumber       int                `json:"disc_number"`
	Duration         Duration           `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	ExternalIDs      map[string]string  `json:"external_ids"`
	ExternalURLs     map[string]string  `json:"external_urls"`
	Href             *string            `json:"href"`
	ID               *string            `json:"id"`
	IsLocal          bool               `json:"is_local"`
	Name             string             `json:"name"`
	Popularity       int                `json:"popularity"`
	PreviewURL       *string            `json:"preview_url"`
	TrackNumber      int                `json:"track_number"`
	Type             Type               `json:"type"`
	URI              string             `json:"uri"`

	// Relinking is set only when the API relinked the track for the requested market.
	Relinking *Relinking `json:"-"`
}

// SimplifiedTrack is the track object nested in albums. It never carries popularity, album or external ids.
type SimplifiedTrack struct {
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets"`
	DiscNumber       int                `json:"disc_number"`
	Duration         Duration           `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	ExternalURLs     map[string]string  `json:"external_urls"`
	Href             *string            `json:"href"`
	ID               *string            `json:"id"`
	IsLocal          bool               `json:"is_local"`
	Name             string             `json:"name"`
	PreviewURL       *string            `json:"preview_url"`
	TrackNumber      int                `json:"track_number"`
	Type             Type               `json:"type"`
	URI              string             `json:"uri"`

	Relinking *Relinking `json:"-"`
}

// SavedTrack is a track in the current user's library.
type SavedTrack struct {
	AddedAt time.Time `json:"added_at"`
	Track   FullTrack `json:"track"`
}

func (s *SavedTrack) UnmarshalJSON(data []byte) error {
	type alias SavedTrack
	return decodeObject(data, (*alias)(s), "saved track", savedTrackFields)
}

// TrackLink points at the track originally requested before relinking replaced it.
type TrackLink struct {
	ExternalURLs map[string]string `json:"external_urls"`
	Href         string            `json:"href"`
	ID           string            `json:"id"`
	Type         Type              `json:"type"`
	URI          string            `json:"uri"`
}

func (l *TrackLink) UnmarshalJSON(data []byte) error {
	type alias TrackLink
	return decodeObject(data, (*alias)(l), "track link", trackLinkFields)
}

// Relinking groups the fields the API adds when track relinking is applied.
type Relinking struct {
	IsPlayable   *bool
	LinkedFrom   *TrackLink
	Restrictions *Restriction
}

// relinkFields is the flat wire form of [Relinking].
type relinkFields struct {
	IsPlayable   *bool        `json:"is_playable,omitempty"`
	LinkedFrom   *TrackLink   `json:"linked_from,omitempty"`
	Restrictions *Restriction `json:"restrictions,omitempty"`
}

func (f relinkFields) relinking() *Relinking {
	if f.IsPlayable == nil && f.LinkedFrom == nil && f.Restrictions == nil {
		return nil
	}
	return &Relinking{IsPlayable: f.IsPlayable, LinkedFrom: f.LinkedFrom, Restrictions: f.Restrictions}
}

func (r *Relinking) fields() relinkFields {
	if r == nil {
		return relinkFields{}
	}
	return relinkFields{IsPlayable: r.IsPlayable, LinkedFrom: r.LinkedFrom, Restrictions: r.Restrictions}
}

// Playable reports whether the track can be played in the requested market.
// Tracks that were not relinked are assumed playable.
func (r *Relinking) Playable() bool {
	if r == nil || r.IsPlayable == nil {
		return true
	}
	return *r.IsPlayable
}

type fullTrackWire FullTrack

func (t FullTrack) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		fullTrackWire
		relinkFields
	}{fullTrackWire(t), t.Relinking.fields()})
}

func (t *FullTrack) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	if err := requireFields(data, "track", fullTrackFields); err != nil {
		return err
	}

	var wire struct {
		fullTrackWire
		relinkFields
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*t = FullTrack(wire.fullTrackWire)
	t.Relinking = wire.relinkFields.relinking()
	return nil
}

type simplifiedTrackWire SimplifiedTrack

func (t SimplifiedTrack) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		simplifiedTrackWire
		relinkFields
	}{simplifiedTrackWire(t), t.Relinking.fields()})
}

func (t *SimplifiedTrack) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	if err := requireFields(data, "simplified track", simplifiedTrackFields); err != nil {
		return err
	}

	var wire struct {
		simplifiedTrackWire
		relinkFields
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*t = SimplifiedTrack(wire.simplifiedTrackWire)
	t.Relinking = wire.relinkFields.relinking()
	return nil
}

// Simplify drops the fields a [SimplifiedTrack] does not carry.
func (t FullTrack) Simplify() SimplifiedTrack {
	return SimplifiedTrack{
		Artists:          t.Artists,
		AvailableMarkets: t.AvailableMarkets,
		DiscNumber:       t.DiscNumber,
		Duration:         t.Duration,
		Explicit:         t.Explicit,
		ExternalURLs:     t.ExternalURLs,
		Href:             t.Href,
		ID:               t.ID,
		IsLocal:          t.IsLocal,
		Name:             t.Name,
		PreviewURL:       t.PreviewURL,
		TrackNumber:      t.TrackNumber,
		Type:             t.Type,
		URI:              t.URI,
		Relinking:        t.Relinking,
	}
}

// TrackPositions names a track and the zero-based positions it occupies in a playlist.
// It is only used to build playlist mutation requests.
type TrackPositions struct {
	ID        string
	Positions []int
}

// NewTrackPositions pairs a track id with its playlist positions.
func NewTrackPositions(id string, positions ...int) TrackPositions {
	return TrackPositions{ID: id, Positions: positions}
}

// URI returns the spotify:track URI of the referenced track.
func (p TrackPositions) URI() string {
	return URI(TypeTrack, p.ID)
}
