package models

import (
	"encoding/json"
	"fmt"
)

// Type is the value of the "type" tag every API object carries.
type Type string

const (
	TypeArtist        Type = "artist"
	TypeAlbum         Type = "album"
	TypeTrack         Type = "track"
	TypePlaylist      Type = "playlist"
	TypeUser          Type = "user"
	TypeEpisode       Type = "episode"
	TypeShow          Type = "show"
	TypeAudioFeatures Type = "audio_features"
)

func (t Type) valid() bool {
	switch t {
	case TypeArtist, TypeAlbum, TypeTrack, TypePlaylist, TypeUser, TypeEpisode, TypeShow, TypeAudioFeatures:
		return true
	}
	return false
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("models: type: %w", err)
	}
	if !Type(s).valid() {
		return fmt.Errorf("models: unknown object type %q", s)
	}
	*t = Type(s)
	return nil
}

// Image is a cover or profile image. Dimensions are unknown for some user uploads.
type Image struct {
	Height *int   `json:"height"`
	URL    string `json:"url"`
	Width  *int   `json:"width"`
}

func (i *Image) UnmarshalJSON(data []byte) error {
	type alias Image
	return decodeObject(data, (*alias)(i), "image", []string{"url"})
}

// Followers carries the follower count of an artist, playlist or user.
type Followers struct {
	Href  *string `json:"href"`
	Total int     `json:"total"`
}

func (f *Followers) UnmarshalJSON(data []byte) error {
	type alias Followers
	return decodeObject(data, (*alias)(f), "followers", []string{"total"})
}

// Restriction explains why content is unavailable, e.g. "market", "product" or "explicit".
type Restriction struct {
	Reason string `json:"reason"`
}

// Copyright is an album copyright statement. Type is "C" or "P".
type Copyright struct {
	Text string `json:"text"`
	Type string `json:"type"`
}
