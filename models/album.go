package models

import "time"

var (
	simplifiedAlbumFields = []string{"artists", "external_urls", "images", "name", "type"}
	fullAlbumFields       = []string{
		"album_type", "artists", "copyrights", "external_ids", "external_urls", "genres", "href", "id",
		"images", "name", "popularity", "release_date", "release_date_precision", "tracks", "type", "uri",
	}
	savedAlbumFields = []string{"added_at", "album"}
)

// SimplifiedAlbum is the album object nested in tracks and artist album listings.
//
// Albums of local files carry no id, href or uri.
type SimplifiedAlbum struct {
	AlbumGroup           string             `json:"album_group,omitempty"`
	AlbumType            string             `json:"album_type,omitempty"`
	Artists              []SimplifiedArtist `json:"artists"`
	AvailableMarkets     []string           `json:"available_markets,omitempty"`
	ExternalURLs         map[string]string  `json:"external_urls"`
	Href                 string             `json:"href,omitempty"`
	ID                   string             `json:"id,omitempty"`
	Images               []Image            `json:"images"`
	Name                 string             `json:"name"`
	ReleaseDate          string             `json:"release_date,omitempty"`
	ReleaseDatePrecision string             `json:"release_date_precision,omitempty"`
	Restrictions         *Restriction       `json:"restrictions,omitempty"`
	TotalTracks          int                `json:"total_tracks,omitempty"`
	Type                 Type               `json:"type"`
	URI                  string             `json:"uri,omitempty"`
}

func (a *SimplifiedAlbum) UnmarshalJSON(data []byte) error {
	type alias SimplifiedAlbum
	return decodeObject(data, (*alias)(a), "simplified album", simplifiedAlbumFields)
}

// FullAlbum is the album object returned by the album endpoints, including its first page of tracks.
type FullAlbum struct {
	AlbumType            string                  `json:"album_type"`
	Artists              []SimplifiedArtist      `json:"artists"`
	AvailableMarkets     []string                `json:"available_markets,omitempty"`
	Copyrights           []Copyright             `json:"copyrights"`
	ExternalIDs          map[string]string       `json:"external_ids"`
	ExternalURLs         map[string]string       `json:"external_urls"`
	Genres               []string                `json:"genres"`
	Href                 string                  `json:"href"`
	ID                   string                  `json:"id"`
	Images               []Image                 `json:"images"`
	Label                string                  `json:"label,omitempty"`
	Name                 string                  `json:"name"`
	Popularity           int                     `json:"popularity"`
	ReleaseDate          string                  `json:"release_date"`
	ReleaseDatePrecision string                  `json:"release_date_precision"`
	Restrictions         *Restriction            `json:"restrictions,omitempty"`
	Tracks               Paging[SimplifiedTrack] `json:"tracks"`
	Type                 Type                    `json:"type"`
	URI                  string                  `json:"uri"`
}

func (a *FullAlbum) UnmarshalJSON(data []byte) error {
	type alias FullAlbum
	return decodeObject(data, (*alias)(a), "album", fullAlbumFields)
}

// SavedAlbum is an album in the current user's library.
type SavedAlbum struct {
	AddedAt time.Time `json:"added_at"`
	Album   FullAlbum `json:"album"`
}

func (s *SavedAlbum) UnmarshalJSON(data []byte) error {
	type alias SavedAlbum
	return decodeObject(data, (*alias)(s), "saved album", savedAlbumFields)
}
