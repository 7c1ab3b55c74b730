package models

var (
	simplifiedArtistFields = []string{"external_urls", "name", "type"}
	fullArtistFields       = []string{
		"external_urls", "followers", "genres", "href", "id", "images", "name", "popularity", "type", "uri",
	}
)

// SimplifiedArtist is the artist reference nested in tracks and albums.
type SimplifiedArtist struct {
	ExternalURLs map[string]string `json:"external_urls"`
	Href         string            `json:"href,omitempty"`
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	Type         Type              `json:"type"`
	URI          string            `json:"uri,omitempty"`
}

func (a *SimplifiedArtist) UnmarshalJSON(data []byte) error {
	type alias SimplifiedArtist
	return decodeObject(data, (*alias)(a), "simplified artist", simplifiedArtistFields)
}

// FullArtist is the artist object returned by the artist endpoints.
type FullArtist struct {
	ExternalURLs map[string]string `json:"external_urls"`
	Followers    Followers         `json:"followers"`
	Genres       []string          `json:"genres"`
	Href         string            `json:"href"`
	ID           string            `json:"id"`
	Images       []Image           `json:"images"`
	Name         string            `json:"name"`
	Popularity   int               `json:"popularity"`
	Type         Type              `json:"type"`
	URI          string            `json:"uri"`
}

func (a *FullArtist) UnmarshalJSON(data []byte) error {
	type alias FullArtist
	return decodeObject(data, (*alias)(a), "artist", fullArtistFields)
}

// ArtistNames returns the names of artists in order.
func ArtistNames(artists []SimplifiedArtist) []string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return names
}
