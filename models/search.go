package models

// SearchResult holds one envelope per searched type; types not searched are nil.
type SearchResult struct {
	Albums    *Paging[SimplifiedAlbum]    `json:"albums,omitempty"`
	Artists   *Paging[FullArtist]         `json:"artists,omitempty"`
	Playlists *Paging[SimplifiedPlaylist] `json:"playlists,omitempty"`
	Tracks    *Paging[FullTrack]          `json:"tracks,omitempty"`
}
