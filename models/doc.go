// Package models defines the records that mirror the Spotify Web API object model.
//
// Entities come in up to three shapes, kept as distinct types:
//   - Full objects ([FullTrack], [FullAlbum], [FullArtist], [FullPlaylist]) returned by single-item endpoints
//   - Simplified objects ([SimplifiedTrack], [SimplifiedAlbum], [SimplifiedArtist], [SimplifiedPlaylist]) nested inside others
//   - Saved objects ([SavedTrack], [SavedAlbum]) that pair a full object with the time it was saved
//
// # Decoding
//
// Every object checks its required fields before decoding. A field that is absent or null yields a [*FieldError].
// Unknown fields are ignored. Durations travel as integer milliseconds and decode into [Duration].
//
// # Relinking
//
// When a request carries a market, the API may substitute a track that is unavailable there.
// The three fields describing that substitution (is_playable, linked_from, restrictions) are grouped in [Relinking],
// which is nil when none of them were sent.
//
// # Paging
//
// [Paging] wraps one page of any entity with the URLs of the adjacent pages. [CursorPaging] is the cursor based variant.
package models
