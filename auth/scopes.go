package auth

// Authorization scopes used by the user-facing endpoints.
const (
	ScopeUserReadPrivate           = "user-read-private"
	ScopeUserReadEmail             = "user-read-email"
	ScopeUserLibraryRead           = "user-library-read"
	ScopeUserFollowRead            = "user-follow-read"
	ScopePlaylistReadPrivate       = "playlist-read-private"
	ScopePlaylistReadCollaborative = "playlist-read-collaborative"
	ScopePlaylistModifyPublic      = "playlist-modify-public"
	ScopePlaylistModifyPrivate     = "playlist-modify-private"
)

// DefaultScopes covers every endpoint the client wraps.
var DefaultScopes = []string{
	ScopeUserReadPrivate,
	ScopeUserReadEmail,
	ScopeUserLibraryRead,
	ScopeUserFollowRead,
	ScopePlaylistReadPrivate,
	ScopePlaylistReadCollaborative,
	ScopePlaylistModifyPublic,
	ScopePlaylistModifyPrivate,
}
