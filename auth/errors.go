package auth

import "github.com/desertthunder/spotx/internal/shared"

var (
	ErrAuthentication     = shared.ErrAuthentication
	ErrNoRefreshToken     = shared.ErrNoRefreshToken
	ErrMissingCredentials = shared.ErrMissingCredentials
	ErrNetwork            = shared.ErrNetwork
)
