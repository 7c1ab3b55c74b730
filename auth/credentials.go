package auth

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Credentials identify the application to the accounts service.
type Credentials struct {
	ClientID     string `env:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	RedirectURI  string `env:"SPOTIFY_REDIRECT_URI"`
	RefreshToken string `env:"SPOTIFY_REFRESH_TOKEN"`
}

// CredentialsFromEnv reads credentials from SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET,
// SPOTIFY_REDIRECT_URI and SPOTIFY_REFRESH_TOKEN.
func CredentialsFromEnv() (Credentials, error) {
	var c Credentials
	if err := env.Parse(&c); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}
	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// Validate checks that the client id and secret are present.
func (c Credentials) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: client id", ErrMissingCredentials)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("%w: client secret", ErrMissingCredentials)
	}
	return nil
}
