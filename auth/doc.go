// Package auth obtains and refreshes OAuth2 tokens for the Spotify Web API.
//
// A [Manager] is built for one grant: [NewClientCredentials] for app-only access,
// or [NewAuthorizationCode] for user access. [Manager.Token] hands out a token that
// stays valid for at least the configured skew, exchanging or refreshing when needed.
// Concurrent callers share a single in-flight exchange.
package auth
