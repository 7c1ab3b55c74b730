// Package client wraps the Spotify Web API endpoints.
//
// Each method validates its arguments, obtains a token from the configured
// [TokenSource], performs a single request and decodes the response into the
// matching type from the models package. Failures are reported as one of the
// package's error values; responses with a non-2xx status also carry an [*Error]
// with the status code and server message.
//
// Paged results can be walked with [Iterate], which fetches each following page
// only when the previous one has been consumed.
//
// The client never retries. A rate-limited request returns [ErrRateLimited]
// and the [*Error] holds the Retry-After interval so callers can decide how to wait.
package client
