package shared

import "errors"

var (
	// Configuration errors
	ErrMissingConfig      = errors.New("configuration not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// Authentication errors
	ErrAuthentication = errors.New("authentication failed")
	ErrNoRefreshToken = errors.New("no refresh token available")
	ErrTimeout        = errors.New("operation timed out")

	// API and transport errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrNotFound           = errors.New("resource not found")
	ErrRateLimited        = errors.New("rate limited")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrNetwork            = errors.New("network error")
	ErrServiceUnavailable = errors.New("service unavailable")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)
