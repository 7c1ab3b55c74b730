package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotx/internal/shared"
)

var (
	ErrAuthentication    = shared.ErrAuthentication
	ErrNotFound          = shared.ErrNotFound
	ErrRateLimited       = shared.ErrRateLimited
	ErrMalformedResponse = shared.ErrMalformedResponse
	ErrNetwork           = shared.ErrNetwork
	ErrAPIRequest        = shared.ErrAPIRequest
	ErrInvalidArgument   = shared.ErrInvalidArgument
)

// Error is a non-2xx response from the Web API.
//
// It unwraps to [ErrAuthentication], [ErrNotFound], [ErrRateLimited] or [ErrAPIRequest].
type Error struct {
	Status     int
	Message    string
	RetryAfter time.Duration
	kind       error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", e.kind, e.Status)
	}
	return fmt.Sprintf("%v: status %d: %s", e.kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.kind
}

// newError builds an [*Error] from a failed response and its body.
func newError(resp *http.Response, body []byte) *Error {
	e := &Error{Status: resp.StatusCode, Message: errorMessage(body)}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.kind = ErrAuthentication
	case http.StatusNotFound:
		e.kind = ErrNotFound
	case http.StatusTooManyRequests:
		e.kind = ErrRateLimited
		e.RetryAfter = retryAfter(resp.Header.Get("Retry-After"))
	default:
		e.kind = ErrAPIRequest
	}
	return e
}

// errorMessage reads the message from the regular error object,
// the accounts service form, or falls back to the raw body.
func errorMessage(body []byte) string {
	var regular struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &regular); err == nil && regular.Error.Message != "" {
		return regular.Error.Message
	}

	var accounts struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &accounts); err == nil && accounts.Error != "" {
		if accounts.Description != "" {
			return accounts.Error + ": " + accounts.Description
		}
		return accounts.Error
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
