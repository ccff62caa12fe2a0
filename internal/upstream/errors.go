// Package upstream holds the error vocabulary shared by the third-party API
// adapters and the handlers that translate those errors into HTTP statuses.
package upstream

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means a required API key or endpoint is missing.
	ErrNotConfigured = errors.New("upstream not configured")

	// ErrEmpty means the upstream answered 2xx but carried no usable result.
	ErrEmpty = errors.New("upstream returned no usable result")

	// ErrMalformed means the upstream payload could not be decoded.
	ErrMalformed = errors.New("upstream returned a malformed payload")
)

// StatusError is a non-2xx answer from an upstream API. Body is kept for logs only.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// NotConfigured wraps ErrNotConfigured with the missing setting.
func NotConfigured(setting string) error {
	return fmt.Errorf("%w: %s is not set", ErrNotConfigured, setting)
}

// Kind classifies err for status mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotConfigured
	KindTimeout
	KindBadGateway
)

// Classify maps an adapter error to a Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotConfigured):
		return KindNotConfigured
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	default:
		// status errors, empty or malformed payloads and network failures
		return KindBadGateway
	}
}
