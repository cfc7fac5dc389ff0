package fetcher

import (
	"errors"
	"fmt"
)

// Fetch failure kinds. Every error returned by Fetch is an *Error whose Kind
// is one of these, so callers can use errors.Is(err, ErrTimeout).
var (
	ErrTimeout          = errors.New("request timed out")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrHTTPStatus       = errors.New("unexpected HTTP status")
	ErrUnreachable      = errors.New("host unreachable")
)

// Error describes a failed fetch.
type Error struct {
	Kind       error
	URL        string
	StatusCode int // set for ErrHTTPStatus
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == ErrHTTPStatus {
		return fmt.Sprintf("fetch %s: %v %d", e.URL, e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Kind)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
