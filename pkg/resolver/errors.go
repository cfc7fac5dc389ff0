package resolver

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/link-preview/pkg/extractor"
	"github.com/dtnitsch/link-preview/pkg/fetcher"
)

// Resolution failure kinds.
var (
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrFetchFailed       = errors.New("fetch failed")
	ErrParseFailed       = errors.New("parse failed")

	errMissingHost = errors.New("missing host")
)

// Error is returned by Resolve for every failure except caller cancellation.
// Both the kind and the underlying cause are reachable via errors.Is/As.
type Error struct {
	Kind error
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %q: %v", e.URL, e.Kind)
	}
	return fmt.Sprintf("resolve %q: %v: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Category is a short, human-readable failure class for presentation layers.
func (e *Error) Category() string {
	switch {
	case e.Kind == ErrUnsupportedScheme:
		return "unsupported"
	case e.Kind == ErrParseFailed:
		return "unparseable"
	case errors.Is(e.Err, fetcher.ErrTimeout):
		return "timeout"
	case errors.Is(e.Err, fetcher.ErrTooManyRedirects):
		return "too_many_redirects"
	case errors.Is(e.Err, fetcher.ErrHTTPStatus):
		return "http_status"
	case errors.Is(e.Err, fetcher.ErrUnreachable):
		return "unreachable"
	default:
		return "delegate_failed"
	}
}

// Category returns the failure class of err, or "" if err is not a
// resolution error.
func Category(err error) string {
	var re *Error
	if errors.As(err, &re) {
		return re.Category()
	}
	return ""
}

// classify maps a strategy failure onto a resolution error. This is the only
// place lower-level failures are translated.
func classify(url string, err error) *Error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	if errors.Is(err, extractor.ErrUnparseable) {
		return &Error{Kind: ErrParseFailed, URL: url, Err: err}
	}
	// Fetch errors and delegate failures alike.
	return &Error{Kind: ErrFetchFailed, URL: url, Err: err}
}
