package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRedirects = 10
	DefaultMaxBodyBytes = 10 * 1024 * 1024
	DefaultUserAgent    = "LinkPreviewBot/1.0"
)

var errRedirectLimit = errors.New("redirect limit reached")

// Page is a successfully fetched resource.
type Page struct {
	URL         string // requested URL
	FinalURL    string // after redirects
	StatusCode  int
	ContentType string
	Body        []byte
}

type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxRedirects int
	maxBodyBytes int64
	userAgent    string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each fetch, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxRedirects sets how many redirects are followed before giving up.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRedirects = n
		}
	}
}

// WithMaxBodyBytes caps how much of the response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying client. Its CheckRedirect is
// overridden so the redirect bound still applies.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			clone := *c
			f.client = &clone
		}
	}
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{},
		timeout:      DefaultTimeout,
		maxRedirects: DefaultMaxRedirects,
		maxBodyBytes: DefaultMaxBodyBytes,
		userAgent:    DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > f.maxRedirects {
			return errRedirectLimit
		}
		return nil
	}
	return f
}

// Fetch issues a GET for url. The URL scheme is not checked here.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: ErrUnreachable, URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,image/*;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classify(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: ErrHTTPStatus, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, f.classify(url, fmt.Errorf("failed to read response body: %w", err))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	return &Page{
		URL:         url,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// classify maps a transport error onto a fetch failure kind.
func (f *Fetcher) classify(url string, err error) *Error {
	if errors.Is(err, errRedirectLimit) {
		return &Error{Kind: ErrTooManyRedirects, URL: url, Err: fmt.Errorf("more than %d redirects", f.maxRedirects)}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: ErrTimeout, URL: url, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: ErrTimeout, URL: url, Err: err}
	}
	return &Error{Kind: ErrUnreachable, URL: url, Err: err}
}
