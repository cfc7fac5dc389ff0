// Package native provides the bundled metadata extractor for the delegated
// resolution strategy.
package native

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dtnitsch/link-preview/pkg/extractor"
	"github.com/dtnitsch/link-preview/pkg/fetcher"
	"github.com/dtnitsch/link-preview/pkg/resolver"
	"github.com/go-shiori/go-readability"
)

// Readability fetches a page and lets go-readability pick out its title,
// excerpt, lead image and favicon.
type Readability struct {
	fetcher resolver.Fetcher
}

func NewReadability(f resolver.Fetcher) *Readability {
	if f == nil {
		f = fetcher.NewFetcher()
	}
	return &Readability{fetcher: f}
}

// Extract implements resolver.Native.
func (r *Readability) Extract(ctx context.Context, rawURL string) (*resolver.NativeMetadata, error) {
	page, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(page.FinalURL)
	if err != nil || page.FinalURL == "" {
		base, err = url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse URL: %w", err)
		}
	}

	// Image responses have no document to read; the URL is the preview.
	if strings.HasPrefix(strings.ToLower(page.ContentType), "image/") {
		return &resolver.NativeMetadata{ImageURL: rawURL}, nil
	}

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(page.Body), base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extractor.ErrUnparseable, err)
	}

	return &resolver.NativeMetadata{
		Title:       normalizeText(article.Title),
		Description: normalizeText(article.Excerpt),
		ImageURL:    resolve(base, article.Image),
		Favicon:     resolve(base, article.Favicon),
	}, nil
}

// normalizeText collapses runs of whitespace, including newlines, to single
// spaces.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
