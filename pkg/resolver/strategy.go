package resolver

import (
	"context"
	"strings"

	"github.com/dtnitsch/link-preview/models"
	"github.com/dtnitsch/link-preview/pkg/extractor"
	"github.com/dtnitsch/link-preview/pkg/fetcher"
)

// Strategy produces a result for a validated URL. It is chosen once when the
// Resolver is built.
type Strategy interface {
	Resolve(ctx context.Context, url string, opts models.Options) (models.Result, error)
}

// Fetcher is satisfied by *fetcher.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Page, error)
}

// Direct fetches the URL itself and extracts metadata from the response.
type Direct struct {
	fetcher   Fetcher
	extractor *extractor.Extractor
}

func NewDirect(f Fetcher, e *extractor.Extractor) *Direct {
	if e == nil {
		e = extractor.New()
	}
	return &Direct{fetcher: f, extractor: e}
}

func (d *Direct) Resolve(ctx context.Context, url string, opts models.Options) (models.Result, error) {
	page, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return d.extractor.Extract(extractor.Source{
		URL:         url,
		BaseURL:     page.FinalURL,
		ContentType: page.ContentType,
		Body:        page.Body,
	}, opts.IncludeImages)
}

// NativeMetadata is what a host-provided extractor returns. Every field is
// optional.
type NativeMetadata struct {
	Title       string
	Description string
	ImageURL    string
	Favicon     string
}

// Native is a host-provided metadata extractor used instead of the
// fetch-and-parse path.
type Native interface {
	Extract(ctx context.Context, url string) (*NativeMetadata, error)
}

// Delegated hands resolution to a Native extractor.
type Delegated struct {
	native Native
}

func NewDelegated(n Native) *Delegated {
	return &Delegated{native: n}
}

func (d *Delegated) Resolve(ctx context.Context, url string, opts models.Options) (models.Result, error) {
	md, err := d.native.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	info := models.StandardInfo{}
	if md != nil {
		info.Title = strings.TrimSpace(md.Title)
		info.Description = strings.TrimSpace(md.Description)
		info.Icon = strings.TrimSpace(md.Favicon)
		if opts.IncludeImages {
			info.Image = strings.TrimSpace(md.ImageURL)
		}
	}
	return info, nil
}
