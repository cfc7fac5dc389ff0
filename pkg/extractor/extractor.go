package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/link-preview/models"
	"github.com/pemistahl/lingua-go"
	"golang.org/x/net/html/charset"
)

// ErrUnparseable is returned when content cannot be read as markup at all,
// e.g. binary data served with an HTML content type.
var ErrUnparseable = errors.New("content is not parseable as HTML")

// Source is a fetched resource handed to the extractor.
type Source struct {
	URL         string // requested URL; used verbatim for ImageInfo
	BaseURL     string // final URL after redirects; relative links resolve against it
	ContentType string
	Body        []byte
}

type Extractor struct {
	detector lingua.LanguageDetector
}

// Option configures an Extractor.
type Option func(*Extractor)

func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract classifies src and, for markup, walks the candidate chains for each
// field. Malformed markup is not an error: whatever could be found is
// returned, possibly with every field empty.
func (e *Extractor) Extract(src Source, includeImages bool) (models.Result, error) {
	if isImage(src.ContentType) {
		return models.ImageInfo{Image: src.URL}, nil
	}

	text, err := decode(src.Body, src.ContentType)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	base := baseURL(doc, src)
	d := collect(doc)
	clean := cleanURL(base)

	info := models.StandardInfo{
		Title:       firstOf(d, titleChain, cleanText),
		Description: firstOf(d, descriptionChain, cleanText),
		Icon:        firstOf(d, iconChain, clean),
	}
	if includeImages {
		info.Image = firstOf(d, imageChain, clean)
	}
	if info.Icon == "" {
		info.Icon = defaultFavicon(base)
	}
	if e.detector != nil {
		info.Language = e.detectLanguage(info.Title + " " + info.Description)
	}

	return info, nil
}

func isImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return strings.HasPrefix(mediaType, "image/")
}

// decode converts body to UTF-8. A charset from the header or a BOM is always
// applied. A sniffed one, including a <meta> charset, is applied only when
// body is not already valid UTF-8. Content containing NUL bytes is rejected
// as binary.
func decode(body []byte, contentType string) (string, error) {
	text := body
	if enc, _, certain := charset.DetermineEncoding(body, contentType); certain || !utf8.Valid(body) {
		if decoded, err := enc.NewDecoder().Bytes(body); err == nil {
			text = decoded
		}
	}

	if bytes.IndexByte(text, 0) >= 0 {
		return "", fmt.Errorf("%w: binary content", ErrUnparseable)
	}
	return string(text), nil
}

// collect gathers every value a candidate may read in a single pass.
func collect(doc *goquery.Document) *document {
	d := &document{
		meta:  make(map[string]string),
		icons: make(map[string]string),
	}

	doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		for _, attr := range []string{"property", "name"} {
			key := strings.ToLower(strings.TrimSpace(s.AttrOr(attr, "")))
			if key == "" {
				continue
			}
			if _, seen := d.meta[key]; !seen {
				d.meta[key] = content
			}
		}
	})

	doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		rel := strings.Join(strings.Fields(strings.ToLower(s.AttrOr("rel", ""))), " ")
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if rel == "" || href == "" {
			return
		}
		if _, seen := d.icons[rel]; !seen {
			d.icons[rel] = href
		}
	})

	d.title = doc.Find("title").First().Text()

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		d.images = append(d.images, image{
			src:    strings.TrimSpace(s.AttrOr("src", "")),
			width:  s.AttrOr("width", ""),
			height: s.AttrOr("height", ""),
		})
	})

	return d
}

// baseURL picks the URL relative references resolve against: the final
// fetched URL, adjusted by a <base href> element when present.
func baseURL(doc *goquery.Document, src Source) *url.URL {
	raw := src.BaseURL
	if raw == "" {
		raw = src.URL
	}
	base, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}
	return base
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cleanURL(base *url.URL) func(string) string {
	return func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" || base == nil {
			return s
		}
		ref, err := url.Parse(s)
		if err != nil {
			return s
		}
		return base.ResolveReference(ref).String()
	}
}

// defaultFavicon guesses /favicon.ico at the origin. It is not checked for
// existence.
func defaultFavicon(base *url.URL) string {
	if base == nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return ""
	}
	return base.Scheme + "://" + base.Host + "/favicon.ico"
}
