package extractor

import (
	"strconv"
	"strings"
)

// minContentImageSize is the smallest declared width or height, in pixels,
// of an <img> that may be used as a preview image. Smaller images are
// treated as spacers, tracking pixels or icons.
const minContentImageSize = 50

// document is the subset of a parsed page the candidate chains read from.
type document struct {
	meta   map[string]string // lowercased property/name → first non-empty content
	icons  map[string]string // lowercased rel → first non-empty href
	title  string
	images []image
}

type image struct {
	src    string
	width  string
	height string
}

// candidate yields a raw value for one field, or "" when it has none.
type candidate struct {
	get func(d *document) string
}

func meta(key string) candidate {
	return candidate{get: func(d *document) string { return d.meta[key] }}
}

func linkIcon(rel string) candidate {
	return candidate{get: func(d *document) string { return d.icons[rel] }}
}

var titleElement = candidate{get: func(d *document) string { return d.title }}

var firstContentImage = candidate{get: func(d *document) string {
	for _, img := range d.images {
		if img.src == "" || isDecorative(img) {
			continue
		}
		return img.src
	}
	return ""
}}

// Candidate chains, in priority order. The first non-empty value wins; values
// from different conventions are never merged.
var (
	titleChain = []candidate{
		meta("og:title"),
		meta("twitter:title"),
		titleElement,
	}
	descriptionChain = []candidate{
		meta("og:description"),
		meta("twitter:description"),
		meta("description"),
	}
	imageChain = []candidate{
		meta("og:image"),
		meta("og:image:url"),
		meta("og:image:secure_url"),
		meta("twitter:image"),
		meta("twitter:image:src"),
		firstContentImage,
	}
	iconChain = []candidate{
		linkIcon("icon"),
		linkIcon("shortcut icon"),
		linkIcon("apple-touch-icon"),
		linkIcon("apple-touch-icon-precomposed"),
	}
)

// firstOf evaluates chain in order and returns the first value that is
// non-empty after clean.
func firstOf(d *document, chain []candidate, clean func(string) string) string {
	for _, c := range chain {
		if v := clean(c.get(d)); v != "" {
			return v
		}
	}
	return ""
}

// isDecorative reports whether the declared dimensions mark img as too small
// to be a content image. Unknown or unparsable dimensions are not decorative.
func isDecorative(img image) bool {
	return tooSmall(img.width) || tooSmall(img.height)
}

func tooSmall(dim string) bool {
	dim = strings.TrimSuffix(strings.TrimSpace(dim), "px")
	n, err := strconv.ParseFloat(strings.TrimSpace(dim), 64)
	if err != nil {
		return false
	}
	return n < minContentImageSize
}
