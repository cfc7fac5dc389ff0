package common

import (
	"regexp"
	"strings"
)

var markdownLink = regexp.MustCompile(`^\[[^\]]*\]\(([^)\s]+)\)$`)

const (
	trailingJunk = ",.;)}]>\"'"
	leadingJunk  = "([<\"'"
)

// SanitizeURL cleans up a URL pasted from chat or markdown: surrounding
// whitespace, [text](url) wrappers, and stray quotes or brackets. It does
// not validate the result.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	if m := markdownLink.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}

	cleaned = strings.TrimRight(cleaned, trailingJunk)
	cleaned = strings.TrimLeft(cleaned, leadingJunk)

	return strings.TrimSpace(cleaned)
}

// SplitURLs parses a comma-separated --urls value. Empty items are dropped;
// duplicates are kept so the resolver sees every request.
func SplitURLs(list ...string) []string {
	var urls []string
	for _, item := range list {
		for _, part := range strings.Split(item, ",") {
			if u := SanitizeURL(part); u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}
