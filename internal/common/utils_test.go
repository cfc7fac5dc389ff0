package common

import (
	"reflect"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "https://example.com/a", "https://example.com/a"},
		{"whitespace", "  https://example.com\n", "https://example.com"},
		{"markdown link", "[click here](https://example.com/x)", "https://example.com/x"},
		{"trailing comma", "https://example.com,", "https://example.com"},
		{"trailing period and quote", `https://example.com."`, "https://example.com"},
		{"wrapped in parens", "(https://example.com)", "https://example.com"},
		{"angle brackets", "<https://example.com/path>", "https://example.com/path"},
		{"query preserved", "https://example.com/?q=1&b=2", "https://example.com/?q=1&b=2"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.in); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitURLs(t *testing.T) {
	got := SplitURLs("https://a.example, https://b.example,,", " https://a.example ")
	want := []string{"https://a.example", "https://b.example", "https://a.example"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitURLs() = %v, want %v", got, want)
	}

	if got := SplitURLs(""); got != nil {
		t.Errorf("SplitURLs(\"\") = %v, want nil", got)
	}
}
