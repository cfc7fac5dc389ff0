package resolve

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dtnitsch/link-preview/models"
	"github.com/dtnitsch/link-preview/pkg/db"
	"github.com/dtnitsch/link-preview/pkg/fetcher"
	"github.com/dtnitsch/link-preview/pkg/resolver"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls map[string]int
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (*fetcher.Page, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[url]++
	s.mu.Unlock()

	if url == "https://down.example" {
		return nil, &fetcher.Error{Kind: fetcher.ErrUnreachable, URL: url, Err: errors.New("connection refused")}
	}
	return &fetcher.Page{
		URL:         url,
		FinalURL:    url,
		StatusCode:  200,
		ContentType: "text/html",
		Body:        []byte("<title>" + url + "</title>"),
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_KeepsInputOrderAndCoalesces(t *testing.T) {
	f := &stubFetcher{}
	res := resolver.New(resolver.NewDirect(f, nil), resolver.WithLogger(discardLogger()))

	urls := []string{
		"https://a.example",
		"https://b.example",
		"https://a.example",
		"ftp://c.example",
		"https://down.example",
	}
	results := run(context.Background(), discardLogger(), res, urls, models.DefaultOptions(), 3, nil)

	if len(results) != len(urls) {
		t.Fatalf("run() returned %d results, want %d", len(results), len(urls))
	}
	for i, r := range results {
		if r.URL != urls[i] {
			t.Errorf("result %d URL = %q, want %q", i, r.URL, urls[i])
		}
	}
	if f.calls["https://a.example"] != 1 {
		t.Errorf("a.example fetched %d times, want 1", f.calls["https://a.example"])
	}
	if got := results[1].Preview.(models.StandardInfo).Title; got != "https://b.example" {
		t.Errorf("b title = %q", got)
	}
	if !errors.Is(results[3].Error, resolver.ErrUnsupportedScheme) {
		t.Errorf("ftp error = %v, want ErrUnsupportedScheme", results[3].Error)
	}
	if !errors.Is(results[4].Error, resolver.ErrFetchFailed) {
		t.Errorf("down error = %v, want ErrFetchFailed", results[4].Error)
	}
}

func TestRun_RecordsAccesses(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	defer database.Close()

	res := resolver.New(resolver.NewDirect(&stubFetcher{}, nil), resolver.WithLogger(discardLogger()))
	urls := []string{"https://a.example", "https://down.example"}

	run(context.Background(), discardLogger(), res, urls, models.DefaultOptions(), 1, database)
	run(context.Background(), discardLogger(), res, urls[:1], models.DefaultOptions(), 1, database)

	accesses, err := database.ListAccesses(0)
	if err != nil {
		t.Fatalf("ListAccesses() error = %v", err)
	}
	if len(accesses) != 3 {
		t.Fatalf("recorded %d accesses, want 3", len(accesses))
	}

	var hits, failures int
	for _, a := range accesses {
		if a.CacheHit {
			hits++
		}
		if a.Status == db.StatusFailed {
			failures++
			if a.Category != "unreachable" {
				t.Errorf("failed access category = %q, want unreachable", a.Category)
			}
		}
	}
	if hits != 1 || failures != 1 {
		t.Errorf("hits = %d, failures = %d, want 1 and 1", hits, failures)
	}
}

func TestSummarize(t *testing.T) {
	ok := Result{URL: "https://a.example", Preview: models.StandardInfo{Title: "A"}}
	img := Result{URL: "https://a.example/x.png", Preview: models.ImageInfo{Image: "https://a.example/x.png"}}
	bad := Result{URL: "ftp://x", Error: &resolver.Error{Kind: resolver.ErrUnsupportedScheme, URL: "ftp://x"}}

	tests := []struct {
		name       string
		results    []Result
		wantStatus string
		wantCode   int
	}{
		{name: "all good", results: []Result{ok, img}, wantStatus: statusSuccess, wantCode: 0},
		{name: "partial", results: []Result{ok, bad}, wantStatus: statusPartialFailure, wantCode: 1},
		{name: "all failed", results: []Result{bad}, wantStatus: statusFailed, wantCode: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := summarize(tt.results, time.Now())
			if out.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", out.Status, tt.wantStatus)
			}
			if code := exitCode(out.Stats); code != tt.wantCode {
				t.Errorf("exitCode() = %d, want %d", code, tt.wantCode)
			}
		})
	}

	out := summarize([]Result{img, bad}, time.Now())
	if out.Results[0].Kind != models.KindImage {
		t.Errorf("Kind = %q, want image", out.Results[0].Kind)
	}
	if out.Results[1].Category != "unsupported" || out.Results[1].Preview != nil {
		t.Errorf("failed output = %+v", out.Results[1])
	}
}

func TestCategoryOf_Cancelled(t *testing.T) {
	if got := categoryOf(context.Canceled); got != "cancelled" {
		t.Errorf("categoryOf(Canceled) = %q", got)
	}
}
