package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title>Hi</title></head></html>"))
	}))
	defer server.Close()

	f := NewFetcher(WithUserAgent("TestBot/1.0"))
	page, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if page.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", page.StatusCode)
	}
	if page.ContentType != "text/html; charset=utf-8" {
		t.Errorf("ContentType = %q", page.ContentType)
	}
	if !strings.Contains(string(page.Body), "<title>Hi</title>") {
		t.Errorf("Body = %q", page.Body)
	}
	if gotUA != "TestBot/1.0" {
		t.Errorf("User-Agent = %q, want TestBot/1.0", gotUA)
	}
}

func TestFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	page, err := NewFetcher().Fetch(context.Background(), server.URL+"/start")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.URL != server.URL+"/start" {
		t.Errorf("URL = %q, want requested URL", page.URL)
	}
	if page.FinalURL != server.URL+"/final" {
		t.Errorf("FinalURL = %q, want %q", page.FinalURL, server.URL+"/final")
	}
}

func TestFetch_SniffsMissingContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write(png)
	}))
	defer server.Close()

	page, err := NewFetcher().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", page.ContentType)
	}
}

func TestFetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("a", 1000)))
	}))
	defer server.Close()

	page, err := NewFetcher(WithMaxBodyBytes(100)).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(page.Body) != 100 {
		t.Errorf("len(Body) = %d, want 100", len(page.Body))
	}
}

func TestFetch_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name       string
		url        string
		wantKind   error
		wantStatus int
	}{
		{name: "404", url: server.URL + "/missing", wantKind: ErrHTTPStatus, wantStatus: 404},
		{name: "503", url: server.URL + "/broken", wantKind: ErrHTTPStatus, wantStatus: 503},
		{name: "redirect loop", url: server.URL + "/loop", wantKind: ErrTooManyRedirects},
		{name: "slow response", url: server.URL + "/slow", wantKind: ErrTimeout},
		{name: "connection refused", url: closedURL, wantKind: ErrUnreachable},
	}

	f := NewFetcher(WithTimeout(100*time.Millisecond), WithMaxRedirects(3))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.url)
			if err == nil {
				t.Fatal("Fetch() error = nil, want error")
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("Fetch() error = %v, want kind %v", err, tt.wantKind)
			}

			var fe *Error
			if !errors.As(err, &fe) {
				t.Fatalf("Fetch() error is %T, want *Error", err)
			}
			if fe.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.wantStatus)
			}
			if fe.URL != tt.url {
				t.Errorf("URL = %q, want %q", fe.URL, tt.url)
			}
		})
	}
}

func TestFetch_ZeroRedirectsAllowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := NewFetcher(WithMaxRedirects(0)).Fetch(context.Background(), server.URL+"/a")
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("Fetch() error = %v, want ErrTooManyRedirects", err)
	}
}
