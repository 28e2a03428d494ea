package fetch

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotCacheControl, gotPragma, gotAgent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/site.json":
			gotCacheControl = r.Header.Get("Cache-Control")
			gotPragma = r.Header.Get("Pragma")
			gotAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"yourName":"VLab"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(srv.URL, "labsite-test", 0)
	if err != nil {
		t.Fatalf("NewHTTPFetcher returned error: %v", err)
	}

	var meta struct {
		YourName string `json:"yourName"`
	}
	if err := JSON(context.Background(), f, "/site.json", &meta); err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}

	if meta.YourName != "VLab" {
		t.Errorf("YourName = %q, want VLab", meta.YourName)
	}

	if gotCacheControl != "no-cache" || gotPragma != "no-cache" {
		t.Errorf("cache headers = %q/%q, want no-cache/no-cache", gotCacheControl, gotPragma)
	}

	if gotAgent != "labsite-test" {
		t.Errorf("User-Agent = %q, want labsite-test", gotAgent)
	}
}

func TestHTTPFetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f, err := NewHTTPFetcher(srv.URL, "", 0)
	if err != nil {
		t.Fatalf("NewHTTPFetcher returned error: %v", err)
	}

	_, err = f.Fetch(context.Background(), "/people/people.json")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Fetch error = %v, want ErrUnexpectedStatus", err)
	}
}

func TestHTTPFetcher_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(srv.URL, "", 0)
	if err != nil {
		t.Fatalf("NewHTTPFetcher returned error: %v", err)
	}

	var v map[string]any
	if err := JSON(context.Background(), f, "/site.json", &v); err == nil {
		t.Error("JSON expected decode error, got nil")
	}
}

func TestNewHTTPFetcher_InvalidOrigin(t *testing.T) {
	for _, origin := range []string{"ftp://lab.example.org", "://bad", "lab.example.org"} {
		if _, err := NewHTTPFetcher(origin, "", 0); err == nil {
			t.Errorf("NewHTTPFetcher(%q) expected error, got nil", origin)
		}
	}
}

func TestHTTPFetcher_URL(t *testing.T) {
	f, err := NewHTTPFetcher("https://lab.example.org/people/", "", 0)
	if err != nil {
		t.Fatalf("NewHTTPFetcher returned error: %v", err)
	}

	tests := map[string]string{
		"/site.json":             "https://lab.example.org/site.json",
		"hero/hero.json":         "https://lab.example.org/hero/hero.json",
		"/research/../site.json": "https://lab.example.org/site.json",
	}

	for in, want := range tests {
		if got := f.URL(in); got != want {
			t.Errorf("URL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFSFetcher(t *testing.T) {
	fsys := fstest.MapFS{
		"footer.html":            {Data: []byte("<p data-copyright></p>")},
		"research/research.json": {Data: []byte(`[]`)},
	}
	f := NewFSFetcher(fsys)

	got, err := Text(context.Background(), f, "/footer.html")
	if err != nil {
		t.Fatalf("Text returned error: %v", err)
	}
	if got != "<p data-copyright></p>" {
		t.Errorf("Text = %q", got)
	}

	if _, err := f.Fetch(context.Background(), Join("/research/", "research.json")); err != nil {
		t.Errorf("Fetch of page-relative path failed: %v", err)
	}

	_, err = f.Fetch(context.Background(), "/header.html")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Fetch error = %v, want fs.ErrNotExist", err)
	}
}

func TestFSFetcher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFSFetcher(fstest.MapFS{"site.json": {Data: []byte(`{}`)}})
	if _, err := f.Fetch(ctx, "/site.json"); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch error = %v, want context.Canceled", err)
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		base, name, want string
	}{
		{"/research/", "research.json", "/research/research.json"},
		{"/", "about.json", "/about.json"},
		{"/pubs/", "publications_first_author.json", "/pubs/publications_first_author.json"},
	}

	for _, tt := range tests {
		if got := Join(tt.base, tt.name); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}
