// Package fetch retrieves site data files, either from an HTTP origin or from
// a filesystem holding the published site.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// ErrUnexpectedStatus indicates a non-2xx HTTP response.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Fetcher returns the raw bytes stored at a site path such as
// "/people/people.json".
type Fetcher interface {
	Fetch(ctx context.Context, sitePath string) ([]byte, error)
}

// HTTPFetcher fetches site paths from an origin. Every request asks caches to
// revalidate with the origin.
type HTTPFetcher struct {
	client    *http.Client
	origin    *url.URL
	userAgent string
}

// NewHTTPFetcher creates a fetcher for origin. A zero timeout means requests
// wait as long as the context allows.
func NewHTTPFetcher(origin, userAgent string, timeout time.Duration) (*HTTPFetcher, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid origin %q: scheme must be http or https", origin)
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		origin:    &url.URL{Scheme: u.Scheme, Host: u.Host},
		userAgent: userAgent,
	}, nil
}

// URL returns the absolute URL for a site path.
func (f *HTTPFetcher) URL(sitePath string) string {
	return f.origin.ResolveReference(&url.URL{Path: cleanPath(sitePath)}).String()
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, sitePath string) ([]byte, error) {
	target := f.URL(sitePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request for %s failed: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d for %s", ErrUnexpectedStatus, resp.StatusCode, target)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body for %s: %w", target, err)
	}

	return body, nil
}

// FSFetcher reads site paths from a filesystem rooted at the site root.
type FSFetcher struct {
	fsys fs.FS
}

// NewFSFetcher creates a fetcher over fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

// Fetch implements Fetcher.
func (f *FSFetcher) Fetch(ctx context.Context, sitePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := strings.TrimPrefix(cleanPath(sitePath), "/")
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sitePath, err)
	}

	return data, nil
}

// JSON fetches sitePath and decodes it into v.
func JSON(ctx context.Context, f Fetcher, sitePath string, v any) error {
	data, err := f.Fetch(ctx, sitePath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", sitePath, err)
	}

	return nil
}

// Text fetches sitePath and returns it as a string.
func Text(ctx context.Context, f Fetcher, sitePath string) (string, error) {
	data, err := f.Fetch(ctx, sitePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Join resolves name against a page base path: Join("/research/",
// "research.json") is "/research/research.json".
func Join(basePath, name string) string {
	return cleanPath(path.Join(basePath, name))
}

func cleanPath(p string) string {
	return path.Clean("/" + p)
}
