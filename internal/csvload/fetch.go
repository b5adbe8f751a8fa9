package csvload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Fetcher retrieves the raw text behind a locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, locator string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, locator string) ([]byte, error) {
	return f(ctx, locator)
}

// HTTPFetcher fetches http(s) locators. Any non-2xx status is a TransportError.
type HTTPFetcher struct {
	Client *http.Client
	// Token, when set, supplies a bearer token for each request.
	Token func() string
}

func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, &TransportError{Locator: locator, Err: err}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	if f.Token != nil {
		if tok := strings.TrimSpace(f.Token()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Locator: locator, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{
			Locator:    locator,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", resp.Status),
		}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Locator: locator, Err: fmt.Errorf("read body: %w", err)}
	}
	return b, nil
}

// FileFetcher reads local paths and file:// URIs.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Locator: locator, Err: err}
	}
	p, _ := LocalPath(locator)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, &TransportError{Locator: locator, Err: err}
	}
	return b, nil
}

// LocalPath returns the filesystem path of a locator and whether the
// locator names a local file at all.
func LocalPath(locator string) (string, bool) {
	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// no scheme, or a windows drive letter
		return locator, true
	}
	if u.Scheme == "file" {
		return u.Path, true
	}
	return "", false
}

func isHTTP(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
