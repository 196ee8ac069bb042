package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// maxBookSize caps a single download.
const maxBookSize = 256 << 20

// HTTPFetcher downloads books over http(s).
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/epub+zip, application/octet-stream")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: bad status: %s", location, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBookSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	if len(data) > maxBookSize {
		return nil, fmt.Errorf("%s: exceeds %d bytes", location, maxBookSize)
	}
	return data, nil
}

// FileFetcher reads books from the local filesystem. A leading "~/" is
// expanded to the user's home directory.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	location = strings.TrimPrefix(location, "file://")
	if strings.HasPrefix(location, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		location = filepath.Join(home, location[2:])
	}
	return os.ReadFile(location)
}

// Auto dispatches on the location's scheme: http and https go over the
// network, everything else is treated as a file path.
type Auto struct {
	HTTP Fetcher
	File Fetcher
}

func NewAuto(client *http.Client) *Auto {
	return &Auto{HTTP: NewHTTPFetcher(client), File: FileFetcher{}}
}

func (a *Auto) Fetch(ctx context.Context, location string) ([]byte, error) {
	if IsRemote(location) {
		return a.HTTP.Fetch(ctx, location)
	}
	return a.File.Fetch(ctx, location)
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
