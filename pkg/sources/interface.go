package sources

import "context"

// Fetcher retrieves the raw bytes of a book at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}
