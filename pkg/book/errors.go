package book

import "errors"

var (
	// ErrInvalidEPub indicates the archive is not a readable EPUB container.
	ErrInvalidEPub = errors.New("epub: invalid container")

	// ErrFileNotFound indicates a referenced file is missing from the archive.
	ErrFileNotFound = errors.New("epub: file not found in archive")

	// ErrNoCover indicates no cover image is declared in the package document.
	ErrNoCover = errors.New("epub: no cover image")
)
