package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/book"
	"github.com/kerbaras/dualbook/pkg/data"
	"github.com/kerbaras/dualbook/pkg/integrations"
)

var (
	ErrDuplicatePair = errors.New("book pair already exists")
	ErrNoLibrary     = errors.New("library not opened")
)

// Repository interface needed by the controller
type Repository interface {
	SavePair(pair *data.BookPair) error
	GetPair(id string) (*data.BookPair, error)
	FindPairByName(name string) (*data.BookPair, error)
	ListPairs() ([]*data.BookPair, error)
	DeletePair(id string) error
}

// bookInfo is implemented by sources that carry EPUB metadata.
type bookInfo interface {
	Title() string
	Author() string
	Language() string
	Cover() (book.Cover, error)
}

// BookController manages the library of book pairs and opens them.
type BookController struct {
	repo     Repository
	loader   *Loader
	exporter integrations.Exporter
}

func NewBookController(repo Repository, loader *Loader, exporter integrations.Exporter) *BookController {
	return &BookController{repo: repo, loader: loader, exporter: exporter}
}

func (c *BookController) Loader() *Loader {
	return c.loader
}

// AddPair registers a new pair under a unique name.
func (c *BookController) AddPair(name string, req Request) (*data.BookPair, error) {
	if c.repo == nil {
		return nil, ErrNoLibrary
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("pair name cannot be empty")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := c.repo.FindPairByName(name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePair, name)
	} else if !errors.Is(err, data.ErrPairNotFound) {
		return nil, err
	}

	pair := data.NewBookPair(name,
		req.Original.Location, req.Original.Offset,
		req.Translated.Location, req.Translated.Offset)
	if err := c.repo.SavePair(pair); err != nil {
		return nil, err
	}
	return pair, nil
}

func (c *BookController) ListPairs() ([]*data.BookPair, error) {
	if c.repo == nil {
		return nil, ErrNoLibrary
	}
	return c.repo.ListPairs()
}

// FindPair looks a pair up by ID, then by name.
func (c *BookController) FindPair(ref string) (*data.BookPair, error) {
	if c.repo == nil {
		return nil, ErrNoLibrary
	}
	pair, err := c.repo.GetPair(ref)
	if err == nil {
		return pair, nil
	}
	if !errors.Is(err, data.ErrPairNotFound) {
		return nil, err
	}
	return c.repo.FindPairByName(ref)
}

func (c *BookController) RemovePair(ref string) error {
	pair, err := c.FindPair(ref)
	if err != nil {
		return err
	}
	return c.repo.DeletePair(pair.ID)
}

// RequestFor converts a stored pair into a load request.
func RequestFor(pair *data.BookPair) Request {
	return Request{
		Original:   SourceSpec{Location: pair.OriginalLocation, Offset: pair.OriginalOffset},
		Translated: SourceSpec{Location: pair.TranslatedLocation, Offset: pair.TranslatedOffset},
	}
}

// Open loads and aligns the books named by req.
func (c *BookController) Open(ctx context.Context, req Request) (*align.AlignedBook, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return c.loader.Load(ctx, req)
}

// Export loads req and writes it as a single bilingual book, taking title,
// author and cover from the original edition.
func (c *BookController) Export(ctx context.Context, req Request) (string, error) {
	if c.exporter == nil {
		return "", fmt.Errorf("no exporter configured")
	}
	if err := validateRequest(req); err != nil {
		return "", err
	}

	original, err := c.loader.Resolve(ctx, req.Original.Location)
	if err != nil {
		return "", err
	}
	translated, err := c.loader.Resolve(ctx, req.Translated.Location)
	if err != nil {
		return "", err
	}

	aligned, err := c.loader.Align(ctx, original, translated, req)
	if err != nil {
		return "", err
	}

	return c.exporter.Export(aligned, metadataFor(original, translated))
}

func metadataFor(original, translated ChapterSource) integrations.Metadata {
	var meta integrations.Metadata
	if info, ok := original.(bookInfo); ok {
		meta.Title = info.Title()
		meta.Author = info.Author()
		meta.Language = info.Language()
		if cover, err := info.Cover(); err == nil {
			meta.Cover = cover.Data
		}
	}
	if info, ok := translated.(bookInfo); ok {
		meta.TranslatedLanguage = info.Language()
		if meta.Title == "" {
			meta.Title = info.Title()
		}
	}
	return meta
}

func validateRequest(req Request) error {
	var errs []error
	if req.Original.Location == "" {
		errs = append(errs, fmt.Errorf("original location is required"))
	}
	if req.Translated.Location == "" {
		errs = append(errs, fmt.Errorf("translated location is required"))
	}
	if req.Original.Offset < 0 || req.Translated.Offset < 0 {
		errs = append(errs, fmt.Errorf("offsets must not be negative"))
	}
	return errors.Join(errs...)
}
