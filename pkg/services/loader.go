package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/book"
	"github.com/kerbaras/dualbook/pkg/logging"
	"github.com/kerbaras/dualbook/pkg/sources"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrNoChaptersFound   = errors.New("no chapters found")
	ErrChapterLoad       = errors.New("chapter load failed")
)

// ChapterSource is an opened book: ordered chapter descriptors plus a way to
// load the document tree behind each of them.
type ChapterSource interface {
	Chapters() []book.Chapter
	Document(ch book.Chapter) (*html.Node, error)
}

// Resolver turns a location into an opened ChapterSource.
type Resolver interface {
	Resolve(ctx context.Context, location string) (ChapterSource, error)
}

// EPubResolver fetches a location and opens it as an EPUB.
type EPubResolver struct {
	Fetcher sources.Fetcher
}

func (r EPubResolver) Resolve(ctx context.Context, location string) (ChapterSource, error) {
	data, err := r.Fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	b, err := book.Open(data)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// SourceSpec locates one edition and the first content chapter in its spine.
type SourceSpec struct {
	Location string
	Offset   int
}

type Request struct {
	Original   SourceSpec
	Translated SourceSpec
}

// LoadProgress represents the progress of a load operation
type LoadProgress struct {
	Side   align.Kind
	Index  int // position within the aligned range, 0-based
	Total  int
	Status string // "loading", "loaded", "skipped"
	Err    error
}

// Loader builds an AlignedBook from two sources.
type Loader struct {
	resolver Resolver
	log      zerolog.Logger

	// Concurrency bounds the chapters loaded at once per side. Values <= 1
	// load strictly in order.
	Concurrency int
	// ChapterTimeout caps a single chapter load. Zero means no limit.
	ChapterTimeout time.Duration

	progressChan chan LoadProgress
}

// NewLoader creates a new Loader instance
func NewLoader(resolver Resolver) *Loader {
	return &Loader{
		resolver:     resolver,
		log:          logging.Component("loader"),
		Concurrency:  1,
		progressChan: make(chan LoadProgress, 100),
	}
}

// Progress returns the channel for receiving load progress updates.
func (l *Loader) Progress() <-chan LoadProgress {
	return l.progressChan
}

// Resolve opens a single source, wrapping failures in ErrSourceUnavailable.
func (l *Loader) Resolve(ctx context.Context, location string) (ChapterSource, error) {
	src, err := l.resolver.Resolve(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, location, err)
	}
	return src, nil
}

// Load resolves both sources and aligns them.
func (l *Loader) Load(ctx context.Context, req Request) (*align.AlignedBook, error) {
	original, err := l.Resolve(ctx, req.Original.Location)
	if err != nil {
		l.log.Error().Err(err).Msg("failed to resolve original")
		return nil, err
	}
	translated, err := l.Resolve(ctx, req.Translated.Location)
	if err != nil {
		l.log.Error().Err(err).Msg("failed to resolve translation")
		return nil, err
	}

	return l.Align(ctx, original, translated, req)
}

// Align loads the overlapping chapter range of two opened sources. Chapters
// that fail to load are skipped, so later chapters on that side shift down by
// one position relative to the other side.
func (l *Loader) Align(ctx context.Context, original, translated ChapterSource, req Request) (*align.AlignedBook, error) {
	origChapters := original.Chapters()
	if len(origChapters) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChaptersFound, req.Original.Location)
	}
	transChapters := translated.Chapters()
	if len(transChapters) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChaptersFound, req.Translated.Location)
	}

	n := align.ChapterCount(len(origChapters), req.Original.Offset, len(transChapters), req.Translated.Offset)
	result := &align.AlignedBook{}
	if n <= 0 {
		l.log.Warn().
			Int("original", len(origChapters)).
			Int("translated", len(transChapters)).
			Msg("offsets leave no overlapping chapters")
		return result, nil
	}

	origLoaded, err := l.loadSide(ctx, align.Original, original, origChapters[req.Original.Offset:req.Original.Offset+n])
	if err != nil {
		return nil, err
	}
	for _, ch := range origLoaded {
		result.Original = append(result.Original, ch.paragraphs)
		title := ch.chapter.Title
		if title == "" {
			title = align.FallbackTitle(len(result.Original))
		}
		result.Titles = append(result.Titles, title)
	}

	transLoaded, err := l.loadSide(ctx, align.Translated, translated, transChapters[req.Translated.Offset:req.Translated.Offset+n])
	if err != nil {
		return nil, err
	}
	for _, ch := range transLoaded {
		result.Translated = append(result.Translated, ch.paragraphs)
	}

	l.log.Info().
		Int("chapters", result.Len()).
		Int("translated", len(result.Translated)).
		Msg("book aligned")

	return result, nil
}

type loadedChapter struct {
	chapter    book.Chapter
	paragraphs align.ParagraphList
	ok         bool
}

// loadSide loads chapters in input order. Only whole-load cancellation is
// returned as an error; per-chapter failures are logged and dropped.
func (l *Loader) loadSide(ctx context.Context, side align.Kind, src ChapterSource, chapters []book.Chapter) ([]loadedChapter, error) {
	results := make([]loadedChapter, len(chapters))

	if l.Concurrency <= 1 {
		for i, ch := range chapters {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = l.loadOne(ctx, side, src, ch, i, len(chapters))
		}
	} else {
		var wg sync.WaitGroup
		semaphore := make(chan struct{}, l.Concurrency)

		for i, ch := range chapters {
			wg.Add(1)
			go func(i int, ch book.Chapter) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				if ctx.Err() != nil {
					return
				}
				results[i] = l.loadOne(ctx, side, src, ch, i, len(chapters))
			}(i, ch)
		}
		wg.Wait()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loaded := make([]loadedChapter, 0, len(results))
	for _, r := range results {
		if r.ok {
			loaded = append(loaded, r)
		}
	}
	return loaded, nil
}

func (l *Loader) loadOne(ctx context.Context, side align.Kind, src ChapterSource, ch book.Chapter, i, total int) loadedChapter {
	l.sendProgress(LoadProgress{Side: side, Index: i, Total: total, Status: "loading"})

	doc, err := l.document(ctx, src, ch)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrChapterLoad, ch.Href, err)
		l.log.Warn().
			Err(err).
			Str("side", side.String()).
			Int("index", ch.Index).
			Str("href", ch.Href).
			Msg("skipping chapter")
		l.sendProgress(LoadProgress{Side: side, Index: i, Total: total, Status: "skipped", Err: err})
		return loadedChapter{chapter: ch}
	}

	l.sendProgress(LoadProgress{Side: side, Index: i, Total: total, Status: "loaded"})
	return loadedChapter{chapter: ch, paragraphs: align.ExtractParagraphs(doc), ok: true}
}

// document loads one chapter tree, bounded by ChapterTimeout.
func (l *Loader) document(ctx context.Context, src ChapterSource, ch book.Chapter) (*html.Node, error) {
	if l.ChapterTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.ChapterTimeout)
		defer cancel()
	}

	type result struct {
		doc *html.Node
		err error
	}
	done := make(chan result, 1)
	go func() {
		doc, err := src.Document(ch)
		done <- result{doc, err}
	}()

	select {
	case r := <-done:
		return r.doc, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// sendProgress sends a progress update (non-blocking)
func (l *Loader) sendProgress(progress LoadProgress) {
	select {
	case l.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}
