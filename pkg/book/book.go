// Package book reads EPUB containers: the spine-ordered chapter list, TOC
// titles, chapter document trees and the cover image.
package book

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

const containerPath = "META-INF/container.xml"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Chapter describes one spine item.
type Chapter struct {
	Index  int
	ID     string
	Href   string
	Title  string
	Linear bool
}

// Cover is the raw cover image declared by the package document.
type Cover struct {
	Path      string
	MediaType string
	Data      []byte
}

// Book is an opened EPUB archive. It is not safe for concurrent use.
type Book struct {
	zip      *zip.Reader
	exact    map[string]*zip.File
	lower    map[string]*zip.File
	opfPath  string
	pkg      *opfPackage
	chapters []Chapter
}

// Open parses an EPUB held in memory.
func Open(data []byte) (*Book, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

// NewReader parses an EPUB from r.
func NewReader(r io.ReaderAt, size int64) (*Book, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEPub, err)
	}

	b := &Book{zip: zr}
	b.index()

	containerData, err := b.ReadFile(containerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidEPub, containerPath)
	}
	if b.opfPath, err = parseContainer(containerData); err != nil {
		return nil, err
	}

	opfData, err := b.ReadFile(b.opfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: package document %s: %v", ErrInvalidEPub, b.opfPath, err)
	}
	if b.pkg, err = parseOPF(opfData); err != nil {
		return nil, err
	}

	b.chapters = b.buildChapters()
	return b, nil
}

func (b *Book) index() {
	b.exact = make(map[string]*zip.File, len(b.zip.File))
	b.lower = make(map[string]*zip.File, len(b.zip.File))
	for _, f := range b.zip.File {
		if _, ok := b.exact[f.Name]; !ok {
			b.exact[f.Name] = f
		}
		key := strings.ToLower(f.Name)
		if _, ok := b.lower[key]; !ok {
			b.lower[key] = f
		}
	}
}

func (b *Book) buildChapters() []Chapter {
	byID := make(map[string]manifestItem, len(b.pkg.Manifest))
	for _, item := range b.pkg.Manifest {
		byID[item.ID] = item
	}
	titles := b.tocTitles()

	chapters := make([]Chapter, 0, len(b.pkg.Spine.Itemrefs))
	for _, ref := range b.pkg.Spine.Itemrefs {
		item, ok := byID[ref.IDRef]
		if !ok || item.Href == "" {
			continue
		}
		href := resolveHref(b.opfPath, item.Href)
		chapters = append(chapters, Chapter{
			Index:  len(chapters),
			ID:     item.ID,
			Href:   href,
			Title:  titles[href],
			Linear: ref.Linear != "no",
		})
	}
	return chapters
}

// ReadFile returns an archive entry by path, falling back to a
// case-insensitive match.
func (b *Book) ReadFile(name string) ([]byte, error) {
	f, ok := b.exact[name]
	if !ok {
		f, ok = b.lower[strings.ToLower(name)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Chapters returns the spine in reading order.
func (b *Book) Chapters() []Chapter {
	return append([]Chapter(nil), b.chapters...)
}

// Document loads and parses a chapter's XHTML into a document tree.
func (b *Book) Document(ch Chapter) (*html.Node, error) {
	data, err := b.ReadFile(ch.Href)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ch.Href, err)
	}
	return doc, nil
}

// Title returns the primary dc:title, or "".
func (b *Book) Title() string {
	for _, t := range b.pkg.Metadata.Titles {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return ""
}

// Author returns the first dc:creator, or "".
func (b *Book) Author() string {
	for _, c := range b.pkg.Metadata.Creators {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// Language returns the first dc:language, or "".
func (b *Book) Language() string {
	for _, l := range b.pkg.Metadata.Languages {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

// Cover returns the image flagged cover-image (EPUB 3) or referenced by
// <meta name="cover"> (EPUB 2).
func (b *Book) Cover() (Cover, error) {
	var coverID string
	for _, m := range b.pkg.Metadata.Metas {
		if m.Name == "cover" {
			coverID = m.Content
			break
		}
	}

	for _, item := range b.pkg.Manifest {
		if !item.hasProperty("cover-image") && (coverID == "" || item.ID != coverID) {
			continue
		}
		if !strings.HasPrefix(item.MediaType, "image/") {
			continue
		}
		p := resolveHref(b.opfPath, item.Href)
		data, err := b.ReadFile(p)
		if err != nil {
			return Cover{}, err
		}
		return Cover{Path: p, MediaType: item.MediaType, Data: data}, nil
	}
	return Cover{}, ErrNoCover
}
