package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/book/booktest"
)

func TestOpenChapters(t *testing.T) {
	data := booktest.Build(t, "Test Book",
		booktest.Chapter{Paragraphs: []string{"cover"}},
		booktest.Chapter{Title: "One", Paragraphs: []string{"A", "B"}},
		booktest.Chapter{Title: "Two", Paragraphs: []string{"C"}},
	)

	b, err := Open(data)
	require.NoError(t, err)

	chapters := b.Chapters()
	require.Len(t, chapters, 3)

	assert.Equal(t, 0, chapters[0].Index)
	assert.Equal(t, "OEBPS/text/ch000.xhtml", chapters[0].Href)
	assert.Equal(t, "", chapters[0].Title)
	assert.Equal(t, "One", chapters[1].Title)
	assert.Equal(t, "Two", chapters[2].Title)
	assert.True(t, chapters[2].Linear)

	assert.Equal(t, "Test Book", b.Title())
	assert.Equal(t, "en", b.Language())
}

func TestDocument(t *testing.T) {
	data := booktest.Build(t, "Doc",
		booktest.Chapter{Title: "One", Paragraphs: []string{"first <para>", "second"}},
	)
	b, err := Open(data)
	require.NoError(t, err)

	doc, err := b.Document(b.Chapters()[0])
	require.NoError(t, err)
	assert.Equal(t, align.ParagraphList{"first <para>", "second"}, align.ExtractParagraphs(doc))
}

func TestDocumentMissingFile(t *testing.T) {
	data := booktest.Build(t, "Broken",
		booktest.Chapter{Title: "Gone", Missing: true},
	)
	b, err := Open(data)
	require.NoError(t, err)

	_, err = b.Document(b.Chapters()[0])
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpenInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("definitely not an epub")},
		{"no container", booktest.Zip(t, map[string]string{"mimetype": "application/epub+zip"})},
		{"bad container", booktest.Zip(t, map[string]string{
			"META-INF/container.xml": `<container><rootfiles></rootfiles></container>`,
		})},
		{"missing package document", booktest.Zip(t, map[string]string{
			"META-INF/container.xml": `<container><rootfiles><rootfile full-path="x/content.opf"/></rootfiles></container>`,
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.data)
			assert.ErrorIs(t, err, ErrInvalidEPub)
		})
	}
}

func TestNavDocumentTitles(t *testing.T) {
	data := booktest.Zip(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": `<container><rootfiles><rootfile full-path="content.opf"/></rootfiles></container>`,
		"content.opf": `<package version="3.0"><metadata><title>Nav</title></metadata>
			<manifest>
				<item id="nav" href="nav.xhtml" properties="nav" media-type="application/xhtml+xml"/>
				<item id="c1" href="Text/Chapter%201.xhtml" media-type="application/xhtml+xml"/>
				<item id="c2" href="Text/c2.xhtml" media-type="application/xhtml+xml"/>
				<item id="img" href="img/cover.jpg" properties="cover-image" media-type="image/jpeg"/>
			</manifest>
			<spine><itemref idref="c1"/><itemref idref="c2" linear="no"/><itemref idref="unknown"/></spine>
		</package>`,
		"nav.xhtml": `<html><body>
			<nav epub:type="landmarks"><ol><li><a href="Text/c2.xhtml">Wrong</a></li></ol></nav>
			<nav epub:type="toc"><ol>
				<li><a href="Text/Chapter%201.xhtml#start">  Opening
					Lines </a></li>
				<li><a href="Text/c2.xhtml">Second</a></li>
			</ol></nav></body></html>`,
		"Text/Chapter 1.xhtml": `<html><body><p>one</p></body></html>`,
		"text/c2.xhtml":        `<html><body><p>two</p></body></html>`,
		"img/cover.jpg":        "jpeg-bytes",
	})

	b, err := Open(data)
	require.NoError(t, err)

	chapters := b.Chapters()
	require.Len(t, chapters, 2)
	assert.Equal(t, "Text/Chapter 1.xhtml", chapters[0].Href)
	assert.Equal(t, "Opening Lines", chapters[0].Title)
	assert.Equal(t, "Second", chapters[1].Title)
	assert.False(t, chapters[1].Linear)

	// case-insensitive fallback
	doc, err := b.Document(chapters[1])
	require.NoError(t, err)
	assert.Equal(t, align.ParagraphList{"two"}, align.ExtractParagraphs(doc))

	cover, err := b.Cover()
	require.NoError(t, err)
	assert.Equal(t, "img/cover.jpg", cover.Path)
	assert.Equal(t, "image/jpeg", cover.MediaType)
	assert.Equal(t, []byte("jpeg-bytes"), cover.Data)
}

func TestCoverFromMeta(t *testing.T) {
	data := booktest.Zip(t, map[string]string{
		"META-INF/container.xml": `<container><rootfiles><rootfile full-path="OPS/book.opf"/></rootfiles></container>`,
		"OPS/book.opf": `<package version="2.0"><metadata><meta name="cover" content="cov"/></metadata>
			<manifest><item id="cov" href="images/c.png" media-type="image/png"/></manifest><spine/></package>`,
		"OPS/images/c.png": "png",
	})

	b, err := Open(data)
	require.NoError(t, err)
	assert.Empty(t, b.Chapters())

	cover, err := b.Cover()
	require.NoError(t, err)
	assert.Equal(t, "OPS/images/c.png", cover.Path)
}

func TestNoCover(t *testing.T) {
	b, err := Open(booktest.Build(t, "Plain", booktest.Chapter{Title: "x"}))
	require.NoError(t, err)

	_, err = b.Cover()
	assert.ErrorIs(t, err, ErrNoCover)
}

func TestResolveHref(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"content.opf", "a.xhtml", "a.xhtml"},
		{"OEBPS/content.opf", "text/a.xhtml", "OEBPS/text/a.xhtml"},
		{"OEBPS/toc.ncx", "text/a.xhtml#frag", "OEBPS/text/a.xhtml"},
		{"OEBPS/text/nav.xhtml", "../text2/b.xhtml", "OEBPS/text2/b.xhtml"},
		{"OEBPS/content.opf", "My%20Chapter.xhtml", "OEBPS/My Chapter.xhtml"},
		{"OEBPS/content.opf", "#only", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveHref(tt.base, tt.href), "%s + %s", tt.base, tt.href)
	}
}
