// Package booktest builds small in-memory EPUB archives for tests.
package booktest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
	"testing"
)

// Chapter is one spine item of a generated book.
type Chapter struct {
	Title      string
	Paragraphs []string
	// Missing leaves the chapter in the spine but omits its file.
	Missing bool
}

// Build writes an EPUB 2 archive with an NCX table of contents. Chapters with
// an empty Title are left out of the NCX.
func Build(t testing.TB, title string, chapters ...Chapter) []byte {
	t.Helper()

	files := map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": containerXML,
	}

	var manifest, spine, navPoints strings.Builder
	for i, ch := range chapters {
		id := fmt.Sprintf("ch%03d", i)
		href := fmt.Sprintf("text/%s.xhtml", id)

		fmt.Fprintf(&manifest, `<item id="%s" href="%s" media-type="application/xhtml+xml"/>`, id, href)
		fmt.Fprintf(&spine, `<itemref idref="%s"/>`, id)
		if ch.Title != "" {
			fmt.Fprintf(&navPoints, `<navPoint id="np%d" playOrder="%d"><navLabel><text>%s</text></navLabel><content src="%s"/></navPoint>`,
				i, i+1, html.EscapeString(ch.Title), href)
		}
		if !ch.Missing {
			files["OEBPS/"+href] = chapterXHTML(ch)
		}
	}

	files["OEBPS/content.opf"] = fmt.Sprintf(opfTemplate, html.EscapeString(title), manifest.String(), spine.String())
	files["OEBPS/toc.ncx"] = fmt.Sprintf(ncxTemplate, navPoints.String())

	return Zip(t, files)
}

// Zip writes files into an archive, mimetype first.
func Zip(t testing.TB, files map[string]string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("booktest: create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("booktest: write %s: %v", name, err)
		}
	}

	if mt, ok := files["mimetype"]; ok {
		write("mimetype", mt)
	}
	for name, content := range files {
		if name != "mimetype" {
			write(name, content)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("booktest: close: %v", err)
	}
	return buf.Bytes()
}

func chapterXHTML(ch Chapter) string {
	var body strings.Builder
	if ch.Title != "" {
		fmt.Fprintf(&body, "<h1>%s</h1>\n", html.EscapeString(ch.Title))
	}
	for _, p := range ch.Paragraphs {
		fmt.Fprintf(&body, "<p>%s</p>\n", html.EscapeString(p))
	}
	return fmt.Sprintf(xhtmlTemplate, body.String())
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const opfTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>%s</dc:title>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    %s
  </manifest>
  <spine toc="ncx">%s</spine>
</package>`

const ncxTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>%s</navMap>
</ncx>`

const xhtmlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>chapter</title></head>
<body>
%s</body>
</html>`
