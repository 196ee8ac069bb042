package align

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ExtractParagraphs returns the trimmed text of every <p> element under doc
// in document order. Blank paragraphs are dropped; duplicates are kept.
func ExtractParagraphs(doc *html.Node) ParagraphList {
	if doc == nil {
		return ParagraphList{}
	}

	out := ParagraphList{}
	goquery.NewDocumentFromNode(doc).Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			out = append(out, text)
		}
	})
	return out
}
