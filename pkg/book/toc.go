package book

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type ncx struct {
	NavPoints []navPoint `xml:"navMap>navPoint"`
}

type navPoint struct {
	Label   string     `xml:"navLabel>text"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

// tocTitles maps resolved chapter paths to their first TOC title. EPUB 3 nav
// documents take precedence over NCX; a missing or broken TOC yields an empty map.
func (b *Book) tocTitles() map[string]string {
	titles := make(map[string]string)

	for _, item := range b.pkg.Manifest {
		if item.hasProperty("nav") {
			navPath := resolveHref(b.opfPath, item.Href)
			if data, err := b.ReadFile(navPath); err == nil {
				collectNavTitles(titles, navPath, data)
			}
		}
	}
	if len(titles) > 0 {
		return titles
	}

	if ncxPath := b.ncxPath(); ncxPath != "" {
		if data, err := b.ReadFile(ncxPath); err == nil {
			var doc ncx
			if xml.Unmarshal(data, &doc) == nil {
				collectNCXTitles(titles, ncxPath, doc.NavPoints)
			}
		}
	}
	return titles
}

func (b *Book) ncxPath() string {
	for _, item := range b.pkg.Manifest {
		if (b.pkg.Spine.Toc != "" && item.ID == b.pkg.Spine.Toc) || item.MediaType == "application/x-dtbncx+xml" {
			return resolveHref(b.opfPath, item.Href)
		}
	}
	return ""
}

func collectNCXTitles(titles map[string]string, ncxPath string, points []navPoint) {
	for _, p := range points {
		addTitle(titles, resolveHref(ncxPath, p.Content.Src), p.Label)
		collectNCXTitles(titles, ncxPath, p.Children)
	}
}

func collectNavTitles(titles map[string]string, navPath string, data []byte) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return
	}

	navs := doc.Find("nav").FilterFunction(func(_ int, s *goquery.Selection) bool {
		kind, _ := s.Attr("epub:type")
		return strings.Contains(kind, "toc")
	})
	if navs.Length() == 0 {
		navs = doc.Find("nav").First()
	}

	navs.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		addTitle(titles, resolveHref(navPath, href), a.Text())
	})
}

func addTitle(titles map[string]string, target, title string) {
	title = strings.Join(strings.Fields(title), " ")
	if target == "" || title == "" {
		return
	}
	if _, exists := titles[target]; !exists {
		titles[target] = title
	}
}
