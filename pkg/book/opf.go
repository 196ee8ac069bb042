package book

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"path"
	"strings"
)

type container struct {
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opfPackage struct {
	Version  string `xml:"version,attr"`
	Metadata struct {
		Titles    []string  `xml:"title"`
		Creators  []string  `xml:"creator"`
		Languages []string  `xml:"language"`
		Metas     []opfMeta `xml:"meta"`
	} `xml:"metadata"`
	Manifest []manifestItem `xml:"manifest>item"`
	Spine    struct {
		Toc      string    `xml:"toc,attr"`
		Itemrefs []itemref `xml:"itemref"`
	} `xml:"spine"`
}

type opfMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type manifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

func (m manifestItem) hasProperty(p string) bool {
	for _, f := range strings.Fields(m.Properties) {
		if f == p {
			return true
		}
	}
	return false
}

type itemref struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

func parseContainer(data []byte) (string, error) {
	var c container
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("%w: container.xml: %v", ErrInvalidEPub, err)
	}
	for _, rf := range c.Rootfiles {
		if rf.FullPath != "" {
			return rf.FullPath, nil
		}
	}
	return "", fmt.Errorf("%w: container.xml has no rootfile", ErrInvalidEPub)
}

func parseOPF(data []byte) (*opfPackage, error) {
	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("%w: package document: %v", ErrInvalidEPub, err)
	}
	return &pkg, nil
}

// resolveHref joins a document-relative href onto base's directory and drops
// any fragment. Percent-encoded names are decoded to match ZIP entry names.
func resolveHref(base, href string) string {
	href = hrefWithoutFragment(href)
	if href == "" {
		return ""
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	dir := path.Dir(base)
	if dir == "." || dir == "/" {
		return path.Clean(href)
	}
	return path.Join(dir, href)
}

func hrefWithoutFragment(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i]
	}
	return href
}
