// Package seo renders the sitemap and per-page structured data for the
// static site.
package seo

import (
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"time"

	"github.com/phenrril/skinlab/internal/domain"
	"github.com/phenrril/skinlab/internal/i18n"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
)

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	XHTML   string   `xml:"xmlns:xhtml,attr"`
	URLs    []URL    `xml:"url"`
}

type URL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
	Links   []Link `xml:"xhtml:link"`
}

type Link struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

func ProductPath(p domain.Product) string {
	return "/" + p.CategorySlug + "/" + p.Slug
}

// CatalogPaths lists the home page, every category page and every product
// page, categories sorted and products in the given order.
func CatalogPaths(products []domain.Product) []string {
	cats := map[string]struct{}{}
	for _, p := range products {
		cats[p.CategorySlug] = struct{}{}
	}
	sorted := make([]string, 0, len(cats))
	for c := range cats {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	out := []string{"/"}
	for _, c := range sorted {
		out = append(out, "/"+c)
	}
	for _, p := range products {
		out = append(out, ProductPath(p))
	}
	return out
}

// NewSitemap emits one entry per path and locale. Every entry carries the
// full alternate set plus x-default.
func NewSitemap(paths []string, lastmod time.Time) *URLSet {
	set := &URLSet{XMLNS: sitemapNS, XHTML: xhtmlNS}
	var mod string
	if !lastmod.IsZero() {
		mod = lastmod.UTC().Format("2006-01-02")
	}
	for _, path := range paths {
		alternates := i18n.HreflangLinks(path)
		links := make([]Link, 0, len(alternates)+1)
		for _, a := range alternates {
			links = append(links, Link{Rel: "alternate", Hreflang: a.Hreflang, Href: a.Href})
		}
		links = append(links, Link{Rel: "alternate", Hreflang: "x-default", Href: i18n.LocalizedURL(i18n.DefaultLocale, path)})
		for _, a := range alternates {
			set.URLs = append(set.URLs, URL{Loc: a.Href, LastMod: mod, Links: links})
		}
	}
	return set
}

func (s *URLSet) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return 0, err
	}
	buf.WriteByte('\n')
	return buf.WriteTo(w)
}
