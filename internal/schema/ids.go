// Package schema builds schema.org JSON-LD documents for catalog pages.
package schema

import (
	"net/url"
	"regexp"
	"strings"
)

// IDSuffix values name the fragment part of an entity @id.
const (
	SuffixOrganization  = "organization"
	SuffixLocalBusiness = "localbusiness"
	SuffixWebsite       = "website"
	SuffixWebPage       = "webpage"
	SuffixProduct       = "product"
	SuffixService       = "service"
	SuffixBreadcrumb    = "breadcrumb"
	SuffixFAQ           = "faq"
	SuffixArticle       = "article"
	SuffixVideo         = "video"
)

var queryOrFragment = regexp.MustCompile(`[?#].*$`)

func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return queryOrFragment.ReplaceAllString(raw, "")
	}
	return u.Scheme + "://" + u.Host + u.EscapedPath()
}

// SchemaID returns the @id for the entity with suffix on the page at rawURL.
// Query string, fragment and trailing slash are dropped so every page
// variant maps to one id.
func SchemaID(rawURL, suffix string) string {
	return strings.TrimSuffix(normalizeURL(rawURL), "/") + "#" + suffix
}

// Ref is an {"@id": ...} reference to an entity described elsewhere.
func Ref(rawURL, suffix string) map[string]any {
	return map[string]any{"@id": SchemaID(rawURL, suffix)}
}

// IsValidSchemaURL accepts absolute https URLs only.
func IsValidSchemaURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "https" && u.Host != ""
}
