package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugSepRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases, strips diacritics and joins alphanumeric runs with hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	out = slugSepRe.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// SlugRegistry tracks every slug issued during one run.
type SlugRegistry struct {
	issued map[string]struct{}
}

func NewSlugRegistry() *SlugRegistry {
	return &SlugRegistry{issued: map[string]struct{}{}}
}

func (r *SlugRegistry) Has(slug string) bool {
	_, ok := r.issued[slug]
	return ok
}

// Reserve claims slug and reports whether it was free.
func (r *SlugRegistry) Reserve(slug string) bool {
	if r.Has(slug) {
		return false
	}
	r.issued[slug] = struct{}{}
	return true
}

// Unique claims base, or base-1, base-2 ... whichever is free first.
func (r *SlugRegistry) Unique(base string) string {
	slug := base
	for i := 1; r.Has(slug); i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	r.issued[slug] = struct{}{}
	return slug
}

// Generate derives a slug from a display name and makes it unique.
func (r *SlugRegistry) Generate(name string) string {
	base := Slugify(name)
	if base == "" {
		base = "termek"
	}
	return r.Unique(base)
}

// SafeSlug reports whether an explicit slug can be used as a file name as is.
func SafeSlug(s string) bool {
	if s == "" || s == "." || s == ".." || strings.HasPrefix(s, "_") {
		return false
	}
	return !strings.ContainsAny(s, `/\:*?"<>| `)
}
