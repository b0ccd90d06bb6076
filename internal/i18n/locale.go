// Package i18n resolves locales, localized paths and URLs across the two
// site domains, and looks up UI translations.
package i18n

import (
	"net/url"
	"strings"
)

const DefaultLocale = "hu"

// Domains. The default locale is served unprefixed from Hungarian; every
// other locale lives under /<code> on Europe.
const (
	DomainHungarian = "https://skinlabhungary.hu"
	DomainEurope    = "https://skinlabeurope.com"
)

type LocaleInfo struct {
	Code       string
	Name       string
	NativeName string
	Flag       string
	Hreflang   string
	DateLocale string
}

var locales = []LocaleInfo{
	{Code: "hu", Name: "Hungarian", NativeName: "Magyar", Flag: "🇭🇺", Hreflang: "hu", DateLocale: "hu-HU"},
	{Code: "en", Name: "English", NativeName: "English", Flag: "🇬🇧", Hreflang: "en", DateLocale: "en-GB"},
	{Code: "sk", Name: "Slovak", NativeName: "Slovenčina", Flag: "🇸🇰", Hreflang: "sk", DateLocale: "sk-SK"},
	{Code: "ro", Name: "Romanian", NativeName: "Română", Flag: "🇷🇴", Hreflang: "ro", DateLocale: "ro-RO"},
	{Code: "de", Name: "German", NativeName: "Deutsch", Flag: "🇩🇪", Hreflang: "de", DateLocale: "de-DE"},
	{Code: "cs", Name: "Czech", NativeName: "Čeština", Flag: "🇨🇿", Hreflang: "cs", DateLocale: "cs-CZ"},
	{Code: "hr", Name: "Croatian", NativeName: "Hrvatski", Flag: "🇭🇷", Hreflang: "hr", DateLocale: "hr-HR"},
	{Code: "sr", Name: "Serbian", NativeName: "Srpski", Flag: "🇷🇸", Hreflang: "sr", DateLocale: "sr-RS"},
	{Code: "sl", Name: "Slovenian", NativeName: "Slovenščina", Flag: "🇸🇮", Hreflang: "sl", DateLocale: "sl-SI"},
}

var byCode = func() map[string]LocaleInfo {
	m := make(map[string]LocaleInfo, len(locales))
	for _, l := range locales {
		m[l.Code] = l
	}
	return m
}()

// Locales returns the supported locale codes, default first.
func Locales() []string {
	out := make([]string, len(locales))
	for i, l := range locales {
		out[i] = l.Code
	}
	return out
}

func IsSupported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Info returns the metadata for code, or the default locale's when code is unknown.
func Info(code string) LocaleInfo {
	if l, ok := byCode[code]; ok {
		return l
	}
	return byCode[DefaultLocale]
}

func HTMLLang(code string) string { return Info(code).Hreflang }

// IsRTL is false for every supported locale.
func IsRTL(string) bool { return false }

// LocaleFromPath returns the locale named by the first path segment, or the
// default locale.
func LocaleFromPath(path string) string {
	seg, _ := firstSegment(path)
	if seg != DefaultLocale && IsSupported(seg) {
		return seg
	}
	return DefaultLocale
}

// LocaleFromURL is LocaleFromPath applied to an absolute or relative URL.
func LocaleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return DefaultLocale
	}
	return LocaleFromPath(u.Path)
}

// StripLocale removes a leading locale segment. Only a whole segment counts,
// so /english-page is returned unchanged.
func StripLocale(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	seg, rest := firstSegment(path)
	if !IsSupported(seg) {
		return path
	}
	if rest == "" {
		return "/"
	}
	return rest
}

// LocalizedPath rewrites path for locale. Applying it twice gives the same result.
func LocalizedPath(locale, path string) string {
	clean := StripLocale(path)
	if locale == DefaultLocale || !IsSupported(locale) {
		return clean
	}
	if clean == "/" {
		return "/" + locale
	}
	return "/" + locale + clean
}

// LocalizedURL is LocalizedPath on the domain that serves locale.
func LocalizedURL(locale, path string) string {
	p := LocalizedPath(locale, path)
	if locale == DefaultLocale || !IsSupported(locale) {
		return DomainHungarian + p
	}
	return DomainEurope + p
}

type Alternate struct {
	Locale   string
	Hreflang string
	Href     string
}

// HreflangLinks lists the URL of path in every locale.
func HreflangLinks(path string) []Alternate {
	out := make([]Alternate, 0, len(locales))
	for _, l := range locales {
		out = append(out, Alternate{Locale: l.Code, Hreflang: l.Hreflang, Href: LocalizedURL(l.Code, path)})
	}
	return out
}

// firstSegment splits "/en/x/y" into "en" and "/x/y".
func firstSegment(path string) (string, string) {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i], p[i:]
	}
	return p, ""
}
