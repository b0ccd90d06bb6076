package i18n

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizedPath(t *testing.T) {
	tests := []struct {
		locale, path, want string
	}{
		{"hu", "/en/diodalezerek", "/diodalezerek"},
		{"hu", "/diodalezerek", "/diodalezerek"},
		{"en", "/diodalezerek", "/en/diodalezerek"},
		{"de", "/en/diodalezerek/nyx", "/de/diodalezerek/nyx"},
		{"en", "/", "/en"},
		{"en", "/sk", "/en"},
		{"hu", "/en/", "/"},
		{"hu", "", "/"},
		{"en", "/english-page", "/en/english-page"},
		{"hu", "/hu/kapcsolat", "/kapcsolat"},
		{"xx", "/en/kapcsolat", "/kapcsolat"},
	}
	for _, tt := range tests {
		t.Run(tt.locale+tt.path, func(t *testing.T) {
			got := LocalizedPath(tt.locale, tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, LocalizedPath(tt.locale, got))
		})
	}
}

func TestLocalizedURL(t *testing.T) {
	assert.Equal(t, "https://skinlabhungary.hu/diodalezerek", LocalizedURL("hu", "/de/diodalezerek"))
	assert.Equal(t, "https://skinlabeurope.com/de/diodalezerek", LocalizedURL("de", "/diodalezerek"))
	assert.Equal(t, "https://skinlabhungary.hu/", LocalizedURL("hu", "/en"))
	assert.Equal(t, "https://skinlabeurope.com/en", LocalizedURL("en", "/"))
}

func TestLocaleFromPath(t *testing.T) {
	assert.Equal(t, "en", LocaleFromPath("/en/diodalezerek"))
	assert.Equal(t, "hu", LocaleFromPath("/hu/diodalezerek"))
	assert.Equal(t, "hu", LocaleFromPath("/english-page"))
	assert.Equal(t, "hu", LocaleFromPath("/"))
	assert.Equal(t, "sl", LocaleFromURL("https://skinlabeurope.com/sl/kontakt?x=1"))
	assert.Equal(t, "hu", LocaleFromURL("://bad"))
}

func TestHreflangLinks(t *testing.T) {
	links := HreflangLinks("/en/kapcsolat")
	require.Len(t, links, len(Locales()))
	assert.Equal(t, Alternate{Locale: "hu", Hreflang: "hu", Href: "https://skinlabhungary.hu/kapcsolat"}, links[0])
	assert.Equal(t, "https://skinlabeurope.com/sr/kapcsolat", links[7].Href)
	assert.Equal(t, "sl", HTMLLang("sl"))
	assert.Equal(t, "hu", HTMLLang("zz"))
	assert.False(t, IsRTL("de"))
}

func TestTranslate(t *testing.T) {
	tr, err := NewTranslator()
	require.NoError(t, err)

	assert.Equal(t, "Termékek", tr.T("hu", "nav.products", nil))
	assert.Equal(t, "Products", tr.T("en", "nav.products", nil))
	assert.Equal(t, "Dear Anna,", tr.T("en", "email.confirmation.greeting", map[string]string{"name": "Anna"}))

	// de has no reference line, so the default dictionary answers.
	assert.Equal(t, "Hivatkozási szám: SL-1", tr.T("de", "email.confirmation.reference", map[string]string{"leadId": "SL-1"}))
	assert.Equal(t, "Főoldal", tr.T("sk", "nav.home", nil))

	assert.Equal(t, "nav.missing", tr.T("en", "nav.missing", nil))
	assert.Equal(t, "nav", tr.T("en", "nav", nil))
	assert.Equal(t, "Kedves {name}!", tr.T("hu", "email.confirmation.greeting", map[string]string{"other": "x"}))
}

func TestTranslateEmptyValueFallsBack(t *testing.T) {
	tr := &Translator{}
	require.NoError(t, tr.Add("hu", []byte(`{"a":{"b":"alap"}}`)))
	require.NoError(t, tr.Add("en", []byte(`{"a":{"b":""}}`)))
	assert.Equal(t, "alap", tr.T("en", "a.b", nil))
	assert.Error(t, tr.Add("de", []byte(`{`)))
}

func TestFormatPrice(t *testing.T) {
	plain := func(s string) string {
		return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
	}
	assert.Equal(t, "1 990 000 Ft", plain(FormatPrice(1990000.4, "hu", "HUF")))
	assert.Equal(t, "€1,990", FormatPrice(1990, "en", "eur"))
	assert.Equal(t, "1.990 €", plain(FormatPrice(1990, "de", "EUR")))
	assert.Equal(t, "1 990 000 Ft", plain(FormatPrice(1990000, "hu", "nope")))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024. május 1.", FormatDate(d, "hu"))
	assert.Equal(t, "1 May 2024", FormatDate(d, "en"))
	assert.Equal(t, "1. Mai 2024", FormatDate(d, "de"))
	tests := map[string]string{
		"sk": "1. mája 2024",
		"ro": "1 mai 2024",
		"cs": "1. května 2024",
		"hr": "1. svibnja 2024.",
		"sr": "1. мај 2024.",
		"sl": "1. maj 2024",
		"xx": "2024. május 1.",
	}
	for locale, want := range tests {
		assert.Equal(t, want, FormatDate(d, locale), locale)
	}
	assert.Equal(t, "2024. december 31.", FormatDate(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), "hu"))
}
