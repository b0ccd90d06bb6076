package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed locales/*.json
var localeFS embed.FS

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Translator looks up dot-separated keys in nested per-locale dictionaries.
type Translator struct {
	dicts map[string]map[string]any
}

// NewTranslator loads the embedded dictionaries.
func NewTranslator() (*Translator, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	tr := &Translator{dicts: map[string]map[string]any{}}
	for _, e := range entries {
		b, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		code := strings.TrimSuffix(e.Name(), ".json")
		if err := tr.Add(code, b); err != nil {
			return nil, err
		}
	}
	if _, ok := tr.dicts[DefaultLocale]; !ok {
		return nil, fmt.Errorf("i18n: no %s dictionary", DefaultLocale)
	}
	return tr, nil
}

// Add registers or replaces the dictionary for locale.
func (tr *Translator) Add(locale string, raw []byte) error {
	var d map[string]any
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("i18n: parse %s: %w", locale, err)
	}
	if tr.dicts == nil {
		tr.dicts = map[string]map[string]any{}
	}
	tr.dicts[locale] = d
	return nil
}

// T translates key for locale. A missing or empty entry falls back to the
// default locale and then to the key itself. {name} placeholders are
// replaced from params; unknown ones are left as they are.
func (tr *Translator) T(locale, key string, params map[string]string) string {
	v, ok := lookup(tr.dicts[locale], key)
	if !ok && locale != DefaultLocale {
		v, ok = lookup(tr.dicts[DefaultLocale], key)
	}
	if !ok {
		log.Warn().Str("key", key).Str("locale", locale).Msg("translation missing")
		return key
	}
	if len(params) == 0 {
		return v
	}
	return placeholderRe.ReplaceAllStringFunc(v, func(m string) string {
		if p, ok := params[m[1:len(m)-1]]; ok {
			return p
		}
		return m
	})
}

func lookup(d map[string]any, key string) (string, bool) {
	var cur any = d
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[part]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok && s != ""
}
