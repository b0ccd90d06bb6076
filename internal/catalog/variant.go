package catalog

import (
	"regexp"
	"strings"
)

type VariantKind string

const (
	VariantColor  VariantKind = "color"
	VariantSize   VariantKind = "size"
	VariantOption VariantKind = "variant"
)

type VariantInfo struct {
	Kind  VariantKind
	Name  string
	Value string
}

var (
	trailingParenRe = regexp.MustCompile(`\(([^)]+)\)$`)
	needleSizeRe    = regexp.MustCompile(`(?i)(\d+\.\d+mm?\s*\d*R?L?)`)
	podRe           = regexp.MustCompile(`(\w+)\s+POD`)
	anyParenRe      = regexp.MustCompile(`\(([^)]+)\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9]`)
)

const podKeyword = "POD"

// VariantExtractor reads variant metadata out of a product display name.
// FamilyKeywords are product lines whose qualifier sits in parentheses
// anywhere in the name.
type VariantExtractor struct {
	FamilyKeywords []string
}

// Extract tries color, needle size, pod type and family qualifier in that
// order. ok is false when no pattern matches.
func (e VariantExtractor) Extract(name string) (VariantInfo, bool) {
	if m := trailingParenRe.FindStringSubmatch(name); m != nil {
		return VariantInfo{
			Kind:  VariantColor,
			Name:  m[1],
			Value: whitespaceRe.ReplaceAllString(strings.ToLower(m[1]), "-"),
		}, true
	}
	if m := needleSizeRe.FindStringSubmatch(name); m != nil {
		return VariantInfo{
			Kind:  VariantSize,
			Name:  m[1],
			Value: whitespaceRe.ReplaceAllString(strings.ToLower(m[1]), ""),
		}, true
	}
	if strings.Contains(name, podKeyword) {
		if m := podRe.FindStringSubmatch(name); m != nil {
			return VariantInfo{Kind: VariantOption, Name: m[1], Value: strings.ToLower(m[1])}, true
		}
	}
	for _, kw := range e.FamilyKeywords {
		if kw == "" || !strings.Contains(name, kw) {
			continue
		}
		if m := anyParenRe.FindStringSubmatch(name); m != nil {
			return VariantInfo{
				Kind:  VariantOption,
				Name:  m[1],
				Value: nonAlnumRe.ReplaceAllString(strings.ToLower(m[1]), "-"),
			}, true
		}
	}
	return VariantInfo{}, false
}
