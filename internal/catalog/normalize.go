package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/phenrril/skinlab/internal/domain"
)

var (
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	nonPriceRe = regexp.MustCompile(`[^\d.]`)
)

// Applied in order, so "&amp;lt;" decodes all the way to "<".
var htmlEntities = [][2]string{
	{"&nbsp;", " "},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
}

// CleanHTML strips tags, decodes a fixed set of entities and collapses whitespace.
// Other entities are left as they are.
func CleanHTML(s string) string {
	if s == "" {
		return ""
	}
	s = tagRe.ReplaceAllString(s, " ")
	for _, e := range htmlEntities {
		s = strings.ReplaceAll(s, e[0], e[1])
	}
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ParsePrice keeps digits and dots and parses the longest numeric prefix.
// It returns nil when nothing numeric is left.
func ParsePrice(s string) *float64 {
	cleaned := nonPriceRe.ReplaceAllString(s, "")
	end, digits, dot := 0, 0, false
	for end < len(cleaned) {
		c := cleaned[end]
		if c == '.' {
			if dot {
				break
			}
			dot = true
		} else {
			digits++
		}
		end++
	}
	if digits == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(cleaned[:end], "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

// RoundPrice rounds half up to a whole currency unit. Import stores the raw
// value; rounding happens only in the price update pass.
func RoundPrice(v float64) float64 {
	return math.Floor(v + 0.5)
}

// StockLabels are the two source-language stock statuses recognised verbatim.
type StockLabels struct {
	InStock  string `yaml:"inStock"`
	Preorder string `yaml:"preorder"`
}

func (l StockLabels) Availability(status string) domain.Availability {
	switch {
	case status != "" && status == l.InStock:
		return domain.AvailabilityInStock
	case status != "" && status == l.Preorder:
		return domain.AvailabilityPreorder
	default:
		return domain.AvailabilityOutOfStock
	}
}
