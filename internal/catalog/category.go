package catalog

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// CategoryMapper maps source category labels to internal category slugs by
// exact string match.
type CategoryMapper struct {
	table    map[string]string
	fallback string
	unmapped map[string]int
}

func NewCategoryMapper(table map[string]string, fallback string) *CategoryMapper {
	t := make(map[string]string, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &CategoryMapper{table: t, fallback: fallback, unmapped: map[string]int{}}
}

// Map never fails: an unknown label resolves to the fallback slug and is
// remembered for the import report.
func (m *CategoryMapper) Map(label string) (string, bool) {
	if slug, ok := m.table[label]; ok {
		return slug, true
	}
	if m.unmapped[label] == 0 {
		log.Warn().Str("label", label).Str("fallback", m.fallback).Msg("unmapped category")
	}
	m.unmapped[label]++
	return m.fallback, false
}

// Unmapped returns the unknown labels seen so far, sorted.
func (m *CategoryMapper) Unmapped() []string {
	out := make([]string, 0, len(m.unmapped))
	for k := range m.unmapped {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
