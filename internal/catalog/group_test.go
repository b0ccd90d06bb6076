package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrouperPartitionKeepsRowOrder(t *testing.T) {
	g, err := NewGrouper([]VariationGroup{
		{ID: "nyx", BaseName: "NyxQueen", SKUs: []string{"NQ001", "NQ02", "NQ003"}},
		{ID: "trolley", BaseName: "Trolley", SKUs: []string{"ST001", "AT001"}},
	})
	require.NoError(t, err)

	rows := []Row{
		{ColSKU: "solo1"},
		{ColSKU: "AT001"},
		{ColSKU: "NQ003"},
		{ColSKU: "NQ001"},
		{ColSKU: "ST001"},
		{ColSKU: "nq02"},
		{ColSKU: "NQ02"},
	}
	p := g.Partition(rows)

	require.Len(t, p.Groups, 2)
	assert.Equal(t, "trolley", p.Groups[0].Group.ID)
	assert.Equal(t, "nyx", p.Groups[1].Group.ID)

	skus := func(rows []Row) []string {
		out := []string{}
		for _, r := range rows {
			out = append(out, r.SKU())
		}
		return out
	}
	assert.Equal(t, []string{"AT001", "ST001"}, skus(p.Groups[0].Rows))
	assert.Equal(t, []string{"NQ003", "NQ001", "NQ02"}, skus(p.Groups[1].Rows))
	// matching is exact, a differently cased sku stays standalone
	assert.Equal(t, []string{"solo1", "nq02"}, skus(p.Standalone))
}

func TestGrouperRejectsSharedSKU(t *testing.T) {
	_, err := NewGrouper([]VariationGroup{
		{ID: "a", SKUs: []string{"X"}},
		{ID: "b", SKUs: []string{"X"}},
	})
	assert.Error(t, err)

	_, err = NewGrouper([]VariationGroup{{ID: "empty"}})
	assert.Error(t, err)
}

func TestCategoryMapperFallback(t *testing.T) {
	m := NewCategoryMapper(map[string]string{"HIEMT Alakformáló gépek": "hiemt"}, "egyeb")

	slug, ok := m.Map("HIEMT Alakformáló gépek")
	assert.True(t, ok)
	assert.Equal(t, "hiemt", slug)

	slug, ok = m.Map("HIEMT Alakformáló gépek ")
	assert.False(t, ok)
	assert.Equal(t, "egyeb", slug)

	m.Map("Ismeretlen")
	m.Map("Ismeretlen")
	assert.Equal(t, []string{"HIEMT Alakformáló gépek ", "Ismeretlen"}, m.Unmapped())
}
