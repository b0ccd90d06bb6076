package catalog

import "fmt"

type VariationGroup struct {
	ID       string   `yaml:"id"`
	BaseName string   `yaml:"baseName"`
	SKUs     []string `yaml:"skus"`
}

// Grouper partitions rows by a static SKU table. Name similarity plays no part.
type Grouper struct {
	groups map[string]VariationGroup
	bySKU  map[string]string
}

func NewGrouper(groups []VariationGroup) (*Grouper, error) {
	g := &Grouper{groups: map[string]VariationGroup{}, bySKU: map[string]string{}}
	for _, vg := range groups {
		if vg.ID == "" {
			return nil, fmt.Errorf("variation group without id")
		}
		if len(vg.SKUs) == 0 {
			return nil, fmt.Errorf("variation group %s has no skus", vg.ID)
		}
		if _, dup := g.groups[vg.ID]; dup {
			return nil, fmt.Errorf("duplicate variation group %s", vg.ID)
		}
		g.groups[vg.ID] = vg
		for _, sku := range vg.SKUs {
			if other, dup := g.bySKU[sku]; dup {
				return nil, fmt.Errorf("sku %s listed in groups %s and %s", sku, other, vg.ID)
			}
			g.bySKU[sku] = vg.ID
		}
	}
	return g, nil
}

// GroupOf returns the group id a SKU belongs to.
func (g *Grouper) GroupOf(sku string) (string, bool) {
	id, ok := g.bySKU[sku]
	return id, ok
}

type GroupedRows struct {
	Group VariationGroup
	Rows  []Row
}

type Partition struct {
	Groups     []GroupedRows
	Standalone []Row
}

// Partition keeps spreadsheet order: groups appear in order of their first
// row, and rows inside a group keep their encounter order.
func (g *Grouper) Partition(rows []Row) Partition {
	var p Partition
	index := map[string]int{}
	for _, row := range rows {
		id, ok := g.GroupOf(row.SKU())
		if !ok {
			p.Standalone = append(p.Standalone, row)
			continue
		}
		i, seen := index[id]
		if !seen {
			i = len(p.Groups)
			index[id] = i
			p.Groups = append(p.Groups, GroupedRows{Group: g.groups[id]})
		}
		p.Groups[i].Rows = append(p.Groups[i].Rows, row)
	}
	return p
}
