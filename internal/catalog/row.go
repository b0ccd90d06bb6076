package catalog

import "strings"

// Spreadsheet headers exactly as exported by the legacy shop. Several carry a
// trailing space that is part of the header text.
const (
	ColName         = "Terméknév (hu)"
	ColSKU          = "Cikkszám "
	ColShortDesc    = "Rövid leírás (hu)"
	ColLongDesc     = "Hosszú leírás (hu)"
	ColMetaTitle    = "Meta title (hu)"
	ColMetaDesc     = "Meta leírás (meta description) (hu)"
	ColGrossPrice   = "Bruttó ár "
	ColPrimaryImage = "Elsődleges termékkép "
	ColExtraImages  = "További termékképek "
	ColVideos       = "Youtube videók (hu)"
	ColStock        = "Minden raktárkészleten állapot "
	ColURL          = "Termék URL "
	ColCategory     = "Kategória név/nevek "
	ColStatus       = "Státusz (engedélyezett (1) v. letiltott (0) v. kifutott (2)) "

	colGrossPriceAlt = "Bruttó ár"
)

const ListSeparator = "|||"

// Row is one spreadsheet line keyed by verbatim header text.
type Row map[string]string

func (r Row) Get(col string) string { return r[col] }

func (r Row) SKU() string { return r[ColSKU] }

func (r Row) Name() string { return r[ColName] }

// Price reads the gross price column. Older exports named it without the
// trailing space.
func (r Row) Price() string {
	if v, ok := r[ColGrossPrice]; ok && v != "" {
		return v
	}
	return r[colGrossPriceAlt]
}

// URLSlug is the legacy shop's product URL, trimmed.
func (r Row) URLSlug() string { return strings.TrimSpace(r[ColURL]) }

// List splits a ||| delimited cell, dropping empty items.
func (r Row) List(col string) []string {
	return SplitList(r[col])
}

func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ListSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
