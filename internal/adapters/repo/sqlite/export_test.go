package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/skinlab/internal/domain"
)

func TestExportWritesProductsAndVariants(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.sqlite")
	products := []domain.Product{
		{
			Slug: "nyxqueen-diodalezer", SKU: "NQ001", Name: "NyxQueen", CategorySlug: "diodalezerek",
			Gallery: []string{"/images/products/a.webp"}, Featured: true,
			Variants: []domain.Variant{
				{SKU: "NQ001", Name: "Gold", Price: domain.Float(1990000)},
				{SKU: "NQ02", Name: "Rose", Available: domain.Bool(false)},
			},
		},
		{Slug: "trolley", SKU: "ST001", Name: "Trolley"},
	}
	e := NewExporter(path)
	require.NoError(t, e.Export(context.Background(), products))
	// a second export replaces the file instead of appending
	require.NoError(t, e.Export(context.Background(), products))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM products`).Scan(&n))
	assert.Equal(t, 2, n)

	var gallery string
	var featured, hasVariants int
	var price sql.NullFloat64
	require.NoError(t, db.QueryRow(`SELECT gallery, featured, has_variants, price FROM products WHERE slug = ?`, "nyxqueen-diodalezer").
		Scan(&gallery, &featured, &hasVariants, &price))
	assert.Equal(t, `["/images/products/a.webp"]`, gallery)
	assert.Equal(t, 1, featured)
	assert.Equal(t, 1, hasVariants)
	assert.False(t, price.Valid)

	rows, err := db.Query(`SELECT sku, available FROM variants WHERE product_slug = ? ORDER BY position`, "nyxqueen-diodalezer")
	require.NoError(t, err)
	defer rows.Close()
	var got []string
	var avail []int
	for rows.Next() {
		var sku string
		var a int
		require.NoError(t, rows.Scan(&sku, &a))
		got = append(got, sku)
		avail = append(avail, a)
	}
	assert.Equal(t, []string{"NQ001", "NQ02"}, got)
	assert.Equal(t, []int{1, 0}, avail)
}
