package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/skinlab/internal/domain"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := ParseConfig([]byte(`
stock:
  inStock: Raktáron
  preorder: Előrendelhető
categories:
  "Diódalézeres szőrtelenítő készülékek": diodalezerek
  "Szalonberendezés/Eszközkocsi": szalonberendezes
variationGroups:
  - id: nyxqueen-diodalezer
    baseName: NyxQueen Diódalézer
    skus: [NQ001, NQ02]
featuredSkus: [NQ02, SOLO1]
`))
	require.NoError(t, err)
	return cfg
}

func nyxRow(sku, name, price, img string) Row {
	return Row{
		ColSKU:          sku,
		ColName:         name,
		ColGrossPrice:   price,
		ColPrimaryImage: img,
		ColCategory:     "Diódalézeres szőrtelenítő készülékek",
		ColStock:        "Raktáron",
		ColShortDesc:    "<p>Rövid&nbsp;leírás</p>",
	}
}

func TestBuildGroupedProduct(t *testing.T) {
	images := NewImageResolver([]string{"nyx-rose.webp"}, "", "")
	b, err := NewBuilder(testConfig(t), images)
	require.NoError(t, err)

	rows := []Row{
		{ColSKU: "SOLO1", ColName: "'Kozmetikai ágy'", ColCategory: "Ismeretlen kategória"},
		nyxRow("NQ02", "NyxQueen (Rose Gold)", "1 990 000", "product/nyx-rose.jpg"),
		nyxRow("NQ001", "NyxQueen (Snow White)", "2 100 000", "product/nyx-white.jpg"),
		nyxRow("NQ02", "NyxQueen (Rose Gold)", "1", ""),
	}
	products, rep := b.Build(rows)
	require.Len(t, products, 2)

	g := products[0]
	assert.Equal(t, "nyxqueen-diodalezer", g.Slug)
	assert.Equal(t, "NQ001", g.SKU)
	assert.Equal(t, "NyxQueen Diódalézer", g.Name)
	assert.Equal(t, "NyxQueen Diódalézer", g.MetaTitle)
	assert.Equal(t, "diodalezerek", g.CategorySlug)
	assert.Equal(t, "Rövid leírás", g.ShortDescription)
	assert.Equal(t, domain.AvailabilityInStock, g.Availability)
	assert.True(t, g.HasVariants)
	assert.True(t, g.Featured)
	require.Len(t, g.Variants, 2)
	assert.Equal(t, "NQ02", g.Variants[0].SKU)
	assert.Equal(t, "Rose Gold", g.Variants[0].Name)
	assert.Equal(t, "rose-gold", g.Variants[0].Value)
	assert.Equal(t, "/images/products/nyx-rose.webp", g.Variants[0].Image)
	assert.Empty(t, g.Variants[1].Image)
	require.NotNil(t, g.Price)
	assert.Equal(t, 1990000.0, *g.Price)
	assert.Equal(t, "/images/products/nyx-rose.webp", g.Image)

	s := products[1]
	assert.Equal(t, "Kozmetikai ágy", s.Name)
	assert.Equal(t, "kozmetikai-agy", s.Slug)
	assert.Equal(t, "egyeb", s.CategorySlug)
	assert.Equal(t, DefaultPlaceholder, s.Image)
	assert.Equal(t, domain.AvailabilityOutOfStock, s.Availability)
	assert.Nil(t, s.Price)
	assert.False(t, s.HasVariants)
	assert.NotNil(t, s.Variants)
	assert.NotNil(t, s.Gallery)
	assert.True(t, s.Featured)

	assert.Equal(t, 1, rep.Grouped)
	assert.Equal(t, 1, rep.Standalone)
	assert.Equal(t, []string{"Ismeretlen kategória"}, rep.UnmappedCategories)
	assert.Equal(t, []string{"nyxqueen-diodalezer:NQ02"}, rep.DuplicateVariants)
	assert.Equal(t, []string{"product/nyx-white.jpg"}, rep.UnresolvedImages)
	assert.Equal(t, []string{"diodalezerek", "egyeb"}, rep.Categories())
}

func TestBuildStandaloneSlugs(t *testing.T) {
	b, err := NewBuilder(testConfig(t), nil)
	require.NoError(t, err)

	rows := []Row{
		nyxRow("NQ001", "NyxQueen (Gold)", "", ""),
		{ColSKU: "A1", ColName: "Trolley", ColURL: " trolley "},
		{ColSKU: "A2", ColName: "Trolley"},
		{ColSKU: "A3", ColName: "Másik", ColURL: "trolley"},
		{ColSKU: "A4", ColName: "Rossz", ColURL: "a/b"},
		{ColSKU: "A5", ColName: "Csoport", ColURL: "nyxqueen-diodalezer"},
		{ColSKU: "A6", ColName: ""},
		{ColSKU: "A7", ColName: "Galéria", ColPrimaryImage: "product/x.jpg", ColExtraImages: "product/y.jpg|||product/y.jpg"},
	}
	products, rep := b.Build(rows)

	slugs := []string{}
	for _, p := range products {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"nyxqueen-diodalezer", "trolley", "trolley-1", "trolley-2", "a-b", "nyxqueen-diodalezer-1", "galeria"}, slugs)
	assert.Equal(t, 1, rep.Skipped)
	assert.Len(t, rep.SlugCollisions, 3)

	last := products[len(products)-1]
	assert.Equal(t, "/product/x.jpg", last.Image)
	assert.Equal(t, []string{"/product/y.jpg"}, last.Gallery)
}

func TestBuildPriceReportedOnce(t *testing.T) {
	b, err := NewBuilder(testConfig(t), nil)
	require.NoError(t, err)

	_, rep := b.Build([]Row{
		nyxRow("NQ001", "NyxQueen (Gold)", "ár kérésre", ""),
		{ColSKU: "B1", ColName: "B", ColGrossPrice: "n/a"},
	})
	assert.Equal(t, []string{"NQ001", "B1"}, rep.UnparsedPrices)
}

func TestBuildExplicitSlugWinsOverGenerated(t *testing.T) {
	b, err := NewBuilder(testConfig(t), nil)
	require.NoError(t, err)

	products, rep := b.Build([]Row{
		{ColSKU: "A1", ColName: "Kozmetikai ágy"},
		{ColSKU: "B1", ColName: "Kezelőágy", ColURL: "kozmetikai-agy"},
	})
	require.Len(t, products, 2)
	assert.Equal(t, "A1", products[0].SKU)
	assert.Equal(t, "kozmetikai-agy-1", products[0].Slug)
	assert.Equal(t, "B1", products[1].SKU)
	assert.Equal(t, "kozmetikai-agy", products[1].Slug)
	assert.Empty(t, rep.SlugCollisions)
}
