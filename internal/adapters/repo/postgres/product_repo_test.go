package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/phenrril/skinlab/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&variantRow{}, &productRow{}))
	return db
}

func TestExportUpsertsAndPrunes(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepo(openTestDB(t))
	require.NoError(t, repo.Migrate(ctx))

	catalog := []domain.Product{
		{
			Slug: "nyxqueen-diodalezer", SKU: "NQ001", CategorySlug: "diodalezerek",
			Variants: []domain.Variant{
				{SKU: "NQ001", Name: "Gold", Price: domain.Float(1990000)},
				{SKU: "NQ02", Name: "Rose Gold", Available: domain.Bool(false)},
			},
			Specs: []domain.Spec{{Label: "Hullámhossz", Value: "755/808/940/1064 nm"}},
		},
		{Slug: "trolley", SKU: "ST001", CategorySlug: "szalonberendezes"},
	}
	require.NoError(t, repo.Export(ctx, catalog))

	var row productRow
	require.NoError(t, repo.db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&row, "slug = ?", "nyxqueen-diodalezer").Error)
	require.Len(t, row.Variants, 2)
	assert.Equal(t, "NQ001", row.Variants[0].SKU)
	assert.False(t, row.Variants[1].Available)
	assert.Equal(t, catalog[0].Specs, row.Specs)
	assert.True(t, row.HasVariants)
	firstID := row.ID

	catalog[0].Variants = catalog[0].Variants[:1]
	require.NoError(t, repo.Export(ctx, catalog[:1]))

	var slugs []string
	require.NoError(t, repo.db.Model(&productRow{}).Pluck("slug", &slugs).Error)
	assert.Equal(t, []string{"nyxqueen-diodalezer"}, slugs)
	var variants int64
	require.NoError(t, repo.db.Model(&variantRow{}).Count(&variants).Error)
	assert.EqualValues(t, 1, variants)
	require.NoError(t, repo.db.First(&row, "slug = ?", "nyxqueen-diodalezer").Error)
	assert.Equal(t, firstID, row.ID, "upsert keeps the row id")

	counts, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"diodalezerek": 1}, counts)
}

func TestToRowKeepsVariantOrder(t *testing.T) {
	p := domain.Product{
		Slug: "x",
		Variants: []domain.Variant{
			{SKU: "B"}, {SKU: "A", Available: domain.Bool(false)}, {SKU: "C"},
		},
	}
	row := toRow(&p, time.Now())
	assert.Equal(t, "x", row.Slug)
	assert.True(t, row.HasVariants)
	require.Len(t, row.Variants, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{row.Variants[0].Position, row.Variants[1].Position, row.Variants[2].Position})
	assert.Equal(t, "A", row.Variants[1].SKU)
	assert.True(t, row.Variants[0].Available)
	assert.False(t, row.Variants[1].Available)
}
