package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/skinlab/internal/domain"
)

type productRow struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug             string    `gorm:"size:200;uniqueIndex"`
	SKU              string    `gorm:"size:100;index"`
	Name             string    `gorm:"size:300"`
	CategorySlug     string    `gorm:"size:100;index"`
	ShortDescription string    `gorm:"type:text"`
	Description      string    `gorm:"type:text"`
	MetaTitle        string    `gorm:"size:300"`
	MetaDescription  string    `gorm:"type:text"`
	Price            *float64  `gorm:"type:decimal(14,2)"`
	Image            string    `gorm:"size:500"`
	Gallery          []string  `gorm:"type:jsonb;serializer:json"`
	Images           []string  `gorm:"type:jsonb;serializer:json"`
	YoutubeVideos    []string  `gorm:"type:jsonb;serializer:json"`
	Availability     string    `gorm:"size:20"`
	HasVariants      bool
	Featured         bool          `gorm:"index"`
	Features         []string      `gorm:"type:jsonb;serializer:json"`
	Specs            []domain.Spec `gorm:"type:jsonb;serializer:json"`
	FAQs             []domain.FAQ  `gorm:"column:faqs;type:jsonb;serializer:json"`
	VideoURL         string        `gorm:"size:500"`
	Variants         []variantRow  `gorm:"foreignKey:ProductID"`
	SyncedAt         time.Time
}

func (productRow) TableName() string { return "catalog_products" }

type variantRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	Position  int
	SKU       string   `gorm:"size:100;index"`
	Name      string   `gorm:"size:300"`
	Value     string   `gorm:"size:200"`
	Price     *float64 `gorm:"type:decimal(14,2)"`
	Image     string   `gorm:"size:500"`
	Available bool
}

func (variantRow) TableName() string { return "catalog_variants" }

// ProductRepo mirrors the JSON catalog into postgres for reporting and search.
// The JSON files stay the source of truth.
type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&productRow{}, &variantRow{})
}

// Export upserts every product by slug, replaces its variants and removes
// rows whose slug is no longer in the catalog.
func (r *ProductRepo) Export(ctx context.Context, products []domain.Product) error {
	now := time.Now()
	slugs := make([]string, 0, len(products))
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			row := toRow(&products[i], now)
			var existing productRow
			err := tx.Select("id").Where("slug = ?", row.Slug).Take(&existing).Error
			switch {
			case err == nil:
				row.ID = existing.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				row.ID = uuid.New()
			default:
				return err
			}
			variants := row.Variants
			row.Variants = nil
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", row.ID).Delete(&variantRow{}).Error; err != nil {
				return err
			}
			for j := range variants {
				variants[j].ID = uuid.New()
				variants[j].ProductID = row.ID
			}
			if len(variants) > 0 {
				if err := tx.Create(&variants).Error; err != nil {
					return err
				}
			}
			slugs = append(slugs, row.Slug)
		}

		stale := tx.Model(&productRow{}).Select("id")
		if len(slugs) > 0 {
			stale = stale.Where("slug NOT IN ?", slugs)
		}
		if err := tx.Where("product_id IN (?)", stale).Delete(&variantRow{}).Error; err != nil {
			return err
		}
		del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(slugs) > 0 {
			del = del.Where("slug NOT IN ?", slugs)
		}
		return del.Delete(&productRow{}).Error
	})
}

func (r *ProductRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		CategorySlug string
		N            int
	}
	if err := r.db.WithContext(ctx).Model(&productRow{}).
		Select("category_slug, count(*) as n").Group("category_slug").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, x := range rows {
		out[x.CategorySlug] = x.N
	}
	return out, nil
}

func toRow(p *domain.Product, at time.Time) productRow {
	row := productRow{
		Slug:             p.Slug,
		SKU:              p.SKU,
		Name:             p.Name,
		CategorySlug:     p.CategorySlug,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		MetaTitle:        p.MetaTitle,
		MetaDescription:  p.MetaDescription,
		Price:            p.Price,
		Image:            p.Image,
		Gallery:          p.Gallery,
		Images:           p.Images,
		YoutubeVideos:    p.YoutubeVideos,
		Availability:     string(p.Availability),
		HasVariants:      len(p.Variants) > 0,
		Featured:         p.Featured,
		Features:         p.Features,
		Specs:            p.Specs,
		FAQs:             p.FAQs,
		VideoURL:         p.VideoURL,
		SyncedAt:         at,
	}
	for i, v := range p.Variants {
		row.Variants = append(row.Variants, variantRow{
			Position:  i,
			SKU:       v.SKU,
			Name:      v.Name,
			Value:     v.Value,
			Price:     v.Price,
			Image:     v.Image,
			Available: v.IsAvailable(),
		})
	}
	return row
}
