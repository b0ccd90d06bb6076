package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/phenrril/skinlab/internal/domain"
)

var schema = []string{
	`DROP TABLE IF EXISTS variants`,
	`DROP TABLE IF EXISTS products`,
	`CREATE TABLE products (
		slug TEXT PRIMARY KEY,
		sku TEXT,
		name TEXT NOT NULL,
		category_slug TEXT,
		short_description TEXT,
		description TEXT,
		meta_title TEXT,
		meta_description TEXT,
		price REAL,
		image TEXT,
		gallery TEXT,
		availability TEXT,
		has_variants INTEGER,
		featured INTEGER
	)`,
	`CREATE TABLE variants (
		product_slug TEXT NOT NULL REFERENCES products(slug),
		position INTEGER NOT NULL,
		sku TEXT,
		name TEXT,
		value TEXT,
		price REAL,
		image TEXT,
		available INTEGER,
		PRIMARY KEY (product_slug, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_slug)`,
	`CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku)`,
	`CREATE INDEX IF NOT EXISTS idx_variants_sku ON variants(sku)`,
}

// Exporter writes a self-contained catalog database, replacing any previous file.
type Exporter struct{ path string }

func NewExporter(path string) *Exporter { return &Exporter{path: path} }

func (e *Exporter) Export(ctx context.Context, products []domain.Product) error {
	_ = os.Remove(e.path)
	db, err := sql.Open("sqlite", e.path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ps, err := tx.PrepareContext(ctx, `INSERT INTO products (slug, sku, name, category_slug, short_description, description,
		meta_title, meta_description, price, image, gallery, availability, has_variants, featured)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer ps.Close()
	vs, err := tx.PrepareContext(ctx, `INSERT INTO variants (product_slug, position, sku, name, value, price, image, available)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer vs.Close()

	for _, p := range products {
		gallery, err := json.Marshal(p.Gallery)
		if err != nil {
			return err
		}
		if _, err := ps.ExecContext(ctx, p.Slug, p.SKU, p.Name, p.CategorySlug, p.ShortDescription, p.Description,
			p.MetaTitle, p.MetaDescription, nullable(p.Price), p.Image, string(gallery), string(p.Availability),
			sqliteValue(len(p.Variants) > 0), sqliteValue(p.Featured)); err != nil {
			return fmt.Errorf("insert %s: %w", p.Slug, err)
		}
		for i, v := range p.Variants {
			if _, err := vs.ExecContext(ctx, p.Slug, i, v.SKU, v.Name, v.Value, nullable(v.Price), v.Image,
				sqliteValue(v.IsAvailable())); err != nil {
				return fmt.Errorf("insert variant %s/%s: %w", p.Slug, v.SKU, err)
			}
		}
	}
	return tx.Commit()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func sqliteValue(b bool) int {
	if b {
		return 1
	}
	return 0
}
