package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/catalog"
	"github.com/phenrril/skinlab/internal/domain"
)

// RowSource yields the spreadsheet export as header-keyed rows.
type RowSource interface {
	Rows(ctx context.Context) ([]catalog.Row, error)
}

type CatalogUC struct {
	Products  domain.ProductRepo
	Source    RowSource
	Config    *catalog.Config
	ImagesDir string
	Now       func() time.Time
}

func (uc *CatalogUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now()
}

// imageIndex loads the downloaded assets. ok is false when the directory
// does not exist yet.
func (uc *CatalogUC) imageIndex() (*catalog.ImageResolver, bool, error) {
	if uc.ImagesDir == "" {
		return nil, false, nil
	}
	if _, err := os.Stat(uc.ImagesDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	r, err := catalog.LoadImageResolver(uc.ImagesDir, uc.Config.ImagePublicPrefix, uc.Config.PlaceholderImage)
	if err != nil {
		return nil, false, err
	}
	log.Debug().Str("dir", uc.ImagesDir).Int("files", r.Len()).Msg("image index loaded")
	return r, true, nil
}

// Import rebuilds every product record from the spreadsheet and rewrites the
// summary. Bad rows are reported, never fatal; only I/O failures abort.
func (uc *CatalogUC) Import(ctx context.Context) (*catalog.ImportReport, error) {
	rows, err := uc.Source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	images, ok, err := uc.imageIndex()
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Warn().Str("dir", uc.ImagesDir).Msg("images dir missing, image paths kept for update-image-paths")
	}

	b, err := catalog.NewBuilder(uc.Config, images)
	if err != nil {
		return nil, err
	}
	products, rep := b.Build(rows)
	rep.Timestamp = uc.now()

	for i := range products {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := uc.Products.Save(ctx, &products[i]); err != nil {
			return rep, fmt.Errorf("save %s: %w", products[i].Slug, err)
		}
	}
	if err := uc.Products.WriteSummary(ctx, domain.NewSummary(products, rep.Timestamp)); err != nil {
		return rep, fmt.Errorf("write summary: %w", err)
	}

	log.Info().
		Int("rows", rep.Rows).
		Int("products", rep.Products).
		Int("grouped", rep.Grouped).
		Int("standalone", rep.Standalone).
		Int("skipped", rep.Skipped).
		Int("unmapped_categories", len(rep.UnmappedCategories)).
		Int("unresolved_images", len(rep.UnresolvedImages)).
		Msg("import finished")
	return rep, nil
}

// Export hands the current catalog to exp and returns the product count.
func (uc *CatalogUC) Export(ctx context.Context, exp domain.CatalogExporter) (int, error) {
	products, err := uc.Products.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := exp.Export(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

// Mirror exports the catalog to m and then checks that the per-category
// counts m reports match the ones the catalog summary would record.
func (uc *CatalogUC) Mirror(ctx context.Context, m domain.CatalogMirror) (int, error) {
	products, err := uc.Products.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := m.Export(ctx, products); err != nil {
		return 0, err
	}
	got, err := m.CountByCategory(ctx)
	if err != nil {
		return 0, fmt.Errorf("count mirrored products: %w", err)
	}
	want := domain.NewSummary(products, uc.now()).ByCategory
	var diff []string
	for _, c := range unionKeys(want, got) {
		if want[c] != got[c] {
			diff = append(diff, fmt.Sprintf("%s: %d != %d", c, got[c], want[c]))
		}
	}
	if len(diff) > 0 {
		log.Error().Strs("categories", diff).Msg("mirror does not match catalog")
		return 0, fmt.Errorf("mirror counts differ: %s", strings.Join(diff, ", "))
	}
	return len(products), nil
}

func unionKeys(a, b map[string]int) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
