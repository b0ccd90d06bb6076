package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/catalog"
	"github.com/phenrril/skinlab/internal/domain"
)

// PassReport counts what one maintenance pass did to the catalog.
type PassReport struct {
	Pass      string
	Scanned   int
	Updated   int
	Unchanged int
	Skipped   int
	Notes     []string
}

func (r *PassReport) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

func (r *PassReport) log() {
	log.Info().
		Str("pass", r.Pass).
		Int("scanned", r.Scanned).
		Int("updated", r.Updated).
		Int("unchanged", r.Unchanged).
		Int("skipped", r.Skipped).
		Msg("pass finished")
}

// eachProduct runs fn over the catalog and saves a product only when fn
// reports a change.
func (uc *CatalogUC) eachProduct(ctx context.Context, rep *PassReport, fn func(p *domain.Product) bool) error {
	products, err := uc.Products.List(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := &products[i]
		rep.Scanned++
		if !fn(p) {
			rep.Unchanged++
			continue
		}
		if err := uc.Products.Save(ctx, p); err != nil {
			return fmt.Errorf("save %s: %w", p.Slug, err)
		}
		rep.Updated++
	}
	return nil
}

func (uc *CatalogUC) requireImages() (*catalog.ImageResolver, error) {
	r, ok, err := uc.imageIndex()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("images dir %q: %w", uc.ImagesDir, domain.ErrNotFound)
	}
	return r, nil
}

// UpdateImagePaths points every image reference at a downloaded asset. An
// unresolvable primary image becomes the placeholder; unresolvable gallery,
// images and variant entries are dropped. Running it twice changes nothing
// the second time.
func (uc *CatalogUC) UpdateImagePaths(ctx context.Context) (*PassReport, error) {
	images, err := uc.requireImages()
	if err != nil {
		return nil, err
	}
	rep := &PassReport{Pass: "update-image-paths"}
	err = uc.eachProduct(ctx, rep, func(p *domain.Product) bool {
		changed := false

		primary := p.Image
		if !images.IsPlaceholder(p.Image) {
			resolved, ok := images.Primary(p.Image)
			if !ok && p.Image != "" {
				rep.note("%s: image %s not found", p.Slug, p.Image)
			}
			primary = resolved
		}
		if primary != p.Image {
			p.Image = primary
			changed = true
		}

		if g := resolveList(images, p.Gallery); !equalStrings(g, p.Gallery) {
			p.Gallery = g
			changed = true
		}
		if p.Images != nil {
			if g := resolveList(images, p.Images); !equalStrings(g, p.Images) {
				p.Images = g
				changed = true
			}
		}
		for i := range p.Variants {
			v := &p.Variants[i]
			if v.Image == "" {
				continue
			}
			resolved, _ := images.Resolve(v.Image)
			if resolved != v.Image {
				v.Image = resolved
				changed = true
			}
		}
		return changed
	})
	if err != nil {
		return rep, err
	}
	rep.log()
	return rep, nil
}

func resolveList(images *catalog.ImageResolver, in []string) []string {
	kept := make([]string, 0, len(in))
	for _, s := range in {
		if images.IsPlaceholder(s) {
			continue
		}
		kept = append(kept, s)
	}
	out, _ := images.All(kept)
	return out
}

// AddImages fills images[] from the spreadsheet: primary image first, then
// the additional ones, matched to products by URL slug.
func (uc *CatalogUC) AddImages(ctx context.Context) (*PassReport, error) {
	images, err := uc.requireImages()
	if err != nil {
		return nil, err
	}
	rows, err := uc.Source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}

	bySlug := map[string][]string{}
	for _, row := range rows {
		slug := row.URLSlug()
		if slug == "" {
			continue
		}
		if _, seen := bySlug[slug]; seen {
			continue
		}
		srcs := row.List(catalog.ColExtraImages)
		if primary := strings.TrimSpace(row.Get(catalog.ColPrimaryImage)); primary != "" {
			srcs = append([]string{primary}, srcs...)
		}
		if resolved, _ := images.All(srcs); len(resolved) > 0 {
			bySlug[slug] = resolved
		}
	}

	rep := &PassReport{Pass: "add-images"}
	err = uc.eachProduct(ctx, rep, func(p *domain.Product) bool {
		imgs, ok := bySlug[p.Slug]
		if !ok || equalStrings(imgs, p.Images) {
			return false
		}
		p.Images = imgs
		return true
	})
	if err != nil {
		return rep, err
	}
	rep.log()
	return rep, nil
}

// UpdatePrices copies the spreadsheet gross price, rounded to whole forints,
// onto products and variants by case-insensitive SKU. Empty or zero prices
// are ignored.
func (uc *CatalogUC) UpdatePrices(ctx context.Context) (*PassReport, error) {
	rows, err := uc.Source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	prices := map[string]float64{}
	for _, row := range rows {
		sku := skuKey(row.SKU())
		if sku == "" {
			continue
		}
		if _, seen := prices[sku]; seen {
			continue
		}
		v := catalog.ParsePrice(row.Price())
		if v == nil || *v == 0 {
			continue
		}
		prices[sku] = catalog.RoundPrice(*v)
	}

	rep := &PassReport{Pass: "update-prices"}
	err = uc.eachProduct(ctx, rep, func(p *domain.Product) bool {
		changed := false
		if price, ok := prices[skuKey(p.SKU)]; ok && !samePrice(p.Price, price) {
			p.Price = domain.Float(price)
			changed = true
		}
		for i := range p.Variants {
			v := &p.Variants[i]
			if price, ok := prices[skuKey(v.SKU)]; ok && !samePrice(v.Price, price) {
				v.Price = domain.Float(price)
				changed = true
			}
		}
		return changed
	})
	if err != nil {
		return rep, err
	}
	rep.log()
	return rep, nil
}

// FixSlugs renames products whose slug differs from the legacy shop URL
// recorded for their SKU. The old file is removed after the new one is written.
func (uc *CatalogUC) FixSlugs(ctx context.Context) (*PassReport, error) {
	rows, err := uc.Source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	urls := map[string]string{}
	for _, row := range rows {
		sku, slug := strings.TrimSpace(row.SKU()), row.URLSlug()
		if sku == "" || slug == "" {
			continue
		}
		if _, seen := urls[sku]; !seen {
			urls[sku] = slug
		}
	}

	products, err := uc.Products.List(ctx)
	if err != nil {
		return nil, err
	}

	rep := &PassReport{Pass: "fix-slugs"}
	for i := range products {
		p := &products[i]
		rep.Scanned++
		want, ok := urls[p.SKU]
		if !ok || want == p.Slug {
			rep.Unchanged++
			continue
		}
		if !catalog.SafeSlug(want) {
			rep.Skipped++
			rep.note("%s: url %q is not a usable slug", p.Slug, want)
			continue
		}
		taken, err := uc.slugTaken(ctx, want)
		if err != nil {
			return rep, err
		}
		if taken {
			rep.Skipped++
			rep.note("%s: slug %s already used by another product", p.Slug, want)
			log.Warn().Str("slug", p.Slug).Str("wanted", want).Msg("slug taken, not renamed")
			continue
		}

		old := p.Slug
		p.Slug = want
		if err := uc.Products.Save(ctx, p); err != nil {
			return rep, fmt.Errorf("save %s: %w", want, err)
		}
		if err := uc.Products.Delete(ctx, old); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return rep, fmt.Errorf("remove %s: %w", old, err)
		}
		rep.Updated++
		log.Info().Str("from", old).Str("to", want).Msg("product renamed")
	}
	rep.log()
	return rep, nil
}

func (uc *CatalogUC) slugTaken(ctx context.Context, slug string) (bool, error) {
	_, err := uc.Products.FindBySlug(ctx, slug)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("look up %s: %w", slug, err)
	}
}

// UpdateVariantStatus marks variants disabled in the legacy shop (status 0)
// as unavailable. It never re-enables a variant.
func (uc *CatalogUC) UpdateVariantStatus(ctx context.Context) (*PassReport, error) {
	rows, err := uc.Source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	disabled := map[string]bool{}
	for _, row := range rows {
		sku := skuKey(row.SKU())
		if _, seen := disabled[sku]; sku == "" || seen {
			continue
		}
		disabled[sku] = strings.TrimSpace(row.Get(catalog.ColStatus)) == "0"
	}

	rep := &PassReport{Pass: "update-variants"}
	err = uc.eachProduct(ctx, rep, func(p *domain.Product) bool {
		changed := false
		for i := range p.Variants {
			v := &p.Variants[i]
			if disabled[skuKey(v.SKU)] && v.IsAvailable() {
				v.Available = domain.Bool(false)
				changed = true
			}
		}
		return changed
	})
	if err != nil {
		return rep, err
	}
	rep.log()
	return rep, nil
}

func skuKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func samePrice(cur *float64, v float64) bool { return cur != nil && *cur == v }

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
