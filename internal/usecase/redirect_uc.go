package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/catalog"
	"github.com/phenrril/skinlab/internal/domain"
)

type RedirectUC struct {
	Products domain.ProductRepo
	Source   RowSource
	Config   catalog.RedirectConfig
	Now      func() time.Time
}

// Generate maps every legacy shop URL in the spreadsheet to its category path.
// Manual overrides win over the product lookup; slugs with neither are skipped.
func (uc *RedirectUC) Generate(ctx context.Context) (domain.RedirectSet, *PassReport, error) {
	rep := &PassReport{Pass: "redirects"}
	rows, err := uc.Source.Rows(ctx)
	if err != nil {
		return domain.RedirectSet{}, rep, fmt.Errorf("read spreadsheet: %w", err)
	}
	products, err := uc.Products.List(ctx)
	if err != nil {
		return domain.RedirectSet{}, rep, err
	}
	categoryOf := make(map[string]string, len(products))
	for _, p := range products {
		categoryOf[p.Slug] = p.CategorySlug
	}

	status := uc.Config.Status
	if status == 0 {
		status = 301
	}
	now := time.Now()
	if uc.Now != nil {
		now = uc.Now()
	}
	set := domain.RedirectSet{GeneratedAt: now}

	seen := map[string]bool{}
	for _, row := range rows {
		slug := row.URLSlug()
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		rep.Scanned++

		target, ok := uc.Config.Manual[slug]
		if !ok {
			category, found := categoryOf[slug]
			if !found || category == "" {
				rep.Skipped++
				rep.note("%s: no product and no manual mapping", slug)
				log.Warn().Str("slug", slug).Msg("no redirect target")
				continue
			}
			target = "/" + category + "/" + slug
		}
		for _, prefix := range uc.Config.LegacyPrefixes {
			set.Products = append(set.Products, domain.RedirectRule{From: prefix + slug, To: target, Status: status})
		}
		rep.Updated++
	}
	for _, a := range uc.Config.CategoryAliases {
		set.Categories = append(set.Categories, domain.RedirectRule{From: a.From, To: a.To, Status: status})
	}

	log.Info().Int("slugs", rep.Updated).Int("skipped", rep.Skipped).
		Int("product_rules", len(set.Products)).Int("category_rules", len(set.Categories)).
		Msg("redirects generated")
	return set, rep, nil
}

// Write generates the rule set and renders it to w.
func (uc *RedirectUC) Write(ctx context.Context, w io.Writer) (*PassReport, error) {
	set, rep, err := uc.Generate(ctx)
	if err != nil {
		return rep, err
	}
	if _, err := set.WriteTo(w); err != nil {
		return rep, err
	}
	return rep, nil
}
