package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/catalog"
	"github.com/phenrril/skinlab/internal/domain"
	"github.com/phenrril/skinlab/internal/i18n"
	"github.com/phenrril/skinlab/internal/schema"
	"github.com/phenrril/skinlab/internal/seo"
)

// PublishUC renders the SEO artifacts of the static site from the product
// records.
type PublishUC struct {
	Products   domain.ProductRepo
	Config     *catalog.Config
	Translator *i18n.Translator
	SiteURL    string
	Now        func() time.Time
}

func (uc *PublishUC) siteURL() string {
	if uc.SiteURL != "" {
		return uc.SiteURL
	}
	return i18n.DomainHungarian
}

// Sitemap writes sitemap.xml for the home page, the category pages and the
// product pages in every locale.
func (uc *PublishUC) Sitemap(ctx context.Context, w io.Writer) (*PassReport, error) {
	rep := &PassReport{Pass: "sitemap"}
	products, err := uc.Products.List(ctx)
	if err != nil {
		return rep, err
	}
	now := time.Now()
	if uc.Now != nil {
		now = uc.Now()
	}
	paths := seo.CatalogPaths(products)
	set := seo.NewSitemap(paths, now)
	if _, err := set.WriteTo(w); err != nil {
		return rep, fmt.Errorf("write sitemap: %w", err)
	}
	rep.Scanned = len(paths)
	rep.Updated = len(set.URLs)
	rep.log()
	return rep, nil
}

// JSONLD writes <slug>.jsonld into dir for every product. Each file holds
// the array of blocks for the product page.
func (uc *PublishUC) JSONLD(ctx context.Context, dir string) (*PassReport, error) {
	rep := &PassReport{Pass: "jsonld"}
	products, err := uc.Products.List(ctx)
	if err != nil {
		return rep, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rep, err
	}
	home := "Főoldal"
	if uc.Translator != nil {
		home = uc.Translator.T(i18n.DefaultLocale, "nav.home", nil)
	}
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Scanned++
		if p.Slug == "" {
			rep.Skipped++
			rep.note("%s: no slug", p.SKU)
			continue
		}
		docs := seo.ProductDocuments(uc.siteURL(), p, seo.Crumbs{Home: home, Category: uc.Config.CategoryName(p.CategorySlug)})
		items := make([]any, len(docs))
		for i, d := range docs {
			items[i] = d
		}
		b, err := schema.ToJSON(map[string]any{"@context": "https://schema.org", "@graph": items})
		if err != nil {
			return rep, fmt.Errorf("%s: %w", p.Slug, err)
		}
		path := filepath.Join(dir, p.Slug+".jsonld")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return rep, err
		}
		log.Debug().Str("slug", p.Slug).Str("path", path).Msg("jsonld written")
		rep.Updated++
	}
	rep.log()
	return rep, nil
}
