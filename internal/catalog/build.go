package catalog

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/domain"
)

// ImportReport summarises one import run. Rows that could not be used are
// counted, never fatal.
type ImportReport struct {
	Rows               int
	Products           int
	Grouped            int
	Standalone         int
	Skipped            int
	ByCategory         map[string]int
	UnmappedCategories []string
	UnresolvedImages   []string
	UnparsedPrices     []string // sku
	SlugCollisions     []string // requested slug -> issued slug
	DuplicateVariants  []string // group:sku
	Errors             []string
	Timestamp          time.Time
}

var surroundingQuotesRe = regexp.MustCompile(`^'|'$`)

// Builder turns spreadsheet rows into product records.
type Builder struct {
	cfg        *Config
	categories *CategoryMapper
	grouper    *Grouper
	variants   VariantExtractor
	images     *ImageResolver
	featured   map[string]struct{}
}

// NewBuilder wires the normalizers from cfg. images may be nil, in which case
// image references are kept as rooted paths for a later resolution pass.
func NewBuilder(cfg *Config, images *ImageResolver) (*Builder, error) {
	g, err := NewGrouper(cfg.VariationGroups)
	if err != nil {
		return nil, err
	}
	return &Builder{
		cfg:        cfg,
		categories: NewCategoryMapper(cfg.Categories, cfg.FallbackCategory),
		grouper:    g,
		variants:   VariantExtractor{FamilyKeywords: cfg.FamilyKeywords},
		images:     images,
		featured:   cfg.FeaturedSet(),
	}, nil
}

// Build returns grouped products first, in order of their first row, then
// standalone products in row order.
func (b *Builder) Build(rows []Row) ([]domain.Product, *ImportReport) {
	rep := &ImportReport{Rows: len(rows), ByCategory: map[string]int{}, Timestamp: time.Now()}
	slugs := NewSlugRegistry()
	part := b.grouper.Partition(rows)

	products := make([]domain.Product, 0, len(part.Groups)+len(part.Standalone))
	for _, g := range part.Groups {
		slugs.Reserve(g.Group.ID)
	}
	// Explicit URL slugs are claimed before any name is slugified, so a
	// generated slug never takes one that a later row asks for.
	claimed := make(map[int]string, len(part.Standalone))
	for i, row := range part.Standalone {
		if row.Name() == "" {
			continue
		}
		if s := row.URLSlug(); SafeSlug(s) && slugs.Reserve(s) {
			claimed[i] = s
		}
	}
	for _, g := range part.Groups {
		products = append(products, b.buildGrouped(g, rep))
		rep.Grouped++
	}
	for i, row := range part.Standalone {
		p, ok := b.buildStandalone(row, claimed[i], slugs, rep)
		if !ok {
			rep.Skipped++
			continue
		}
		products = append(products, p)
		rep.Standalone++
	}

	for _, p := range products {
		rep.ByCategory[p.CategorySlug]++
	}
	rep.Products = len(products)
	rep.UnmappedCategories = b.categories.Unmapped()
	return products, rep
}

func (b *Builder) buildGrouped(g GroupedRows, rep *ImportReport) domain.Product {
	first := g.Rows[0]
	category, _ := b.categories.Map(first.Get(ColCategory))

	p := b.shared(first, g.Group.BaseName, rep)
	p.Slug = g.Group.ID
	p.SKU = g.Group.SKUs[0]
	p.Name = g.Group.BaseName
	p.CategorySlug = category

	seen := map[string]bool{}
	for _, row := range g.Rows {
		sku := row.SKU()
		if seen[sku] {
			rep.DuplicateVariants = append(rep.DuplicateVariants, g.Group.ID+":"+sku)
			log.Warn().Str("group", g.Group.ID).Str("sku", sku).Msg("duplicate variant row skipped")
			continue
		}
		seen[sku] = true
		if _, ok := b.featured[sku]; ok {
			p.Featured = true
		}

		name := row.Name()
		v := domain.Variant{SKU: sku, Name: name, Value: sku, Price: b.price(row, rep)}
		if info, ok := b.variants.Extract(name); ok {
			v.Name, v.Value = info.Name, info.Value
		}
		if src := row.Get(ColPrimaryImage); src != "" {
			if img, ok := b.image(src, rep); ok {
				v.Image = img
			}
		}
		p.Variants = append(p.Variants, v)
	}
	p.Price = p.Variants[0].Price
	p.Normalize()
	return p
}

func (b *Builder) buildStandalone(row Row, claimed string, slugs *SlugRegistry, rep *ImportReport) (domain.Product, bool) {
	raw := row.Name()
	if raw == "" {
		return domain.Product{}, false
	}
	name := surroundingQuotesRe.ReplaceAllString(raw, "")
	category, _ := b.categories.Map(row.Get(ColCategory))

	p := b.shared(row, name, rep)
	p.Slug = claimed
	if p.Slug == "" {
		p.Slug = b.slug(row, name, slugs, rep)
	}
	p.SKU = row.SKU()
	p.Name = name
	p.CategorySlug = category
	p.Price = b.price(row, rep)
	_, p.Featured = b.featured[p.SKU]
	p.Normalize()
	return p, true
}

// shared fills the fields a grouped product takes from its representative row.
// Price is set by the caller.
func (b *Builder) shared(row Row, fallbackTitle string, rep *ImportReport) domain.Product {
	p := domain.Product{
		ShortDescription: Truncate(CleanHTML(row.Get(ColShortDesc)), b.cfg.ShortDescriptionLimit),
		Description:      CleanHTML(row.Get(ColLongDesc)),
		MetaTitle:        CleanHTML(row.Get(ColMetaTitle)),
		MetaDescription:  CleanHTML(row.Get(ColMetaDesc)),
		Availability:     b.cfg.Stock.Availability(row.Get(ColStock)),
		YoutubeVideos:    row.List(ColVideos),
		Gallery:          []string{},
		Variants:         []domain.Variant{},
	}
	if p.MetaTitle == "" {
		p.MetaTitle = fallbackTitle
	}
	if len(p.YoutubeVideos) == 0 {
		p.YoutubeVideos = nil
	}

	p.Image = b.cfg.PlaceholderImage
	if src := row.Get(ColPrimaryImage); src != "" {
		if img, ok := b.image(src, rep); ok {
			p.Image = img
		}
	}
	for _, src := range row.List(ColExtraImages) {
		if img, ok := b.image(src, rep); ok && !contains(p.Gallery, img) {
			p.Gallery = append(p.Gallery, img)
		}
	}
	return p
}

// slug issues a slug for a row whose explicit slug was not claimed up front.
func (b *Builder) slug(row Row, name string, slugs *SlugRegistry, rep *ImportReport) string {
	explicit := row.URLSlug()
	if explicit == "" {
		return slugs.Generate(name)
	}
	if !SafeSlug(explicit) {
		issued := slugs.Generate(explicit)
		rep.SlugCollisions = append(rep.SlugCollisions, explicit+" -> "+issued)
		log.Warn().Str("slug", explicit).Str("issued", issued).Msg("unsafe url slug rewritten")
		return issued
	}
	issued := slugs.Unique(explicit)
	rep.SlugCollisions = append(rep.SlugCollisions, explicit+" -> "+issued)
	log.Warn().Str("slug", explicit).Str("issued", issued).Str("sku", row.SKU()).Msg("slug collision")
	return issued
}

func (b *Builder) price(row Row, rep *ImportReport) *float64 {
	raw := row.Price()
	v := ParsePrice(raw)
	if v == nil && strings.TrimSpace(raw) != "" {
		rep.UnparsedPrices = append(rep.UnparsedPrices, row.SKU())
		log.Warn().Str("sku", row.SKU()).Str("price", raw).Msg("unparseable price")
	}
	return v
}

// image resolves src against the asset index, or roots it when no index is
// loaded yet.
func (b *Builder) image(src string, rep *ImportReport) (string, bool) {
	src = strings.TrimSpace(src)
	if b.images == nil {
		return "/" + strings.TrimPrefix(src, "/"), true
	}
	if p, ok := b.images.Resolve(src); ok {
		return p, true
	}
	rep.UnresolvedImages = append(rep.UnresolvedImages, src)
	log.Warn().Str("path", src).Msg("image not found locally")
	return "", false
}

// Categories returns the category slugs seen, sorted.
func (r *ImportReport) Categories() []string {
	keys := make([]string, 0, len(r.ByCategory))
	for k := range r.ByCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
