package domain

import (
	"context"
	"time"
)

type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityPreorder   Availability = "preorder"
	AvailabilityOutOfStock Availability = "out_of_stock"
)

// Product is the record persisted as <slug>.json and read back by every
// maintenance pass.
type Product struct {
	Slug             string       `json:"slug"`
	SKU              string       `json:"sku"`
	Name             string       `json:"name"`
	CategorySlug     string       `json:"categorySlug"`
	ShortDescription string       `json:"shortDescription"`
	Description      string       `json:"description"`
	MetaTitle        string       `json:"metaTitle"`
	MetaDescription  string       `json:"metaDescription"`
	Price            *float64     `json:"price"`
	Image            string       `json:"image"`
	Gallery          []string     `json:"gallery"`
	Images           []string     `json:"images,omitempty"`
	YoutubeVideos    []string     `json:"youtubeVideos,omitempty"`
	Availability     Availability `json:"availability"`
	HasVariants      bool         `json:"hasVariants"`
	Variants         []Variant    `json:"variants"`
	Featured         bool         `json:"featured"`

	// Editorial content, filled by hand and carried through untouched.
	Features []string `json:"features,omitempty"`
	Specs    []Spec   `json:"specs,omitempty"`
	FAQs     []FAQ    `json:"faqs,omitempty"`
	VideoURL string   `json:"videoUrl,omitempty"`
}

type Variant struct {
	SKU       string   `json:"sku"`
	Name      string   `json:"name"`
	Value     string   `json:"value"`
	Price     *float64 `json:"price"`
	Image     string   `json:"image,omitempty"`
	Available *bool    `json:"available,omitempty"`
}

// IsAvailable reports false only for variants explicitly disabled.
func (v Variant) IsAvailable() bool {
	return v.Available == nil || *v.Available
}

type Spec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Normalize restores the slice and flag invariants after a pass mutated the record.
func (p *Product) Normalize() {
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if p.Variants == nil {
		p.Variants = []Variant{}
	}
	p.HasVariants = len(p.Variants) > 0
}

// SKUs returns the product SKU followed by every variant SKU.
type Summary struct {
	TotalProducts int            `json:"totalProducts"`
	ByCategory    map[string]int `json:"byCategory"`
	GeneratedAt   time.Time      `json:"generatedAt"`
}

func NewSummary(products []Product, at time.Time) Summary {
	s := Summary{TotalProducts: len(products), ByCategory: map[string]int{}, GeneratedAt: at.UTC()}
	for _, p := range products {
		s.ByCategory[p.CategorySlug]++
	}
	return s
}

type ProductRepo interface {
	List(ctx context.Context) ([]Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, slug string) error
	WriteSummary(ctx context.Context, s Summary) error
}

// CatalogExporter receives a full catalog snapshot.
type CatalogExporter interface {
	Export(ctx context.Context, products []Product) error
}

// CatalogMirror is an exporter that can report what it holds.
type CatalogMirror interface {
	CatalogExporter
	CountByCategory(ctx context.Context) (map[string]int, error)
}

func Float(v float64) *float64 { return &v }

func Bool(v bool) *bool { return &v }
