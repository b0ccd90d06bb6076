package seo

import (
	"github.com/phenrril/skinlab/internal/domain"
	"github.com/phenrril/skinlab/internal/schema"
)

// Crumbs names the ancestors of a product page.
type Crumbs struct {
	Home     string
	Category string
}

// ProductDocuments returns the JSON-LD blocks of a product page: the
// product, its breadcrumb trail and, when the product has FAQs, the FAQ
// page.
func ProductDocuments(siteURL string, p domain.Product, names Crumbs) []map[string]any {
	pageURL := schema.AbsoluteURL(siteURL, ProductPath(p))
	docs := []map[string]any{
		schema.Product(siteURL, pageURL, p),
		schema.BreadcrumbList(pageURL, []schema.Crumb{
			{Name: names.Home, URL: schema.AbsoluteURL(siteURL, "/")},
			{Name: names.Category, URL: schema.AbsoluteURL(siteURL, "/"+p.CategorySlug)},
			{Name: p.Name, URL: pageURL},
		}),
	}
	if faq := schema.FAQPage(pageURL, p.FAQs); faq != nil {
		docs = append(docs, faq)
	}
	return docs
}
