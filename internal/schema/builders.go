package schema

import (
	"strings"

	"github.com/phenrril/skinlab/internal/domain"
)

const schemaContext = "https://schema.org"

var availabilityURL = map[domain.Availability]string{
	domain.AvailabilityInStock:    "https://schema.org/InStock",
	domain.AvailabilityPreorder:   "https://schema.org/PreOrder",
	domain.AvailabilityOutOfStock: "https://schema.org/OutOfStock",
}

// AvailabilityURL maps a catalog availability to its schema.org URL.
// Unknown values read as in stock.
func AvailabilityURL(a domain.Availability) string {
	if u, ok := availabilityURL[a]; ok {
		return u
	}
	return availabilityURL[domain.AvailabilityInStock]
}

// AbsoluteURL resolves a site-relative path against siteURL.
func AbsoluteURL(siteURL, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(siteURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func Organization(siteURL string) map[string]any {
	return map[string]any{
		"@context":     schemaContext,
		"@type":        "Organization",
		"@id":          SchemaID(siteURL, SuffixOrganization),
		"name":         SiteName,
		"legalName":    CompanyName,
		"url":          siteURL,
		"logo":         AbsoluteURL(siteURL, "/images/logo.png"),
		"slogan":       Slogan,
		"foundingDate": FoundingDate,
		"email":        Email,
		"telephone":    Telephone,
		"sameAs":       SameAs,
	}
}

func LocalBusiness(siteURL string) map[string]any {
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "HealthAndBeautyBusiness",
		"@id":        SchemaID(siteURL, SuffixLocalBusiness),
		"name":       SiteName,
		"url":        siteURL,
		"telephone":  Telephone,
		"email":      Email,
		"priceRange": PriceRange,
		"address": map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   StreetAddress,
			"addressLocality": City,
			"postalCode":      PostalCode,
			"addressCountry":  Country,
		},
		"geo": map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  Latitude,
			"longitude": Longitude,
		},
		"parentOrganization": Ref(siteURL, SuffixOrganization),
		"sameAs":             SameAs,
	}
}

type Crumb struct {
	Name string
	URL  string
}

// BreadcrumbList numbers crumbs from 1. The last crumb may omit its URL.
func BreadcrumbList(pageURL string, crumbs []Crumb) map[string]any {
	items := make([]any, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Name,
			"item":     c.URL,
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"@id":             SchemaID(pageURL, SuffixBreadcrumb),
		"itemListElement": items,
	}
}

// FAQPage returns nil when there are no answered questions.
func FAQPage(pageURL string, faqs []domain.FAQ) map[string]any {
	entities := make([]any, 0, len(faqs))
	for _, f := range faqs {
		if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
			continue
		}
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  f.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  f.Answer,
			},
		})
	}
	if len(entities) == 0 {
		return nil
	}
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"@id":        SchemaID(pageURL, SuffixFAQ),
		"mainEntity": entities,
	}
}

// Product describes p as sold by the organization at siteURL. Variant
// prices become an AggregateOffer; a product without any price gets no
// offer at all.
func Product(siteURL, pageURL string, p domain.Product) map[string]any {
	images := []string{}
	for _, src := range productImages(p) {
		if abs := AbsoluteURL(siteURL, src); IsValidSchemaURL(abs) {
			images = append(images, abs)
		}
	}
	description := p.ShortDescription
	if description == "" {
		description = p.Description
	}

	out := map[string]any{
		"@context":    schemaContext,
		"@type":       "Product",
		"@id":         SchemaID(pageURL, SuffixProduct),
		"name":        p.Name,
		"description": description,
		"url":         pageURL,
		"image":       images,
		"sku":         p.SKU,
		"category":    p.CategorySlug,
		"brand":       map[string]any{"@type": "Brand", "name": BrandName},
	}
	if offers := offer(siteURL, pageURL, p); offers != nil {
		out["offers"] = offers
	}
	return out
}

func productImages(p domain.Product) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, group := range [][]string{{p.Image}, p.Images, p.Gallery} {
		for _, src := range group {
			if src != "" && !seen[src] {
				seen[src] = true
				out = append(out, src)
			}
		}
	}
	return out
}

func offer(siteURL, pageURL string, p domain.Product) map[string]any {
	var prices []float64
	for _, v := range p.Variants {
		if v.Price != nil && *v.Price > 0 && v.IsAvailable() {
			prices = append(prices, *v.Price)
		}
	}
	base := map[string]any{
		"priceCurrency": "HUF",
		"availability":  AvailabilityURL(p.Availability),
		"itemCondition": "https://schema.org/NewCondition",
		"url":           pageURL,
		"seller":        Ref(siteURL, SuffixOrganization),
	}
	switch {
	case len(prices) > 1:
		lo, hi := prices[0], prices[0]
		for _, v := range prices[1:] {
			lo, hi = min(lo, v), max(hi, v)
		}
		base["@type"] = "AggregateOffer"
		base["lowPrice"] = lo
		base["highPrice"] = hi
		base["offerCount"] = len(prices)
	case p.Price != nil && *p.Price > 0:
		base["@type"] = "Offer"
		base["price"] = *p.Price
	case len(prices) == 1:
		base["@type"] = "Offer"
		base["price"] = prices[0]
	default:
		return nil
	}
	return base
}
