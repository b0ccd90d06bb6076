package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultConfig []byte

type Alias struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type RedirectConfig struct {
	Status          int               `yaml:"status"`
	LegacyPrefixes  []string          `yaml:"legacyPrefixes"`
	Manual          map[string]string `yaml:"manual"`
	CategoryAliases []Alias           `yaml:"categoryAliases"`
}

// Config holds the lookup tables that change with the catalog, not with the code.
type Config struct {
	FallbackCategory      string            `yaml:"fallbackCategory"`
	PlaceholderImage      string            `yaml:"placeholderImage"`
	ImagePublicPrefix     string            `yaml:"imagePublicPrefix"`
	ShortDescriptionLimit int               `yaml:"shortDescriptionLimit"`
	Stock                 StockLabels       `yaml:"stock"`
	Categories            map[string]string `yaml:"categories"`
	CategoryNames         map[string]string `yaml:"categoryNames"`
	VariationGroups       []VariationGroup  `yaml:"variationGroups"`
	FeaturedSKUs          []string          `yaml:"featuredSkus"`
	FamilyKeywords        []string          `yaml:"familyKeywords"`
	Redirects             RedirectConfig    `yaml:"redirects"`
}

func DefaultConfig() (*Config, error) {
	return ParseConfig(defaultConfig)
}

// LoadConfig reads path, or the embedded tables when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog config: %w", err)
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog config: %w", err)
	}
	if c.FallbackCategory == "" {
		c.FallbackCategory = "egyeb"
	}
	if c.PlaceholderImage == "" {
		c.PlaceholderImage = DefaultPlaceholder
	}
	if c.ImagePublicPrefix == "" {
		c.ImagePublicPrefix = DefaultImagePrefix
	}
	if c.ShortDescriptionLimit == 0 {
		c.ShortDescriptionLimit = 200
	}
	if c.Redirects.Status == 0 {
		c.Redirects.Status = 301
	}
	if len(c.Redirects.LegacyPrefixes) == 0 {
		c.Redirects.LegacyPrefixes = []string{"/product/", "/termek/", "/"}
	}
	if _, err := NewGrouper(c.VariationGroups); err != nil {
		return nil, fmt.Errorf("catalog config: %w", err)
	}
	return &c, nil
}

// CategoryName returns the display name for slug, or the slug itself.
func (c *Config) CategoryName(slug string) string {
	if n, ok := c.CategoryNames[slug]; ok && n != "" {
		return n
	}
	return slug
}

func (c *Config) FeaturedSet() map[string]struct{} {
	out := make(map[string]struct{}, len(c.FeaturedSKUs))
	for _, s := range c.FeaturedSKUs {
		out[s] = struct{}{}
	}
	return out
}
