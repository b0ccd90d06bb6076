package catalog

import (
	"errors"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
)

const (
	DefaultPlaceholder  = "/images/placeholder.jpg"
	DefaultImagePrefix  = "/images/products/"
	legacyProductPrefix = "product/"
)

var (
	unsafeFileRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	rasterExtRe  = regexp.MustCompile(`(?i)\.(jpg|jpeg|png)$`)
)

// LocalFilename turns a spreadsheet image path into the file name the
// downloader stores it under.
func LocalFilename(src string) string {
	name := strings.TrimPrefix(src, legacyProductPrefix)
	return unsafeFileRe.ReplaceAllString(name, "-")
}

// WebPName swaps a jpg/jpeg/png extension for .webp.
func WebPName(name string) string {
	return rasterExtRe.ReplaceAllString(name, ".webp")
}

// ImageResolver matches image references against the downloaded asset directory.
type ImageResolver struct {
	files       map[string]string
	prefix      string
	placeholder string
}

func NewImageResolver(files []string, prefix, placeholder string) *ImageResolver {
	if prefix == "" {
		prefix = DefaultImagePrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	r := &ImageResolver{files: make(map[string]string, len(files)), prefix: prefix, placeholder: placeholder}
	for _, f := range files {
		r.files[strings.ToLower(f)] = f
	}
	return r
}

// LoadImageResolver indexes the regular files in dir. A missing directory
// yields an empty resolver.
func LoadImageResolver(dir, prefix, placeholder string) (*ImageResolver, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read images dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	return NewImageResolver(files, prefix, placeholder), nil
}

func (r *ImageResolver) Len() int { return len(r.files) }

// IsPlaceholder reports whether p is the configured placeholder path.
func (r *ImageResolver) IsPlaceholder(p string) bool {
	return strings.TrimSpace(p) == r.placeholder
}

// Resolve returns the public path of the local asset for src. The lookup
// order is: exact file name, same name as webp, bare basename, basename as
// webp. All comparisons ignore case.
func (r *ImageResolver) Resolve(src string) (string, bool) {
	src = strings.TrimPrefix(strings.TrimSpace(src), "/")
	if src == "" {
		return "", false
	}
	name := strings.ToLower(LocalFilename(src))
	base := strings.ToLower(path.Base(src))
	for _, candidate := range []string{name, WebPName(name), base, WebPName(base)} {
		if actual, ok := r.files[candidate]; ok {
			return r.prefix + actual, true
		}
	}
	return "", false
}

// Primary resolves the main product image, falling back to the placeholder.
func (r *ImageResolver) Primary(src string) (string, bool) {
	if p, ok := r.Resolve(src); ok {
		return p, true
	}
	return r.placeholder, false
}

// All resolves each reference in order, dropping the ones with no local file.
func (r *ImageResolver) All(srcs []string) (resolved []string, missing []string) {
	resolved = []string{}
	seen := map[string]bool{}
	for _, s := range srcs {
		p, ok := r.Resolve(s)
		if !ok {
			missing = append(missing, s)
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		resolved = append(resolved, p)
	}
	return resolved, missing
}
