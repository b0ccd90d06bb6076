package jsonfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/domain"
)

const SummaryFile = "_summary.json"

// ProductRepo stores one <slug>.json per product in a flat directory. Files
// whose name starts with "_" are not products.
type ProductRepo struct{ dir string }

func NewProductRepo(dir string) *ProductRepo { return &ProductRepo{dir: dir} }

func (r *ProductRepo) Dir() string { return r.dir }

func (r *ProductRepo) path(slug string) string {
	return filepath.Join(r.dir, slug+".json")
}

// List returns every product sorted by file name. A file that does not parse
// is logged and skipped.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Product{}, nil
		}
		return nil, fmt.Errorf("read products dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasSuffix(n, ".json") || strings.HasPrefix(n, "_") {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]domain.Product, 0, len(names))
	for _, n := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(filepath.Join(r.dir, n))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", n, err)
		}
		var p domain.Product
		if err := json.Unmarshal(b, &p); err != nil {
			log.Warn().Err(err).Str("file", n).Msg("skipping malformed product file")
			continue
		}
		if p.Slug == "" {
			p.Slug = strings.TrimSuffix(n, ".json")
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepo) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	b, err := os.ReadFile(r.path(slug))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var p domain.Product
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", slug, err)
	}
	return &p, nil
}

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	if p.Slug == "" || strings.ContainsAny(p.Slug, `/\`) || strings.HasPrefix(p.Slug, "_") {
		return fmt.Errorf("%w: invalid slug %q", domain.ErrValidation, p.Slug)
	}
	p.Normalize()
	b, err := Marshal(p)
	if err != nil {
		return err
	}
	return r.write(r.path(p.Slug), b)
}

func (r *ProductRepo) Delete(ctx context.Context, slug string) error {
	if err := os.Remove(r.path(slug)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *ProductRepo) WriteSummary(ctx context.Context, s domain.Summary) error {
	b, err := Marshal(s)
	if err != nil {
		return err
	}
	return r.write(filepath.Join(r.dir, SummaryFile), b)
}

// Marshal renders v with 2-space indentation, a trailing newline and no HTML
// escaping, so rewriting an unchanged record yields identical bytes.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *ProductRepo) write(path string, b []byte) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(r.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
