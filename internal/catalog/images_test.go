package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFilename(t *testing.T) {
	assert.Equal(t, "NyxQueen-rose-gold.jpg", LocalFilename("product/NyxQueen rose gold.jpg"))
	assert.Equal(t, "Lezerek-Nyx_1.png", LocalFilename("product/Lezerek/Nyx_1.png"))
	assert.Equal(t, "K-pek-a.jpg", LocalFilename("product/Képek/a.jpg"))
	assert.Equal(t, "other-product-x.jpg", LocalFilename("other/product/x.jpg"))
}

func TestImageResolverFallbackOrder(t *testing.T) {
	r := NewImageResolver([]string{
		"NyxQueen-1.JPG",
		"Lezerek-Nyx_2.webp",
		"DAME4.png",
		"solo.webp",
	}, "", "")

	cases := []struct {
		src, want string
		ok        bool
	}{
		{"product/nyxqueen-1.jpg", "/images/products/NyxQueen-1.JPG", true},
		{"product/Lezerek/Nyx_2.jpg", "/images/products/Lezerek-Nyx_2.webp", true},
		{"/DAME4.png", "/images/products/DAME4.png", true},
		{"deep/dir/Solo.PNG", "/images/products/solo.webp", true},
		{"product/missing.jpg", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := r.Resolve(c.src)
		assert.Equal(t, c.ok, ok, c.src)
		assert.Equal(t, c.want, got, c.src)
	}
}

func TestImageResolverIsIdempotent(t *testing.T) {
	r := NewImageResolver([]string{"Nyx Queen.webp", "a-b.png"}, "", "")
	raw, ok := r.Resolve("product/Nyx Queen.jpg")
	require.True(t, ok)
	assert.Equal(t, "/images/products/Nyx Queen.webp", raw)

	first, ok := r.Resolve("product/a b.png")
	require.True(t, ok)
	second, ok := r.Resolve(first)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestImageResolverPrimaryAndAll(t *testing.T) {
	r := NewImageResolver([]string{"a.webp", "b.png"}, "/img/", "/img/none.jpg")

	p, ok := r.Primary("product/zzz.jpg")
	assert.False(t, ok)
	assert.Equal(t, "/img/none.jpg", p)
	assert.True(t, r.IsPlaceholder(p))

	got, missing := r.All([]string{"product/a.jpg", "product/x.jpg", "b.png", "product/A.png"})
	assert.Equal(t, []string{"/img/a.webp", "/img/b.png"}, got)
	assert.Equal(t, []string{"product/x.jpg"}, missing)
}

func TestLoadImageResolver(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "One.webp"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	r, err := LoadImageResolver(dir, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	r, err = LoadImageResolver(filepath.Join(dir, "nope"), "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestIsPlaceholderMatchesOnlyTheConfiguredPath(t *testing.T) {
	r := NewImageResolver([]string{"placeholder-kit.webp"}, "", "")

	assert.True(t, r.IsPlaceholder(DefaultPlaceholder))
	assert.False(t, r.IsPlaceholder("/images/products/placeholder-kit.webp"))
	assert.False(t, r.IsPlaceholder("/images/other-placeholder.jpg"))

	got, missing := r.All([]string{"placeholder-kit.jpg"})
	assert.Equal(t, []string{"/images/products/placeholder-kit.webp"}, got)
	assert.Empty(t, missing)
}
