package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"NyxQueen Diódalézer":          "nyxqueen-diodalezer",
		"Őszi ÁRVÍZTŰRŐ tükörfúrógép!": "oszi-arvizturo-tukorfurogep",
		"  --MAST P60 (Gold)--  ":      "mast-p60-gold",
		"LaseQueen ND:YAG":             "lasequeen-nd-yag",
		"!!!":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugRegistryNeverReissues(t *testing.T) {
	r := NewSlugRegistry()
	seen := map[string]bool{}
	names := []string{"Trolley", "trolley", "TROLLEY!", "Trolley 1", "trolley-1", "", "?"}
	for i := 0; i < 3; i++ {
		for _, n := range names {
			s := r.Generate(n)
			assert.False(t, seen[s], "slug %q issued twice", s)
			seen[s] = true
		}
	}
	assert.True(t, seen["trolley"])
	assert.True(t, seen["trolley-1"])
	assert.True(t, seen["trolley-2"])
}

func TestSlugRegistryReserve(t *testing.T) {
	r := NewSlugRegistry()
	assert.True(t, r.Reserve("nyxqueen-diodalezer"))
	assert.False(t, r.Reserve("nyxqueen-diodalezer"))
	assert.Equal(t, "nyxqueen-diodalezer-1", r.Unique("nyxqueen-diodalezer"))
	assert.Equal(t, "x", r.Unique("x"))
	for i := 1; i <= 3; i++ {
		assert.Equal(t, fmt.Sprintf("x-%d", i), r.Unique("x"))
	}
}

func TestSafeSlug(t *testing.T) {
	assert.True(t, SafeSlug("nyxqueen_4wave_diodalezer"))
	assert.True(t, SafeSlug("mast-p60-premium-"))
	assert.False(t, SafeSlug(""))
	assert.False(t, SafeSlug("_summary"))
	assert.False(t, SafeSlug("a/b"))
	assert.False(t, SafeSlug(".."))
}
