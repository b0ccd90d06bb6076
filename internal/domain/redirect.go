package domain

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

type RedirectRule struct {
	From   string
	To     string
	Status int
}

func (r RedirectRule) String() string {
	return fmt.Sprintf("%s %s %d", r.From, r.To, r.Status)
}

// RedirectSet is the content of the hosting platform's _redirects file.
type RedirectSet struct {
	Products    []RedirectRule
	Categories  []RedirectRule
	GeneratedAt time.Time
}

func (s RedirectSet) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	put := func(format string, args ...any) {
		k, _ := fmt.Fprintf(bw, format, args...)
		n += int64(k)
	}
	put("# SkinLab Hungary - 301 Redirects\n")
	put("# Generated: %s\n", s.GeneratedAt.UTC().Format(time.RFC3339))
	put("# Maps old ShopRenter URLs to category-based URLs\n\n")
	put("# Product redirects (%d rules)\n", len(s.Products))
	for _, r := range s.Products {
		put("%s\n", r)
	}
	put("\n# Category redirects\n")
	for _, r := range s.Categories {
		put("%s\n", r)
	}
	return n, bw.Flush()
}
