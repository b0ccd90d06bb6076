package cdn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/catalog"
)

// ErrNotFound is returned when neither the webp rendition nor the original exists.
var ErrNotFound = errors.New("image not on cdn")

// Downloader fetches product images from the legacy shop's image cache.
type Downloader struct {
	base   string
	dir    string
	client *http.Client
}

func NewDownloader(base, dir string, timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Downloader{
		base:   strings.TrimRight(base, "/"),
		dir:    dir,
		client: &http.Client{Timeout: timeout},
	}
}

func (d *Downloader) Dir() string { return d.dir }

// Exists reports whether src was already downloaded, in either format.
func (d *Downloader) Exists(src string) bool {
	name := catalog.LocalFilename(src)
	for _, n := range []string{name, catalog.WebPName(name)} {
		if _, err := os.Stat(filepath.Join(d.dir, n)); err == nil {
			return true
		}
	}
	return false
}

// Fetch downloads src, trying the webp rendition first and the original
// second, and returns the file name it was stored under.
func (d *Downloader) Fetch(ctx context.Context, src string) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", err
	}
	name := catalog.LocalFilename(src)

	webp := catalog.WebPName(name)
	err := d.get(ctx, d.url(src)+".webp", filepath.Join(d.dir, webp))
	if err == nil {
		return webp, nil
	}
	log.Debug().Err(err).Str("path", src).Msg("webp rendition unavailable, trying original")

	if err := d.get(ctx, d.url(src), filepath.Join(d.dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

func (d *Downloader) url(src string) string {
	parts := strings.Split(strings.TrimPrefix(src, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return d.base + "/" + strings.Join(parts, "/")
}

func (d *Downloader) get(ctx context.Context, u, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "skinlab-catalog/1.0")
	req.Header.Set("Accept", "image/webp,image/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, u)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("status code: %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(d.dir, ".download-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
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
	return os.Rename(tmp.Name(), dest)
}
