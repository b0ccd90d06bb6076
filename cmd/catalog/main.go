package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/app"
	"github.com/phenrril/skinlab/internal/config"
	"github.com/phenrril/skinlab/internal/usecase"
)

const usage = `usage: catalog <command> [flags]

commands:
  import              spreadsheet to product JSON files and _summary.json
  download-images     fetch product images from the legacy CDN
  update-image-paths  re-resolve image references against the images dir
  add-images          fill images[] from the spreadsheet
  update-prices       round spreadsheet prices into products and variants
  fix-slugs           rename products to their spreadsheet URL slug
  update-variants     mark disabled variants unavailable
  redirects           write the redirect rule file
  sitemap             write sitemap.xml
  jsonld              write per-product JSON-LD files
  export-sqlite       write the catalog to a SQLite file
  sync-db             mirror the catalog into postgres
`

func main() {
	cfg := config.Load()
	config.SetupLogger(cfg.Log)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.NewCatalog(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog setup")
	}
	if err := run(ctx, c, cmd, args); err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("catalog command failed")
	}
}

func run(ctx context.Context, c *app.Catalog, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	out := fs.String("out", "", "output path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pass := func(fn func(context.Context) (*usecase.PassReport, error)) error {
		_, err := fn(ctx)
		return err
	}

	switch cmd {
	case "import":
		_, err := c.CatalogUC.Import(ctx)
		return err
	case "download-images":
		_, err := c.Downloads.Download(ctx)
		return err
	case "update-image-paths":
		return pass(c.CatalogUC.UpdateImagePaths)
	case "add-images":
		return pass(c.CatalogUC.AddImages)
	case "update-prices":
		return pass(c.CatalogUC.UpdatePrices)
	case "fix-slugs":
		return pass(c.CatalogUC.FixSlugs)
	case "update-variants":
		return pass(c.CatalogUC.UpdateVariantStatus)
	case "redirects":
		return writeFile(orDefault(*out, c.Config.Catalog.RedirectsPath), func(f *os.File) error {
			_, err := c.Redirects.Write(ctx, f)
			return err
		})
	case "sitemap":
		return writeFile(orDefault(*out, "public/sitemap.xml"), func(f *os.File) error {
			_, err := c.Publish.Sitemap(ctx, f)
			return err
		})
	case "jsonld":
		_, err := c.Publish.JSONLD(ctx, orDefault(*out, "public/jsonld"))
		return err
	case "export-sqlite":
		n, err := c.CatalogUC.Export(ctx, c.SQLiteExporter(orDefault(*out, "catalog.db")))
		if err != nil {
			return err
		}
		log.Info().Int("products", n).Msg("sqlite export written")
		return nil
	case "sync-db":
		repo, err := c.PostgresMirror(ctx)
		if err != nil {
			return err
		}
		n, err := c.CatalogUC.Mirror(ctx, repo)
		if err != nil {
			return err
		}
		log.Info().Int("products", n).Msg("postgres mirror synced")
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// writeFile replaces path only when fn succeeds.
func writeFile(path string, fn func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := fn(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("written")
	return os.Rename(tmp.Name(), path)
}
