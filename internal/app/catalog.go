package app

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/skinlab/internal/adapters/cdn"
	"github.com/phenrril/skinlab/internal/adapters/repo/jsonfs"
	pgrepo "github.com/phenrril/skinlab/internal/adapters/repo/postgres"
	"github.com/phenrril/skinlab/internal/adapters/repo/sqlite"
	"github.com/phenrril/skinlab/internal/adapters/xlsx"
	"github.com/phenrril/skinlab/internal/catalog"
	"github.com/phenrril/skinlab/internal/config"
	"github.com/phenrril/skinlab/internal/i18n"
	"github.com/phenrril/skinlab/internal/usecase"
)

// Catalog wires the offline catalog passes.
type Catalog struct {
	Config    *config.Config
	Tables    *catalog.Config
	Products  *jsonfs.ProductRepo
	CatalogUC *usecase.CatalogUC
	Redirects *usecase.RedirectUC
	Downloads *usecase.DownloadUC
	Publish   *usecase.PublishUC
}

func NewCatalog(cfg *config.Config) (*Catalog, error) {
	tables, err := catalog.LoadConfig(cfg.Catalog.ConfigPath)
	if err != nil {
		return nil, err
	}
	tr, err := i18n.NewTranslator()
	if err != nil {
		return nil, err
	}
	products := jsonfs.NewProductRepo(cfg.Catalog.ProductsDir)
	source := xlsx.NewReader(cfg.Catalog.XLSXPath)

	return &Catalog{
		Config:   cfg,
		Tables:   tables,
		Products: products,
		CatalogUC: &usecase.CatalogUC{
			Products:  products,
			Source:    source,
			Config:    tables,
			ImagesDir: cfg.Catalog.ImagesDir,
		},
		Redirects: &usecase.RedirectUC{Products: products, Source: source, Config: tables.Redirects},
		Downloads: &usecase.DownloadUC{
			Source:  source,
			Fetcher: cdn.NewDownloader(cfg.Catalog.CDNBase, cfg.Catalog.ImagesDir, cfg.Server.ClientTimeout),
			Delay:   cfg.Catalog.DownloadDelay,
		},
		Publish: &usecase.PublishUC{
			Products:   products,
			Config:     tables,
			Translator: tr,
			SiteURL:    cfg.Catalog.SiteURL,
		},
	}, nil
}

// SQLiteExporter returns an exporter writing to path.
func (c *Catalog) SQLiteExporter(path string) *sqlite.Exporter { return sqlite.NewExporter(path) }

// PostgresMirror connects to DB_DSN and makes sure the mirror tables exist.
func (c *Catalog) PostgresMirror(ctx context.Context) (*pgrepo.ProductRepo, error) {
	db, err := gorm.Open(postgres.Open(c.Config.Database.DSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	repo := pgrepo.NewProductRepo(db)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
