package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/catalog"
)

// ImageFetcher stores one legacy image path locally.
type ImageFetcher interface {
	Exists(src string) bool
	Fetch(ctx context.Context, src string) (string, error)
}

type DownloadFailure struct {
	Path string
	Err  error
}

type DownloadReport struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
	Failures   []DownloadFailure
}

const maxLoggedFailures = 20

type DownloadUC struct {
	Source  RowSource
	Fetcher ImageFetcher
	// Delay is the pause between two network fetches.
	Delay time.Duration
}

// Download fetches every primary and additional image named in the
// spreadsheet, once per distinct path, skipping files already on disk.
// A failed image is recorded and the run goes on.
func (uc *DownloadUC) Download(ctx context.Context) (*DownloadReport, error) {
	rows, err := uc.Source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	paths := imagePaths(rows)
	rep := &DownloadReport{Total: len(paths)}
	log.Info().Int("images", len(paths)).Msg("download started")

	fetched := 0
	for _, src := range paths {
		if uc.Fetcher.Exists(src) {
			rep.Skipped++
			continue
		}
		if fetched > 0 {
			if err := sleep(ctx, uc.Delay); err != nil {
				return rep, err
			}
		}
		fetched++
		name, err := uc.Fetcher.Fetch(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			rep.Failed++
			rep.Failures = append(rep.Failures, DownloadFailure{Path: src, Err: err})
			continue
		}
		rep.Downloaded++
		log.Debug().Str("path", src).Str("file", name).Msg("image stored")
	}

	for i, f := range rep.Failures {
		if i == maxLoggedFailures {
			log.Warn().Int("more", len(rep.Failures)-maxLoggedFailures).Msg("further failures not shown")
			break
		}
		log.Warn().Err(f.Err).Str("path", f.Path).Msg("image download failed")
	}
	log.Info().
		Int("total", rep.Total).
		Int("downloaded", rep.Downloaded).
		Int("skipped", rep.Skipped).
		Int("failed", rep.Failed).
		Msg("download finished")
	return rep, nil
}

// imagePaths lists distinct image paths in spreadsheet order.
func imagePaths(rows []catalog.Row) []string {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}
	for _, row := range rows {
		add(row.Get(catalog.ColPrimaryImage))
		for _, p := range row.List(catalog.ColExtraImages) {
			add(p)
		}
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
