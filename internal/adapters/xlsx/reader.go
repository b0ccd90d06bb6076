package xlsx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/skinlab/internal/catalog"
)

// Reader loads the first worksheet of a shop export as header-keyed rows.
type Reader struct {
	path string
	src  io.Reader
}

func NewReader(path string) *Reader { return &Reader{path: path} }

// NewReaderFrom reads the workbook from r instead of a file.
func NewReaderFrom(r io.Reader) *Reader { return &Reader{src: r} }

func (r *Reader) open() (*excelize.File, error) {
	if r.src != nil {
		return excelize.OpenReader(r.src)
	}
	return excelize.OpenFile(r.path)
}

// Rows returns one catalog.Row per non-blank data line. Header text is kept
// verbatim, trailing spaces included; cells missing at the end of a short
// line read as "".
func (r *Reader) Rows(ctx context.Context) ([]catalog.Row, error) {
	f, err := r.open()
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return []catalog.Row{}, nil
	}

	headers := uniqueHeaders(raw[0])
	rows := make([]catalog.Row, 0, len(raw)-1)
	for i, line := range raw[1:] {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blank(line) {
			continue
		}
		row := make(catalog.Row, len(headers))
		for j, h := range headers {
			if j < len(line) {
				row[h] = line[j]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	log.Debug().Str("sheet", sheets[0]).Int("rows", len(rows)).Int("columns", len(headers)).Msg("workbook loaded")
	return rows, nil
}

// uniqueHeaders suffixes repeated header cells with _1, _2 ... so no column
// silently shadows another.
func uniqueHeaders(in []string) []string {
	out := make([]string, len(in))
	seen := map[string]int{}
	for i, h := range in {
		n := seen[h]
		seen[h] = n + 1
		if n > 0 {
			h = fmt.Sprintf("%s_%d", h, n)
		}
		out[i] = h
	}
	return out
}

func blank(line []string) bool {
	for _, c := range line {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
