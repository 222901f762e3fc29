// Package movie loads the movie catalog from the MSRD tab-separated dataset.
package movie

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain"
	dommovie "github.com/kailas-cloud/cinedex/internal/domain/movie"
)

// Dataset columns. Missing columns read as empty.
const (
	colTitle      = "title"
	colOverview   = "overview"
	colGenres     = "genres"
	colActors     = "actors"
	colDirector   = "director"
	colYear       = "year"
	colRating     = "rating"
	colPopularity = "popularity"
)

// Loader reads movies from a TSV file on disk.
type Loader struct {
	path       string
	downloader *Downloader
	logger     *zap.Logger
}

// NewLoader creates a loader for the dataset at path.
func NewLoader(path string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{path: path, logger: logger}
}

// WithDownloader makes Load fetch the dataset first when it is missing or
// too small.
func (l *Loader) WithDownloader(d *Downloader) *Loader {
	l.downloader = d
	return l
}

// Load reads and converts every well-formed row. A missing or unreadable
// file yields domain.ErrDatasetUnavailable.
func (l *Loader) Load(ctx context.Context) ([]dommovie.Movie, error) {
	if l.downloader != nil {
		if err := l.downloader.Ensure(ctx); err != nil {
			return nil, err
		}
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}
	defer f.Close()

	l.logger.Info("Loading movies", zap.String("path", l.path))
	movies, skipped, err := Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatasetUnavailable, l.path, err)
	}
	if skipped > 0 {
		l.logger.Warn("Skipped malformed rows", zap.Int("rows", skipped))
	}
	l.logger.Info("Loaded movies", zap.Int("count", len(movies)))
	return movies, nil
}

// Parse reads a header row followed by data rows. Rows with more fields
// than the header, or that fail to parse, are skipped and counted. Each
// accepted row gets its zero-based position as ID.
func Parse(ctx context.Context, r io.Reader) ([]dommovie.Movie, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("empty dataset")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(clean(h))] = i
	}
	if _, ok := cols[colTitle]; !ok {
		return nil, 0, fmt.Errorf("header has no %q column", colTitle)
	}

	var (
		movies  []dommovie.Movie
		skipped int
	)
	for line := 0; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, skipped, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil || len(rec) > len(header) {
			skipped++
			continue
		}

		row := record{cols: cols, fields: rec}
		m, err := row.movie(strconv.Itoa(len(movies)))
		if err != nil {
			skipped++
			continue
		}
		movies = append(movies, m)
	}
	return movies, skipped, nil
}

type record struct {
	cols   map[string]int
	fields []string
}

func (r record) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	v := clean(r.fields[i])
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

func (r record) movie(id string) (dommovie.Movie, error) {
	var opts []dommovie.Option
	if y, ok := parseNumber(r.get(colYear)); ok {
		opts = append(opts, dommovie.WithYear(int(y)))
	}
	if v, ok := parseNumber(r.get(colRating)); ok {
		opts = append(opts, dommovie.WithRating(v))
	}
	if v, ok := parseNumber(r.get(colPopularity)); ok {
		opts = append(opts, dommovie.WithPopularity(v))
	}

	var directors []string
	if d := r.get(colDirector); d != "" {
		directors = []string{d}
	}
	return dommovie.New(id,
		r.get(colTitle),
		r.get(colOverview),
		splitList(r.get(colGenres)),
		splitList(r.get(colActors)),
		directors,
		opts...,
	)
}

// clean strips surrounding whitespace and double quotes.
func clean(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseNumber accepts integer and float notation ("1995", "1995.0").
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
