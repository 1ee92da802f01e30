package pricedata

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrDataUnavailable indicates the requested (symbol, year) file does not
// exist or holds no rows. It is a displayable result state for the
// presentation layer, not a crash.
var ErrDataUnavailable = errors.New("price data unavailable")

const compactLayout = "20060102 150405"

// compactTime decodes the source files' timezone-naive "YYYYMMDD HHMMSS"
// stamp. Only the civil components are kept; the loader localizes them into
// its configured exchange timezone afterwards, so the same parsed row could
// in principle be projected into any zone.
type compactTime struct {
	year                int
	month               time.Month
	day, hour, min, sec int
}

func (c *compactTime) UnmarshalCSV(value string) error {
	t, err := time.Parse(compactLayout, strings.TrimSpace(value))
	if err != nil {
		return err
	}
	c.year, c.month, c.day = t.Date()
	c.hour, c.min, c.sec = t.Clock()
	return nil
}

// in projects the civil components into loc. Ambiguous local times at the
// fall-back DST transition resolve to the first (daylight) offset and
// nonexistent spring-forward times normalize ahead, per time.Date.
func (c compactTime) in(loc *time.Location) time.Time {
	return time.Date(c.year, c.month, c.day, c.hour, c.min, c.sec, 0, loc)
}

// barRow is the positional shape of one source line:
// date;open;high;low;close;volume. Volume is read for row shape and
// discarded.
type barRow struct {
	Stamp  compactTime
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume string
}

// LoaderOptions parameterise the minute-bar file loader.
type LoaderOptions struct {
	Dir          string
	PathTemplate string // e.g. DAT_ASCII_%s_M1_%d.csv, filled with symbol and year
	Location     *time.Location
}

// Loader reads per-(symbol, year) minute-bar files into Tables.
type Loader struct {
	opts   LoaderOptions
	logger zerolog.Logger
}

// NewLoader constructs a Loader. Location must be the exchange-local civil
// timezone of the source files.
func NewLoader(opts LoaderOptions, logger zerolog.Logger) *Loader {
	if opts.Location == nil {
		panic("pricedata: loader location must be set")
	}
	return &Loader{opts: opts, logger: logger.With().Str("component", "pricedata").Logger()}
}

// Load reads the (symbol, year) file into a UTC-indexed Table. A missing or
// empty file fails with ErrDataUnavailable; a malformed row is a hard error
// since the files are machine-generated and a bad row means corruption.
func (l *Loader) Load(symbol string, year int) (*Table, error) {
	src, path, err := l.open(symbol, year)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.Comma = ';'

	var rows []barRow
	if err := gocsv.UnmarshalCSVWithoutHeaders(reader, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %d: empty file %s: %w", symbol, year, path, ErrDataUnavailable)
	}

	bars := make([]Bar, len(rows))
	for i, row := range rows {
		bars[i] = Bar{
			Timestamp: row.Stamp.in(l.opts.Location).UTC(),
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
		}
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})

	l.logger.Debug().Str("symbol", symbol).Int("year", year).Int("bars", len(bars)).Msg("price table loaded")

	return &Table{bars: bars, loc: l.opts.Location}, nil
}

// open locates the source file, accepting either the plain or gzipped name.
func (l *Loader) open(symbol string, year int) (io.ReadCloser, string, error) {
	name := fmt.Sprintf(l.opts.PathTemplate, symbol, year)
	path := filepath.Join(l.opts.Dir, name)

	if file, err := os.Open(path); err == nil {
		return file, path, nil
	} else if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}

	gzPath := path + ".gz"
	file, err := os.Open(gzPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%s %d: no file at %s: %w", symbol, year, path, ErrDataUnavailable)
		}
		return nil, "", fmt.Errorf("open %s: %w", gzPath, err)
	}

	gz, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, "", fmt.Errorf("open gzip %s: %w", gzPath, err)
	}

	return &gzipReadCloser{gz: gz, file: file}, gzPath, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fileErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}
