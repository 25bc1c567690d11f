package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"IndexSentinel/internal/model"
)

// minParseable is the share of non-empty cells a column must parse to be
// picked as the date or value column.
const minParseable = 0.5

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2006.01.02",
}

var (
	dateNames  = []string{"date", "datetime", "time", "timestamp", "day"}
	valueNames = []string{"close", "adj close", "adj_close", "value", "price", "last"}
)

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseCSV reads a (date, value) table. The header row is optional; the
// date and value columns are detected by how many of their cells parse.
// Rows whose date or value does not parse are counted as dropped.
func ParseCSV(r io.Reader, symbol string) (*model.Ingest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	var header []string
	if isHeader(rows[0]) {
		header, rows = rows[0], rows[1:]
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < 2 {
		return nil, ErrTooFewColumns
	}

	dateCol := pickColumn(rows, header, width, dateNames, -1, func(s string) bool { _, ok := parseDate(s); return ok })
	if dateCol < 0 {
		return nil, ErrNoDateColumn
	}
	valueCol := pickColumn(rows, header, width, valueNames, dateCol, func(s string) bool { _, ok := parseNumber(s); return ok })
	if valueCol < 0 {
		return nil, ErrNoValueColumn
	}

	raw := make([]model.Observation, 0, len(rows))
	parseDropped := 0
	for _, row := range rows {
		if dateCol >= len(row) || valueCol >= len(row) {
			parseDropped++
			continue
		}
		t, okT := parseDate(row[dateCol])
		v, okV := parseNumber(row[valueCol])
		if !okT || !okV {
			parseDropped++
			continue
		}
		raw = append(raw, model.Observation{Time: t, Value: v})
	}

	in := Normalize(symbol, raw)
	in.Total += parseDropped
	in.Dropped += parseDropped
	if len(in.Series) == 0 {
		return in, ErrEmptyInput
	}
	return in, nil
}

// isHeader reports whether no cell of the row parses as a date or number.
func isHeader(row []string) bool {
	for _, cell := range row {
		if _, ok := parseDate(cell); ok {
			return false
		}
		if _, ok := parseNumber(cell); ok {
			return false
		}
	}
	return true
}

// pickColumn returns the column whose cells parse often enough, preferring
// a column whose header matches one of names. skip excludes one column.
func pickColumn(rows [][]string, header []string, width int, names []string, skip int, parses func(string) bool) int {
	best := -1
	for col := 0; col < width; col++ {
		if col == skip || parsedShare(rows, col, parses) < minParseable {
			continue
		}
		if col < len(header) && matchesName(header[col], names) {
			return col
		}
		if best < 0 {
			best = col
		}
	}
	return best
}

func parsedShare(rows [][]string, col int, parses func(string) bool) float64 {
	seen, ok := 0, 0
	for _, row := range rows {
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		seen++
		if parses(row[col]) {
			ok++
		}
	}
	if seen == 0 {
		return 0
	}
	return float64(ok) / float64(seen)
}

func matchesName(h string, names []string) bool {
	h = strings.ToLower(strings.TrimSpace(h))
	for _, n := range names {
		if h == n {
			return true
		}
	}
	return false
}

// CSVFetcher serves a series from a local CSV file.
type CSVFetcher struct {
	Path string
}

// NewCSVFetcher creates a fetcher reading path on every call.
func NewCSVFetcher(path string) *CSVFetcher {
	return &CSVFetcher{Path: path}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) Fetch(_ context.Context, symbol string, days int) (*model.Ingest, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	in, err := ParseCSV(file, symbol)
	if err != nil {
		if errors.Is(err, ErrEmptyInput) && in != nil {
			return nil, fmt.Errorf("%s: %w (%d of %d rows dropped)", f.Path, err, in.Dropped, in.Total)
		}
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return tail(in, days), nil
}
