// Package incident loads crime-incident tables from CSV, TSV and XLSX files.
package incident

import (
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/model"
)

// Options configures how an incident table is read.
type Options struct {
	UnitColumn     string // reporting-unit name column (default "District")
	CategoryColumn string // crime category column (default "CRIME_TYPE")
	CountColumn    string // integer count column (default "COUNT")
	Delimiter      rune   // overrides the delimiter implied by the extension
	Sheet          string // XLSX sheet name; empty = first sheet
}

// DefaultOptions returns the column layout of the state IPC tables.
func DefaultOptions() Options {
	return Options{
		UnitColumn:     "District",
		CategoryColumn: "CRIME_TYPE",
		CountColumn:    "COUNT",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.UnitColumn == "" {
		o.UnitColumn = d.UnitColumn
	}
	if o.CategoryColumn == "" {
		o.CategoryColumn = d.CategoryColumn
	}
	if o.CountColumn == "" {
		o.CountColumn = d.CountColumn
	}
	return o
}

// rowReader yields raw records; the first record is the header.
type rowReader interface {
	Read() ([]string, error)
}

// rawRow holds one decoded record before count parsing.
type rawRow struct {
	Unit     string `csv:"unit"`
	Category string `csv:"category"`
	Count    string `csv:"count"`
}

// Load reads the incident table at path. The format is picked from the
// extension: .csv/.txt (comma), .tsv (tab) or .xlsx. Rows whose unit or
// category is "Total" are dropped.
func Load(path string, opts Options) ([]model.IncidentRecord, error) {
	opts = opts.withDefaults()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(model.ErrNotFound, "incident: %s", path)
		}
		return nil, eris.Wrapf(err, "incident: stat %s", path)
	}

	var (
		records []model.IncidentRecord
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		records, err = loadXLSX(path, opts)
	case ".tsv":
		if opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		records, err = loadCSV(path, opts)
	case ".csv", ".txt", "":
		records, err = loadCSV(path, opts)
	default:
		return nil, eris.Errorf("incident: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Debug("incident table loaded",
		zap.String("component", "incident.loader"),
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// IsTotal reports whether a unit or category value names an aggregate row.
func IsTotal(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "total")
}

// decode maps the configured columns onto rawRow and parses every record.
func decode(path string, r rowReader, opts Options) ([]model.IncidentRecord, error) {
	header, err := r.Read()
	if err == io.EOF {
		return nil, model.NewParseError(path, 0, "", "empty table")
	}
	if err != nil {
		return nil, wrapRead(path, 1, err)
	}

	mapped, err := mapHeader(path, header, opts)
	if err != nil {
		return nil, err
	}

	dec, err := csvutil.NewDecoder(r, mapped...)
	if err != nil {
		return nil, eris.Wrapf(err, "incident: build decoder for %s", path)
	}

	var (
		records []model.IncidentRecord
		dropped int
		row     = 1
	)
	for {
		var raw rawRow
		err := dec.Decode(&raw)
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, wrapRead(path, row, err)
		}

		if raw.Unit == "" && raw.Category == "" && raw.Count == "" {
			continue
		}
		if IsTotal(raw.Unit) || IsTotal(raw.Category) {
			dropped++
			continue
		}
		if raw.Unit == "" {
			return nil, model.NewParseError(path, row, opts.UnitColumn, "empty reporting unit")
		}

		count, err := parseCount(raw.Count)
		if err != nil {
			return nil, &model.ParseError{Path: path, Row: row, Column: opts.CountColumn, Err: err}
		}

		records = append(records, model.IncidentRecord{
			Unit:     raw.Unit,
			Category: raw.Category,
			Count:    count,
		})
	}

	if dropped > 0 {
		zap.L().Debug("dropped total rows",
			zap.String("component", "incident.loader"),
			zap.String("path", path),
			zap.Int("dropped", dropped),
		)
	}
	return records, nil
}

// mapHeader renames the configured columns to rawRow's tags. Other columns
// get placeholder names so the decoder ignores them.
func mapHeader(path string, header []string, opts Options) ([]string, error) {
	want := map[string]string{
		strings.ToLower(strings.TrimSpace(opts.UnitColumn)):     "unit",
		strings.ToLower(strings.TrimSpace(opts.CategoryColumn)): "category",
		strings.ToLower(strings.TrimSpace(opts.CountColumn)):    "count",
	}

	mapped := make([]string, len(header))
	found := make(map[string]bool, len(want))
	for i, h := range header {
		tag, ok := want[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))]
		if ok && !found[tag] {
			mapped[i] = tag
			found[tag] = true
			continue
		}
		mapped[i] = "_col" + strconv.Itoa(i)
	}

	for _, col := range []struct{ name, tag string }{
		{opts.UnitColumn, "unit"},
		{opts.CategoryColumn, "category"},
		{opts.CountColumn, "count"},
	} {
		if !found[col.tag] {
			return nil, model.NewParseError(path, 1, col.name, "required column missing")
		}
	}
	return mapped, nil
}

// parseCount accepts non-negative integers, including integral floats such
// as "12.0" that spreadsheet exports produce.
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, eris.New("empty count")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, eris.Errorf("count %q is not an integer", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, eris.Errorf("count %d is negative", n)
	}
	return n, nil
}

func wrapRead(path string, row int, err error) error {
	var pe *model.ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &model.ParseError{Path: path, Row: row, Err: err}
}
