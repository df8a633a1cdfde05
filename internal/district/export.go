package district

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SummaryRow is one line of the exported district table.
type SummaryRow struct {
	Key              string `csv:"key" json:"key" yaml:"key"`
	DisplayName      string `csv:"display_name" json:"display_name" yaml:"display_name"`
	TotalCount       int    `csv:"total_count" json:"total_count" yaml:"total_count"`
	TopCategory      string `csv:"top_category" json:"top_category" yaml:"top_category"`
	TopCategoryCount int    `csv:"top_category_count" json:"top_category_count" yaml:"top_category_count"`
	Matched          bool   `csv:"matched" json:"matched" yaml:"matched"`
}

// Rows flattens the joined districts in polygon order. Districts without
// data have zero counts and Matched false.
func (r JoinResult) Rows() []SummaryRow {
	rows := make([]SummaryRow, 0, len(r.Districts))
	for _, d := range r.Districts {
		row := SummaryRow{Key: string(d.Key), DisplayName: d.DisplayName}
		if s := d.Summary; s != nil {
			row.TotalCount = s.TotalCount
			row.TopCategory = s.TopCategory
			row.TopCategoryCount = s.TopCategoryCount
			row.Matched = true
		}
		rows = append(rows, row)
	}
	return rows
}

// Export writes the district table to path. The encoding follows the
// extension: .csv, .json, .yaml or .yml.
func Export(path string, r JoinResult) error {
	rows := r.Rows()

	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		data, err = csvutil.Marshal(rows)
	case ".json":
		data, err = json.MarshalIndent(rows, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(rows)
	default:
		return eris.Errorf("district: unsupported summary format %q", ext)
	}
	if err != nil {
		return eris.Wrap(err, "district: encode summary")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "district: create summary dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "district: write summary")
	}

	zap.L().Debug("summary exported",
		zap.String("component", "district.export"),
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return nil
}
