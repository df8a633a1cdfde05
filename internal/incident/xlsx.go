package incident

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/crime-map/internal/model"
)

func loadXLSX(path string, opts Options) ([]model.IncidentRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &model.ParseError{Path: path, Err: eris.Wrap(err, "xlsx: open file")}
	}

	sheet, err := getSheet(f, opts.Sheet)
	if err != nil {
		return nil, &model.ParseError{Path: path, Err: err}
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return decode(path, &sliceReader{path: path, rows: rows}, opts)
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = strings.TrimSpace(cell.String())
	}
	return cells
}

// sliceReader replays in-memory rows. Rows are padded to the header width;
// spreadsheets drop trailing empty cells.
type sliceReader struct {
	path  string
	rows  [][]string
	next  int
	width int
}

func (s *sliceReader) Read() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++

	if s.next == 1 {
		row = trimTrailingEmpty(row)
		s.width = len(row)
		return row, nil
	}

	if len(row) > s.width {
		extra := trimTrailingEmpty(row[s.width:])
		if len(extra) > 0 {
			return nil, model.NewParseError(s.path, s.next, "", "row has more cells than the header")
		}
		row = row[:s.width]
	}
	for len(row) < s.width {
		row = append(row, "")
	}
	return row, nil
}

func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}
