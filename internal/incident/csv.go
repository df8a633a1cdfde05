package incident

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crime-map/internal/model"
)

func loadCSV(path string, opts Options) ([]model.IncidentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "incident: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = 0 // every record must match the header width

	return decode(path, &trimReader{r: reader}, opts)
}

// trimReader trims every field of the wrapped csv.Reader.
type trimReader struct {
	r *csv.Reader
}

func (t *trimReader) Read() ([]string, error) {
	record, err := t.r.Read()
	if err != nil {
		return nil, err
	}
	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}
	return record, nil
}
