package incident

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/crime-map/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "incidents.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadCSV_Basic(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District,CRIME_TYPE,COUNT\n"+
		"Adilabad,Murder,12\n"+
		"Adilabad,Theft,40\n"+
		"Hyderabad City,Theft,10\n")

	records, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, model.IncidentRecord{Unit: "Adilabad", Category: "Murder", Count: 12}, records[0])
	assert.Equal(t, model.IncidentRecord{Unit: "Hyderabad City", Category: "Theft", Count: 10}, records[2])
}

func TestLoadCSV_DropsTotalRows(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District,CRIME_TYPE,COUNT\n"+
		"Hyderabad City,Theft,10\n"+
		"Hyderabad City,Total,10\n"+
		" total ,Theft,500\n"+
		"TOTAL,Total,510\n")

	records, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Theft", records[0].Category)
	for _, r := range records {
		assert.False(t, IsTotal(r.Unit))
		assert.False(t, IsTotal(r.Category))
	}
}

func TestLoadCSV_TrimsAndQuotes(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District , CRIME_TYPE,COUNT\n"+
		"\"Mahaboob Nagar\",\"Cheating, Fraud\", 7 \n")

	records, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Mahaboob Nagar", records[0].Unit)
	assert.Equal(t, "Cheating, Fraud", records[0].Category)
	assert.Equal(t, 7, records[0].Count)
}

func TestLoadCSV_HeaderCaseInsensitiveAndExtraColumns(t *testing.T) {
	path := writeFile(t, "ipc.csv", "\ufeffYEAR,district,crime_type,count,STATE\n"+
		"2014,Khammam,Riots,3,Telangana\n")

	records, err := Load(path, Options{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.IncidentRecord{Unit: "Khammam", Category: "Riots", Count: 3}, records[0])
}

func TestLoadCSV_CustomColumns(t *testing.T) {
	path := writeFile(t, "ipc.csv", "unit;type;n\nMedak;Dacoity;2\n")

	records, err := Load(path, Options{
		UnitColumn:     "unit",
		CategoryColumn: "type",
		CountColumn:    "n",
		Delimiter:      ';',
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Medak", records[0].Unit)
}

func TestLoadTSV(t *testing.T) {
	path := writeFile(t, "ipc.tsv", "District\tCRIME_TYPE\tCOUNT\nNalgonda\tKidnapping\t9\n")

	records, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 9, records[0].Count)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
	assert.False(t, model.IsParse(err))
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "ipc.parquet", "x")
	_, err := Load(path, DefaultOptions())
	assert.Error(t, err)
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District,COUNT\nMedak,2\n")

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, model.IsParse(err))
	assert.Contains(t, err.Error(), "CRIME_TYPE")
}

func TestLoadCSV_BadCount(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District,CRIME_TYPE,COUNT\nMedak,Theft,2\nMedak,Riots,lots\n")

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, model.IsParse(err))
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), "COUNT")
}

func TestLoadCSV_NegativeCount(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District,CRIME_TYPE,COUNT\nMedak,Theft,-1\n")

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, model.IsParse(err))
}

func TestLoadCSV_EmptyCount(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District,CRIME_TYPE,COUNT\nMedak,Theft,\n")

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, model.IsParse(err))
}

func TestLoadCSV_EmptyUnit(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District,CRIME_TYPE,COUNT\n,Theft,4\n")

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, model.IsParse(err))
}

func TestLoadCSV_WrongFieldCount(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District,CRIME_TYPE,COUNT\nMedak,Theft,4,extra\n")

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, model.IsParse(err))
}

func TestLoadCSV_EmptyFile(t *testing.T) {
	path := writeFile(t, "ipc.csv", "")

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, model.IsParse(err))
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	path := writeFile(t, "ipc.csv", "District,CRIME_TYPE,COUNT\n")

	records, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadXLSX_Basic(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"IPC": {
			{"District", "CRIME_TYPE", "COUNT"},
			{"Warangal", "Assault", "5"},
			{"Warangal", "Burglary", "5.0"},
			{"Warangal", "Total", "10"},
			{},
		},
	})

	records, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.IncidentRecord{Unit: "Warangal", Category: "Assault", Count: 5}, records[0])
	assert.Equal(t, 5, records[1].Count)
}

func TestLoadXLSX_NamedSheet(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Notes": {{"nothing here"}},
		"Data": {
			{"District", "CRIME_TYPE", "COUNT"},
			{"Medak", "Theft"},
		},
	})

	_, err := Load(path, Options{Sheet: "Data"})
	// Short row is padded, so the missing count is a parse error rather than a width error.
	require.Error(t, err)
	assert.True(t, model.IsParse(err))
	assert.Contains(t, err.Error(), "empty count")
}

func TestLoadXLSX_MissingSheet(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Data": {{"District", "CRIME_TYPE", "COUNT"}},
	})

	_, err := Load(path, Options{Sheet: "Other"})
	require.Error(t, err)
	assert.True(t, model.IsParse(err))
}

func TestParseCount(t *testing.T) {
	n, err := parseCount("42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = parseCount("3.0")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"", "3.5", "abc", "-2", "NaN", "Inf"} {
		_, err := parseCount(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsTotal(t *testing.T) {
	assert.True(t, IsTotal("Total"))
	assert.True(t, IsTotal("  TOTAL "))
	assert.False(t, IsTotal("Total Crimes"))
	assert.False(t, IsTotal(""))
}
