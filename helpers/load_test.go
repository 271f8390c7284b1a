package helpers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/claimlens/engine"
	"github.com/spektr-org/claimlens/schema"
)

// ============================================================================
// LOADER TESTS
// ============================================================================

var claimsCSV = []byte(`ESTADO FINAL,DOCUMENTO,TIPO DE DOCUMENTO,PACIENTE,CANALES DE ATENCIÓN,FECHA DEL INCIDENTE,TIEMPO DE RESPUESTA(DIAS)
CERRADA,12345678,DNI,Ana Torres,Presencial,2024-01-10,3
ACTIVA,87654321,DNI,Luis Rojas,Web,2024-01-22,
 cerrada ,11112222,CE,Marta Díaz,Teléfono,2024-02-03,15
ACTIVA,33334444,DNI,Pedro Gil,Web,2024-03-14,pendiente
,,,,,,
EN REVISION,55556666,PASAPORTE,Rosa Vega,Presencial,no-date,16
`)

func TestParseCSV(t *testing.T) {
	store, err := ParseCSV(claimsCSV, schema.Default())
	require.NoError(t, err)

	assert.Equal(t, 5, store.Len())
	for _, c := range engine.AllColumns {
		assert.True(t, store.Columns().Has(c), "column %s", c)
	}

	first := store.Record(0)
	assert.Equal(t, engine.StatusClosed, first.Status)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), first.IncidentDate)
	assert.True(t, first.HasResponse)
	assert.Equal(t, 3.0, first.ResponseDays)

	// Status is normalized for KPIs, raw text kept for categorical use.
	third := store.Record(2)
	assert.Equal(t, engine.StatusClosed, third.Status)
	raw, _ := third.Value(engine.ColStatus)
	assert.Equal(t, " cerrada ", raw)

	// Missing and non-numeric response times are not valid values.
	assert.False(t, store.Record(1).HasResponse)
	assert.False(t, store.Record(3).HasResponse)

	last := store.Record(4)
	assert.Equal(t, engine.StatusOther, last.Status)
	assert.False(t, last.HasDate())

	report := store.Report()
	assert.Equal(t, 5, report.Rows)
	assert.Equal(t, 1, report.SkippedRows)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, engine.ColResponseDays, report.Failures[0].Column)
	assert.Equal(t, 5, report.Failures[0].Row)
	assert.Equal(t, engine.ColIncidentDate, report.Failures[1].Column)
}

func TestParseCSVSemicolonAndBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("ESTADO FINAL;CANALES DE ATENCIÓN;TIEMPO DE RESPUESTA(DIAS)\nCERRADA;Web;2,5\nACTIVA;Presencial;4\n")...)

	store, err := ParseCSV(data, schema.Default())
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	assert.True(t, store.Columns().Has(engine.ColStatus))
	assert.False(t, store.Columns().Has(engine.ColIncidentDate))
	assert.Equal(t, 2.5, store.Record(0).ResponseDays)
	assert.Contains(t, store.Report().MissingColumns, engine.ColIncidentDate)
}

func TestParseCSVMissingColumnsLoads(t *testing.T) {
	store, err := ParseCSV([]byte("PACIENTE,OBSERVACIONES\nAna,ok\n"), schema.Default())
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.True(t, store.Columns().Has(engine.ColPatientID))
	assert.False(t, store.Columns().Has(engine.ColStatus))
	assert.Equal(t, []string{"OBSERVACIONES"}, store.Report().UnknownHeaders)
}

func TestParseCSVMalformed(t *testing.T) {
	_, err := ParseCSV([]byte("ESTADO FINAL,PACIENTE\n\"CERRADA,Ana\n"), schema.Default())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))

	_, err = ParseCSV([]byte(""), schema.Default())
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.xlsx"), schema.Default())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := LoadFile(path, schema.Default())
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestLoadFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.csv")
	require.NoError(t, os.WriteFile(path, claimsCSV, 0o644))

	store, err := LoadFile(path, schema.Default())
	require.NoError(t, err)
	assert.Equal(t, 5, store.Len())
}

// ============================================================================
// XLSX TESTS
// ============================================================================

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	return f
}

var workbookRows = [][]interface{}{
	{"ESTADO FINAL", "PACIENTE", "CANALES DE ATENCIÓN", "FECHA DEL INCIDENTE", "TIEMPO DE RESPUESTA(DIAS)"},
	{"CERRADA", "Ana", "Web", 45292, 2},         // 2024-01-01
	{"ACTIVA", "Luis", "Presencial", 45352, 20}, // 2024-03-01
}

func TestParseXLSXSerialDates(t *testing.T) {
	f := writeWorkbook(t, "Sheet1", workbookRows)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	store, err := ParseXLSX(buf.Bytes(), schema.Default())
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), store.Record(0).IncidentDate)
	assert.Equal(t, time.March, store.Record(1).IncidentDate.Month())
	assert.Equal(t, 20.0, store.Record(1).ResponseDays)
	assert.Empty(t, store.Report().Failures)
}

func TestLoadFileXLSXNamedSheet(t *testing.T) {
	f := writeWorkbook(t, "Reclamos", workbookRows)
	path := filepath.Join(t.TempDir(), "jair.xlsx")
	require.NoError(t, f.SaveAs(path))

	store, err := LoadFile(path, schema.Default(), Options{Sheet: "Reclamos"})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	_, err = LoadFile(path, schema.Default(), Options{Sheet: "Missing"})
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestParseXLSXGarbage(t *testing.T) {
	_, err := ParseXLSX([]byte("not a workbook"), schema.Default())
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}
