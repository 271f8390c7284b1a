package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// RECORD PARSER TESTS
// ============================================================================

func TestStatusLabelsParse(t *testing.T) {
	labels := DefaultStatusLabels()

	assert.Equal(t, StatusClosed, labels.Parse("CERRADA"))
	assert.Equal(t, StatusClosed, labels.Parse("  cerrada "))
	assert.Equal(t, StatusActive, labels.Parse("Activa"))
	assert.Equal(t, StatusOther, labels.Parse("EN REVISION"))
	assert.Equal(t, StatusOther, labels.Parse(""))

	custom := StatusLabels{Closed: []string{"CLOSED", "CERRADO"}, Active: []string{"OPEN"}}
	assert.Equal(t, StatusClosed, custom.Parse("cerrado"))
	assert.Equal(t, StatusActive, custom.Parse("open"))
}

func TestRecordParserParse(t *testing.T) {
	p := NewRecordParser()
	rec, failures := p.Parse(2, map[Column]string{
		ColStatus:       " Activa ",
		ColPatientID:    "Ana",
		ColChannel:      "   ",
		ColIncidentDate: "15/03/2024",
		ColResponseDays: "2,5",
	})

	assert.Empty(t, failures)
	assert.Equal(t, StatusActive, rec.Status)
	assert.Equal(t, day(2024, 3, 15), rec.IncidentDate)
	assert.True(t, rec.HasResponse)
	assert.Equal(t, 2.5, rec.ResponseDays)

	// Raw text kept untrimmed; blank cells are missing.
	v, ok := rec.Value(ColStatus)
	assert.True(t, ok)
	assert.Equal(t, " Activa ", v)
	_, ok = rec.Value(ColChannel)
	assert.False(t, ok)
}

func TestRecordParserCoercionFailures(t *testing.T) {
	rec, failures := NewRecordParser().Parse(9, map[Column]string{
		ColStatus:       "CERRADA",
		ColIncidentDate: "ayer",
		ColResponseDays: "NaN",
	})

	require.Len(t, failures, 2)
	assert.Equal(t, CoercionFailure{Row: 9, Column: ColIncidentDate, Value: "ayer"}, failures[0])
	assert.Equal(t, ColResponseDays, failures[1].Column)
	assert.Contains(t, failures[0].Error(), "row 9")

	// The rest of the record survives.
	assert.Equal(t, StatusClosed, rec.Status)
	assert.False(t, rec.HasDate())
	assert.False(t, rec.HasResponse)
}

func TestRecordParserSerialDate(t *testing.T) {
	p := NewRecordParser()
	p.SerialDate = func(f float64) (time.Time, bool) {
		return day(1899, 12, 30).AddDate(0, 0, int(f)), true
	}
	rec, failures := p.Parse(2, map[Column]string{ColIncidentDate: "45292"})

	assert.Empty(t, failures)
	assert.Equal(t, day(2024, 1, 1), rec.IncidentDate)

	_, failures = NewRecordParser().Parse(2, map[Column]string{ColIncidentDate: "45292"})
	assert.Len(t, failures, 1)
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"3", 3, true},
		{" 4.5 ", 4.5, true},
		{"2,5", 2.5, true},
		{"", 0, false},
		{"abc", 0, false},
		{"Inf", 0, false},
		{"1,000.5", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDays(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}

func TestDateRange(t *testing.T) {
	r := NewDateRange(time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC), day(2024, 1, 31))

	assert.True(t, r.Contains(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.True(t, r.Contains(day(2024, 1, 1)))
	assert.False(t, r.Contains(day(2024, 2, 1)))
	assert.False(t, r.Inverted())
	assert.True(t, NewDateRange(day(2024, 2, 1), day(2024, 1, 1)).Inverted())
}

func TestColumnSetKeys(t *testing.T) {
	s := NewColumnSet(ColResponseDays, "zeta", ColStatus)
	assert.Equal(t, []Column{ColStatus, ColResponseDays, "zeta"}, s.Keys())
	assert.True(t, ColChannel.IsFilterable())
	assert.False(t, ColResponseDays.IsFilterable())
}

func TestStoreCopiesInput(t *testing.T) {
	records := []Record{claim("CERRADA", "Web", "DNI", day(2024, 1, 1), "1")}
	store := NewStore(records, allColumns(), LoadReport{Source: "x"})
	records[0] = Record{}

	assert.Equal(t, StatusClosed, store.Record(0).Status)
	assert.Equal(t, 1, store.Report().Rows)
	assert.Equal(t, Record{}, store.Record(5))
}

func TestStoreRecordFieldsAreIsolated(t *testing.T) {
	records := []Record{claim("CERRADA", "Web", "DNI", day(2024, 1, 1), "1")}
	store := NewStore(records, allColumns(), LoadReport{})

	records[0].Fields[ColChannel] = "Fax"
	store.Record(0).Fields[ColChannel] = "MUTATED"
	ApplyFilters(store, FilterSelection{}.With(ColStatus, "CERRADA")).Record(0).Fields[ColStatus] = "ACTIVA"

	v, _ := store.Record(0).Value(ColChannel)
	assert.Equal(t, "Web", v)
	v, _ = store.Record(0).Value(ColStatus)
	assert.Equal(t, "CERRADA", v)
}
