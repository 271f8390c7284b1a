package engine

import (
	"time"
)

// --- Test Fixtures ---

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// claim builds a record from raw cells the way the loader does.
func claim(status, channel, docType string, date time.Time, days string) Record {
	cells := map[Column]string{
		ColStatus:       status,
		ColChannel:      channel,
		ColDocumentType: docType,
		ColResponseDays: days,
	}
	if !date.IsZero() {
		cells[ColIncidentDate] = date.Format("2006-01-02")
	}
	rec, _ := NewRecordParser().Parse(0, cells)
	return rec
}

func allColumns() ColumnSet {
	return NewColumnSet(AllColumns...)
}

// claimsStore is a small dataset covering both statuses, three channels,
// missing values, and three months with a gap in February for ACTIVA.
func claimsStore() *Store {
	records := []Record{
		claim("CERRADA", "Web", "DNI", day(2024, 1, 5), "2"),
		claim("ACTIVA", "Presencial", "DNI", day(2024, 1, 20), "5"),
		claim("CERRADA", "Web", "CE", day(2024, 2, 10), "15"),
		claim(" CERRADA ", "Teléfono", "DNI", day(2024, 3, 1), "16"),
		claim("ACTIVA", "Web", "PASAPORTE", day(2024, 3, 15), ""),
		claim("EN REVISION", "", "DNI", time.Time{}, "3"),
	}
	return NewStore(records, allColumns(), LoadReport{Source: "test"})
}
