package engine

import (
	"sort"
	"strings"
	"time"
)

// ============================================================================
// TIME SERIES — Monthly history per status
// ============================================================================
// Records are counted per (calendar month of incident date, status). The
// CLOSED and ACTIVE series are then split out; each keeps only the months in
// which its status occurs. Months are never zero-filled, so a series does not
// show a point where there was no data.
// ============================================================================

type monthStatus struct {
	month time.Time
	label string
}

// MonthlyByStatus builds the monthly series of a view. It needs both the
// incident date and the status columns; otherwise the result is empty.
// Records without a parseable date or without a status are skipped.
func MonthlyByStatus(view RecordView) MonthlySeries {
	out := MonthlySeries{
		Pairs:  []MonthStatusCount{},
		Closed: []SeriesPoint{},
		Active: []SeriesPoint{},
	}

	cols := view.Columns()
	if !cols.Has(ColIncidentDate) || !cols.Has(ColStatus) {
		return out
	}

	pairs := make(map[monthStatus]int)
	closed := make(map[time.Time]int)
	active := make(map[time.Time]int)

	for i := 0; i < view.Len(); i++ {
		rec := view.Record(i)
		raw, ok := rec.Value(ColStatus)
		if !ok || !rec.HasDate() {
			continue
		}
		month := monthStart(rec.IncidentDate)

		label := strings.ToUpper(strings.TrimSpace(raw))
		switch rec.Status {
		case StatusClosed:
			label = LabelClosed
			closed[month]++
		case StatusActive:
			label = LabelActive
			active[month]++
		}
		pairs[monthStatus{month: month, label: label}]++
	}

	for k, c := range pairs {
		out.Pairs = append(out.Pairs, MonthStatusCount{Month: k.month, Status: k.label, Count: c})
	}
	sort.Slice(out.Pairs, func(i, j int) bool {
		if !out.Pairs[i].Month.Equal(out.Pairs[j].Month) {
			return out.Pairs[i].Month.Before(out.Pairs[j].Month)
		}
		return out.Pairs[i].Status < out.Pairs[j].Status
	})

	out.Closed = toSeries(closed)
	out.Active = toSeries(active)
	return out
}

func toSeries(counts map[time.Time]int) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(counts))
	for m, c := range counts {
		points = append(points, SeriesPoint{Month: m, Count: c})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	return points
}

// DateBounds returns the earliest and latest incident dates of a view, as
// calendar days. ok is false when no record has a date.
func DateBounds(view RecordView) (first, last time.Time, ok bool) {
	if !view.Columns().Has(ColIncidentDate) {
		return time.Time{}, time.Time{}, false
	}
	for i := 0; i < view.Len(); i++ {
		rec := view.Record(i)
		if !rec.HasDate() {
			continue
		}
		d := civilDay(rec.IncidentDate)
		if !ok || d.Before(first) {
			first = d
		}
		if !ok || d.After(last) {
			last = d
		}
		ok = true
	}
	return first, last, ok
}
