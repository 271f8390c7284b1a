package engine

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// ============================================================================
// CLAIMLENS ENGINE TYPES — Claim Records, Selections, Aggregates
// ============================================================================
// Record      — one claim row (raw cell text + coerced status/date/days)
// ColumnSet   — capability set resolved once at load time
// Selection   — categorical equality constraints + optional date range
// KPISnapshot — scalar summary of a filtered view
// Distribution / ValueCount / HistogramBin / MonthlySeries — chart inputs
// ============================================================================

// ============================================================================
// COLUMNS
// ============================================================================

// Column identifies a logical claim field, independent of the header text
// used by the source spreadsheet.
type Column string

const (
	ColStatus       Column = "status"
	ColDocumentID   Column = "document_id"
	ColDocumentType Column = "document_type"
	ColPatientID    Column = "patient_id"
	ColChannel      Column = "channel"
	ColIncidentDate Column = "incident_date"
	ColResponseDays Column = "response_days"
)

// AllColumns lists every known column in display order.
var AllColumns = []Column{
	ColStatus,
	ColDocumentID,
	ColDocumentType,
	ColPatientID,
	ColChannel,
	ColIncidentDate,
	ColResponseDays,
}

// FilterableColumns are the categorical columns offered as equality filters.
var FilterableColumns = []Column{
	ColStatus,
	ColDocumentID,
	ColPatientID,
	ColChannel,
	ColDocumentType,
}

// IsFilterable reports whether c accepts an equality constraint.
func (c Column) IsFilterable() bool {
	for _, f := range FilterableColumns {
		if f == c {
			return true
		}
	}
	return false
}

// ColumnSet is the set of columns present in a loaded dataset.
// Filters and aggregates consult it instead of probing records.
type ColumnSet map[Column]struct{}

// NewColumnSet builds a ColumnSet from the given columns.
func NewColumnSet(cols ...Column) ColumnSet {
	s := make(ColumnSet, len(cols))
	for _, c := range cols {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether column c is available.
func (s ColumnSet) Has(c Column) bool {
	_, ok := s[c]
	return ok
}

// Keys returns the available columns in AllColumns order, followed by any
// unknown columns sorted by name.
func (s ColumnSet) Keys() []Column {
	keys := make([]Column, 0, len(s))
	known := make(map[Column]bool, len(AllColumns))
	for _, c := range AllColumns {
		known[c] = true
		if s.Has(c) {
			keys = append(keys, c)
		}
	}
	var extra []Column
	for c := range s {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(keys, extra...)
}

// ============================================================================
// STATUS — closed taxonomy with an explicit "other" variant
// ============================================================================

// Status is the normalized final state of a claim.
type Status int

const (
	StatusOther Status = iota
	StatusClosed
	StatusActive
)

// Canonical dataset labels.
const (
	LabelClosed = "CERRADA"
	LabelActive = "ACTIVA"
)

// String returns the canonical dataset label, or "OTHER".
func (s Status) String() string {
	switch s {
	case StatusClosed:
		return LabelClosed
	case StatusActive:
		return LabelActive
	default:
		return "OTHER"
	}
}

// ============================================================================
// RECORD
// ============================================================================

// Record is one claim. Fields holds the raw (untrimmed) cell text of every
// non-missing column; the typed fields are coerced once at ingestion.
type Record struct {
	Fields       map[Column]string `json:"fields"`
	Status       Status            `json:"status"`
	IncidentDate time.Time         `json:"incidentDate"`
	ResponseDays float64           `json:"responseDays"`
	HasResponse  bool              `json:"hasResponse"`
}

// Value returns the raw cell text for column c.
func (r Record) Value(c Column) (string, bool) {
	v, ok := r.Fields[c]
	return v, ok
}

// clone returns r with its own copy of Fields.
func (r Record) clone() Record {
	if r.Fields != nil {
		r.Fields = lo.Assign(r.Fields)
	}
	return r
}

// HasDate reports whether the incident date was present and parseable.
func (r Record) HasDate() bool {
	return !r.IncidentDate.IsZero()
}

// ============================================================================
// FILTER SELECTION
// ============================================================================

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a DateRange truncated to day granularity.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: civilDay(start), End: civilDay(end)}
}

// Inverted reports whether Start falls after End.
func (r DateRange) Inverted() bool {
	return civilDay(r.Start).After(civilDay(r.End))
}

// Contains reports whether t falls on a day within [Start, End].
func (r DateRange) Contains(t time.Time) bool {
	d := civilDay(t)
	return !d.Before(civilDay(r.Start)) && !d.After(civilDay(r.End))
}

// FilterSelection narrows a view. A missing key in Equals, or a nil Dates,
// means "no constraint" for that field.
type FilterSelection struct {
	Equals map[Column]string `json:"equals,omitempty"`
	Dates  *DateRange        `json:"dates,omitempty"`
}

// IsEmpty returns true if no constraint is set.
func (s FilterSelection) IsEmpty() bool {
	return len(s.Equals) == 0 && s.Dates == nil
}

// With returns a copy of s with an equality constraint on column c.
func (s FilterSelection) With(c Column, value string) FilterSelection {
	eq := make(map[Column]string, len(s.Equals)+1)
	for k, v := range s.Equals {
		eq[k] = v
	}
	eq[c] = value
	return FilterSelection{Equals: eq, Dates: s.Dates}
}

// Between returns a copy of s constrained to the inclusive day range.
func (s FilterSelection) Between(start, end time.Time) FilterSelection {
	r := NewDateRange(start, end)
	out := FilterSelection{Dates: &r}
	if len(s.Equals) > 0 {
		out.Equals = make(map[Column]string, len(s.Equals))
		for k, v := range s.Equals {
			out.Equals[k] = v
		}
	}
	return out
}

// ============================================================================
// KPI
// ============================================================================

// KPISnapshot is the scalar summary of a filtered view.
type KPISnapshot struct {
	Total           int     `json:"total" yaml:"total"`
	Closed          int     `json:"closed" yaml:"closed"`
	Active          int     `json:"active" yaml:"active"`
	ClosedPct       float64 `json:"closedPct" yaml:"closedPct"`
	ActivePct       float64 `json:"activePct" yaml:"activePct"`
	AvgResponseDays float64 `json:"avgResponseDays" yaml:"avgResponseDays"`
}

// ============================================================================
// DISTRIBUTIONS
// ============================================================================

// Distribution maps a discrete key to the number of records carrying it.
// Keys with zero records are never present.
type Distribution map[string]int

// Count is one entry of a Distribution.
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Total sums all counts.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

// Sorted returns the entries by descending count, ties broken by key.
func (d Distribution) Sorted() []Count {
	out := make([]Count, 0, len(d))
	for k, c := range d {
		out = append(out, Count{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// ValueCount is the frequency of one exact response-time value.
type ValueCount struct {
	Value float64 `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
}

// HistogramBin is one equal-width bin of the response-time histogram.
// Every bin is [Lower, Upper) except the last, which is closed.
type HistogramBin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// Response-time bucket labels.
const (
	BucketFast   = "<4 days"
	BucketMedium = "4-15 days"
	BucketSlow   = ">15 days"
)

// BucketOrder is the presentation order of the response-time buckets.
var BucketOrder = []string{BucketFast, BucketMedium, BucketSlow}

// ============================================================================
// TIME SERIES
// ============================================================================

// SeriesPoint is the count for one calendar month (first day, UTC).
type SeriesPoint struct {
	Month time.Time `json:"month" yaml:"month"`
	Count int       `json:"count" yaml:"count"`
}

// Label formats the month as "2006-01".
func (p SeriesPoint) Label() string {
	return p.Month.Format("2006-01")
}

// MonthStatusCount is the count for one (month, status) pair.
type MonthStatusCount struct {
	Month  time.Time `json:"month" yaml:"month"`
	Status string    `json:"status" yaml:"status"`
	Count  int       `json:"count" yaml:"count"`
}

// MonthlySeries holds the per-status monthly history.
// Closed and Active only contain months with at least one occurrence.
type MonthlySeries struct {
	Pairs  []MonthStatusCount `json:"pairs" yaml:"pairs"`
	Closed []SeriesPoint      `json:"closed" yaml:"closed"`
	Active []SeriesPoint      `json:"active" yaml:"active"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ID         string        `json:"id" yaml:"id"`
	ChartType  string        `json:"chartType" yaml:"chartType"`
	Title      string        `json:"title" yaml:"title"`
	XAxis      string        `json:"xAxis,omitempty" yaml:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty" yaml:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series" yaml:"series"`
	Colors     []string      `json:"colors,omitempty" yaml:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend" yaml:"showLegend"`
	ShowGrid   bool          `json:"showGrid" yaml:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name" yaml:"name"`
	Data  []ChartPoint `json:"data" yaml:"data"`
	Color string       `json:"color,omitempty" yaml:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []TableCol `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
	Summary *Summary   `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// TableCol defines a table column.
type TableCol struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"`   // "text", "number", "percent"
	Align string `json:"align" yaml:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label" yaml:"label"`
	Values map[string]string `json:"values" yaml:"values"`
}

// civilDay truncates t to midnight UTC of its calendar day.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthStart truncates t to the first day of its calendar month, UTC.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
