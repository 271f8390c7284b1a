package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// RECORD PARSER — Coercion at the ingestion boundary
// ============================================================================
// Raw cells arrive as text. Status is normalized (trim + uppercase) into the
// Status enum, the incident date is parsed against a list of layouts, and the
// response time is coerced to a number. A cell that fails coercion is treated
// as missing for its typed field and reported as a CoercionFailure; the rest
// of the record is kept.
// ============================================================================

// DefaultDateLayouts are tried in order when parsing incident dates.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"2/1/2006",
	"02-01-2006",
}

// StatusLabels lists the raw labels (already uppercase) that map to each
// normalized status.
type StatusLabels struct {
	Closed []string `json:"closed" yaml:"closed"`
	Active []string `json:"active" yaml:"active"`
}

// DefaultStatusLabels returns the dataset's two-value taxonomy.
func DefaultStatusLabels() StatusLabels {
	return StatusLabels{
		Closed: []string{LabelClosed},
		Active: []string{LabelActive},
	}
}

// Parse normalizes a raw status cell.
func (l StatusLabels) Parse(raw string) Status {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return StatusOther
	}
	for _, c := range l.Closed {
		if s == strings.ToUpper(c) {
			return StatusClosed
		}
	}
	for _, a := range l.Active {
		if s == strings.ToUpper(a) {
			return StatusActive
		}
	}
	return StatusOther
}

// CoercionFailure describes a single cell that could not be coerced.
type CoercionFailure struct {
	Row    int    `json:"row"`
	Column Column `json:"column"`
	Value  string `json:"value"`
}

func (f CoercionFailure) Error() string {
	return fmt.Sprintf("row %d: cannot coerce %s value %q", f.Row, f.Column, f.Value)
}

// RecordParser turns raw cells into Records.
type RecordParser struct {
	Labels      StatusLabels
	DateLayouts []string

	// SerialDate converts a numeric date cell (e.g. an Excel serial) when
	// no layout matches. Nil disables numeric dates.
	SerialDate func(serial float64) (time.Time, bool)
}

// NewRecordParser creates a parser with the default labels and layouts.
func NewRecordParser() RecordParser {
	return RecordParser{
		Labels:      DefaultStatusLabels(),
		DateLayouts: DefaultDateLayouts,
	}
}

// Parse builds a Record from raw cells keyed by column. Cells that are empty
// after trimming are treated as missing. row is used only for reporting.
func (p RecordParser) Parse(row int, cells map[Column]string) (Record, []CoercionFailure) {
	rec := Record{Fields: make(map[Column]string, len(cells))}
	var failures []CoercionFailure

	for col, raw := range cells {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		rec.Fields[col] = raw
	}

	if raw, ok := rec.Fields[ColStatus]; ok {
		rec.Status = p.Labels.Parse(raw)
	}

	if raw, ok := rec.Fields[ColIncidentDate]; ok {
		if t, ok := p.parseDate(raw); ok {
			rec.IncidentDate = t
		} else {
			failures = append(failures, CoercionFailure{Row: row, Column: ColIncidentDate, Value: raw})
		}
	}

	if raw, ok := rec.Fields[ColResponseDays]; ok {
		if v, ok := ParseDays(raw); ok {
			rec.ResponseDays = v
			rec.HasResponse = true
		} else {
			failures = append(failures, CoercionFailure{Row: row, Column: ColResponseDays, Value: raw})
		}
	}

	return rec, failures
}

func (p RecordParser) parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	layouts := p.DateLayouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if p.SerialDate != nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return p.SerialDate(f)
		}
	}
	return time.Time{}, false
}

// ParseDays coerces a response-time cell to a finite number.
// A decimal comma ("2,5") is accepted.
func ParseDays(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
