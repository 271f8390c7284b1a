package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER — Plain-text summary of a Dashboard
// ============================================================================

// TextData is the structured form of the text summary.
type TextData struct {
	Headline string   `json:"headline" yaml:"headline"`
	Lines    []string `json:"lines" yaml:"lines"`
	Period   string   `json:"period" yaml:"period"`
	Count    int      `json:"count" yaml:"count"`
}

// BuildText summarizes a dashboard in a few human-readable lines.
func BuildText(d *Dashboard) *TextData {
	if d == nil {
		return &TextData{Headline: "No data available to analyze.", Period: "No data"}
	}

	k := d.KPI
	td := &TextData{
		Count:  k.Total,
		Period: DescribePeriod(d.Selection.Dates, d.DateBounds),
	}
	if k.Total == 0 {
		td.Headline = "No records match the selected filters."
		return td
	}

	td.Headline = fmt.Sprintf("%s casos: %s cerrados (%s), %s activos (%s).",
		FormatInt(k.Total),
		FormatInt(k.Closed), FormatPercent(k.ClosedPct),
		FormatInt(k.Active), FormatPercent(k.ActivePct))

	td.Lines = append(td.Lines,
		fmt.Sprintf("Tiempo promedio de resolución: %s días.", FormatDays(k.AvgResponseDays)))

	if top := topEntry(d.ChannelCounts); top != nil {
		td.Lines = append(td.Lines, fmt.Sprintf("Canal principal: %s (%s).", top.Key, FormatInt(top.Count)))
	}
	if top := topEntry(d.DocumentTypeCounts); top != nil {
		td.Lines = append(td.Lines, fmt.Sprintf("Documento más frecuente: %s (%s).", top.Key, FormatInt(top.Count)))
	}
	if len(d.ResponseBuckets) > 0 {
		parts := make([]string, 0, len(BucketOrder))
		for _, b := range BucketOrder {
			if n, ok := d.ResponseBuckets[b]; ok {
				parts = append(parts, fmt.Sprintf("%s: %d", b, n))
			}
		}
		td.Lines = append(td.Lines, "Grupos de días: "+strings.Join(parts, ", ")+".")
	}
	return td
}

// String joins the headline and lines.
func (t *TextData) String() string {
	return strings.Join(append([]string{t.Headline}, t.Lines...), "\n")
}

// DescribePeriod formats the active date range, falling back to the data's
// own bounds.
func DescribePeriod(sel, bounds *DateRange) string {
	r := sel
	if r == nil {
		r = bounds
	}
	if r == nil {
		return "All dates"
	}
	start, end := r.Start, r.End
	if r == sel && bounds != nil {
		if start.Before(bounds.Start) {
			start = bounds.Start
		}
		if end.After(bounds.End) {
			end = bounds.End
		}
	}
	return start.Format(SelectionDateLayout) + " – " + end.Format(SelectionDateLayout)
}

func topEntry(d Distribution) *Count {
	sorted := d.Sorted()
	if len(sorted) == 0 {
		return nil
	}
	return &sorted[0]
}
