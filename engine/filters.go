package engine

import (
	"strings"

	"github.com/spektr-org/claimlens/logger"
)

// ============================================================================
// FILTERS — Categorical Equality + Date Range via RecordView
// ============================================================================
// Single-pass filter: checks ALL active constraints per record in one loop,
// so the order in which constraints were added never matters.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

type equalityConstraint struct {
	column Column
	value  string
}

// ApplyFilters returns the ordered subset of records satisfying every active
// constraint of the selection.
//
// A categorical constraint matches when the trimmed cell text equals the
// constraint value exactly (case-sensitive). The date constraint matches when
// the incident date falls within the inclusive day range. Equality
// constraints on non-categorical columns, and constraints on columns absent
// from the view's ColumnSet, are ignored. An inverted date range yields an
// empty view.
func ApplyFilters(view RecordView, sel FilterSelection) RecordView {
	if sel.IsEmpty() {
		return view
	}

	cols := view.Columns()

	constraints := make([]equalityConstraint, 0, len(sel.Equals))
	for col, value := range sel.Equals {
		if !col.IsFilterable() {
			logger.Debug("🔧 Filter on non-categorical column %q ignored", col)
			continue
		}
		if !cols.Has(col) {
			logger.Debug("🔧 Filter on absent column %q ignored", col)
			continue
		}
		constraints = append(constraints, equalityConstraint{column: col, value: value})
	}

	var dates *DateRange
	if sel.Dates != nil && cols.Has(ColIncidentDate) {
		if sel.Dates.Inverted() {
			return newSubView(view, []int{})
		}
		dates = sel.Dates
	}

	if len(constraints) == 0 && dates == nil {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		rec := view.Record(i)
		if matches(rec, constraints, dates) {
			indices = append(indices, i)
		}
	}

	logger.Debug("🔧 Filtered %d → %d records", n, len(indices))
	return newSubView(view, indices)
}

func matches(rec Record, constraints []equalityConstraint, dates *DateRange) bool {
	for _, c := range constraints {
		raw, ok := rec.Value(c.column)
		if !ok || strings.TrimSpace(raw) != c.value {
			return false
		}
	}
	if dates != nil {
		if !rec.HasDate() || !dates.Contains(rec.IncidentDate) {
			return false
		}
	}
	return true
}

// SelectionFromChoices converts UI-style choices into a FilterSelection.
// A choice equal to allLabel (or empty) leaves its column unconstrained.
func SelectionFromChoices(choices map[Column]string, allLabel string) FilterSelection {
	sel := FilterSelection{}
	for col, choice := range choices {
		if choice == "" || choice == allLabel {
			continue
		}
		sel = sel.With(col, choice)
	}
	return sel
}
