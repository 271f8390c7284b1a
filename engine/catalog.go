package engine

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ============================================================================
// FILTER CATALOG — Selectable values per filterable column
// ============================================================================

// DefaultAllLabel is the sentinel offered before the real values.
const DefaultAllLabel = "Todos"

// DistinctValues returns the sorted, de-duplicated, trimmed values of a
// column. Missing values are dropped. An absent column yields an empty slice.
func DistinctValues(view RecordView, column Column) []string {
	if !view.Columns().Has(column) {
		return []string{}
	}

	values := make([]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		raw, ok := view.Record(i).Value(column)
		if !ok {
			continue
		}
		if v := strings.TrimSpace(raw); v != "" {
			values = append(values, v)
		}
	}

	values = lo.Uniq(values)
	sort.Strings(values)
	return values
}

// Catalog maps each filterable column to its option list, "All" first.
type Catalog map[Column][]string

// BuildCatalog computes the option list of every filterable column.
// Absent columns still get an entry holding only the sentinel.
func BuildCatalog(view RecordView, allLabel string) Catalog {
	if allLabel == "" {
		allLabel = DefaultAllLabel
	}
	cat := make(Catalog, len(FilterableColumns))
	for _, col := range FilterableColumns {
		cat[col] = append([]string{allLabel}, DistinctValues(view, col)...)
	}
	return cat
}

// Offers reports whether value is a real (non-sentinel) option for column.
func (c Catalog) Offers(column Column, value string) bool {
	opts, ok := c[column]
	if !ok || len(opts) < 2 {
		return false
	}
	return lo.Contains(opts[1:], value)
}
