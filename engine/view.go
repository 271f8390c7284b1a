package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine reads claims through this interface and never mutates them.
//
// Implementations:
//   Store    — the loaded dataset (process-scoped, immutable)
//   SubView  — filtered subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed, read-only access to claim records.
type RecordView interface {
	Len() int
	Record(index int) Record
	Columns() ColumnSet
}

// ============================================================================
// STORE — the loaded dataset
// ============================================================================

// LoadReport describes what happened while a dataset was loaded.
type LoadReport struct {
	Source         string            `json:"source" yaml:"source"`
	Rows           int               `json:"rows" yaml:"rows"`
	SkippedRows    int               `json:"skippedRows" yaml:"skippedRows"`
	MissingColumns []Column          `json:"missingColumns,omitempty" yaml:"missingColumns,omitempty"`
	UnknownHeaders []string          `json:"unknownHeaders,omitempty" yaml:"unknownHeaders,omitempty"`
	Failures       []CoercionFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Store is the immutable in-memory claim table. Build it once per process
// (or per test) and pass it by reference to every component.
type Store struct {
	records []Record
	columns ColumnSet
	report  LoadReport
}

// NewStore wraps records and the set of columns the source provided.
// Records are deep-copied; callers may reuse theirs.
func NewStore(records []Record, columns ColumnSet, report LoadReport) *Store {
	recs := make([]Record, len(records))
	for i, r := range records {
		recs[i] = r.clone()
	}
	cols := make(ColumnSet, len(columns))
	for c := range columns {
		cols[c] = struct{}{}
	}
	report.Rows = len(recs)
	return &Store{records: recs, columns: cols, report: report}
}

func (s *Store) Len() int { return len(s.records) }

func (s *Store) Record(i int) Record {
	if i < 0 || i >= len(s.records) {
		return Record{}
	}
	return s.records[i].clone()
}

func (s *Store) Columns() ColumnSet { return s.columns }

// Report returns the load diagnostics.
func (s *Store) Report() LoadReport { return s.report }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is an ordered subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Record(i int) Record {
	if i < 0 || i >= len(v.indices) {
		return Record{}
	}
	return v.parent.Record(v.indices[i])
}

func (v *SubView) Columns() ColumnSet { return v.parent.Columns() }

// Records materializes a view into a new slice.
func Records(view RecordView) []Record {
	out := make([]Record, view.Len())
	for i := range out {
		out[i] = view.Record(i)
	}
	return out
}
