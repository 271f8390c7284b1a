package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/spektr-org/claimlens/engine"
)

// ============================================================================
// HEADER RESOLUTION — raw headers → engine columns
// ============================================================================
// Pipeline:
//   1. Normalize every header (accents folded, punctuation → space, upper)
//   2. Match against each column's header and aliases
//   3. Report unknown and duplicate headers as skipped
//   4. Report known columns the file does not provide as missing
//   5. Profile sample values of mapped columns against their kind
// ============================================================================

// SkippedColumn records why a header was not mapped to a column.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"` // Can be mapped by overriding the header in config
}

// Mapping is the result of resolving a header row.
type Mapping struct {
	Index   map[engine.Column]int `json:"index"`
	Skipped []SkippedColumn       `json:"skipped,omitempty"`
	Missing []engine.Column       `json:"missing,omitempty"`
}

// Resolve maps header cells to column keys. The first header matching a
// column wins; later ones are skipped as duplicates.
func Resolve(cfg Config, headers []string) Mapping {
	lookup := make(map[string]engine.Column)
	for _, m := range cfg.Columns {
		for _, h := range append([]string{m.Header}, m.Aliases...) {
			if n := NormalizeHeader(h); n != "" {
				if _, taken := lookup[n]; !taken {
					lookup[n] = m.Key
				}
			}
		}
	}

	mp := Mapping{Index: make(map[engine.Column]int)}
	for i, h := range headers {
		key, ok := lookup[NormalizeHeader(h)]
		switch {
		case strings.TrimSpace(h) == "":
			mp.Skipped = append(mp.Skipped, SkippedColumn{
				Column: fmt.Sprintf("#%d", i+1),
				Reason: "Empty header",
			})
		case !ok:
			mp.Skipped = append(mp.Skipped, SkippedColumn{
				Column:      h,
				Reason:      "Unknown header",
				Recoverable: true,
			})
		default:
			if _, dup := mp.Index[key]; dup {
				mp.Skipped = append(mp.Skipped, SkippedColumn{
					Column: h,
					Reason: fmt.Sprintf("Duplicate header for %s", key),
				})
				continue
			}
			mp.Index[key] = i
		}
	}

	for _, m := range cfg.Columns {
		if _, ok := mp.Index[m.Key]; !ok {
			mp.Missing = append(mp.Missing, m.Key)
		}
	}
	return mp
}

// Columns returns the capability set of the mapped columns.
func (m Mapping) Columns() engine.ColumnSet {
	return engine.NewColumnSet(lo.Keys(m.Index)...)
}

// Cells extracts the mapped cells of a data row. Short rows simply lack the
// trailing cells.
func (m Mapping) Cells(row []string) map[engine.Column]string {
	cells := make(map[engine.Column]string, len(m.Index))
	for col, idx := range m.Index {
		if idx < len(row) {
			cells[col] = row[idx]
		}
	}
	return cells
}

// SkippedHeaders returns the header text of every skipped column.
func (m Mapping) SkippedHeaders() []string {
	return lo.Map(m.Skipped, func(s SkippedColumn, _ int) string { return s.Column })
}

// ============================================================================
// PROFILING — Sample values vs. declared kind
// ============================================================================

// Profile inspects up to sampleSize rows and returns a warning for every
// mapped date or numeric column whose values mostly do not look like its
// kind. allowSerial accepts numeric date cells (spreadsheet serials).
func Profile(cfg Config, m Mapping, rows [][]string, sampleSize int, allowSerial bool) []string {
	if sampleSize <= 0 || sampleSize > len(rows) {
		sampleSize = len(rows)
	}

	var warnings []string
	for _, meta := range cfg.Columns {
		idx, ok := m.Index[meta.Key]
		if !ok || meta.Kind == KindCategorical {
			continue
		}

		values := make([]string, 0, sampleSize)
		for _, row := range rows[:sampleSize] {
			if idx >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[idx]); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: all sampled values are empty", meta.Key))
			continue
		}

		got := detectType(values, cfg.DateLayouts, allowSerial)
		want := typeNumeric
		if meta.Kind == KindDate {
			want = typeDate
		}
		if got != want && !(want == typeDate && got == typeNumeric && allowSerial) {
			warnings = append(warnings, fmt.Sprintf("%s: expected %s values, sampled values look like %s",
				meta.Key, meta.Kind, got))
		}
	}
	return warnings
}

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
)

func (t columnType) String() string {
	switch t {
	case typeNumeric:
		return "numeric"
	case typeDate:
		return "date"
	default:
		return "text"
	}
}

// detectType inspects values to determine column type.
// Requires 80%+ of non-null values to match for numeric/date.
func detectType(values []string, layouts []string, allowSerial bool) columnType {
	if len(values) == 0 {
		return typeString
	}

	numCount := 0
	dateCount := 0
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isDate(v, layouts) {
			dateCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if threshold < 1 {
		threshold = 1
	}

	if dateCount >= threshold {
		return typeDate
	}
	if numCount >= threshold {
		return typeNumeric
	}
	return typeString
}

func isNumeric(s string) bool {
	_, ok := engine.ParseDays(s)
	if ok {
		return true
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	return err == nil
}

func isDate(s string, layouts []string) bool {
	s = strings.TrimSpace(s)
	if len(layouts) == 0 {
		layouts = engine.DefaultDateLayouts
	}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader folds a header for comparison:
// "Canales de  Atención" and "CANALES DE ATENCION" compare equal, and
// "TIEMPO DE RESPUESTA(DIAS)" equals "Tiempo de respuesta (días)".
func NormalizeHeader(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}
	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

// toDisplayName cleans a header for human display.
// "ESTADO FINAL" → "Estado Final", "patient_id" → "Patient Id"
func toDisplayName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}
