package helpers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spektr-org/claimlens/engine"
	"github.com/spektr-org/claimlens/logger"
	"github.com/spektr-org/claimlens/schema"
)

// ============================================================================
// LOADER — Reads a claims file once into an immutable engine.Store
// ============================================================================
// Consumer points at a file (CSV or XLSX). The loader resolves headers via
// the schema, coerces every row, and returns the Store plus a LoadReport.
// Every fatal condition is detected here, before any filtering happens.
// ============================================================================

// ErrDataUnavailable is returned (wrapped) when the source is missing,
// unreadable, or malformed. Test with errors.Is.
var ErrDataUnavailable = errors.New("data unavailable")

// Options controls loading.
type Options struct {
	Sheet      string // XLSX sheet name (empty = first sheet)
	SampleSize int    // Rows profiled for kind mismatches (0 = 1000)
}

// LoadFile reads a claims file. The format is chosen by extension:
// .csv/.txt are parsed as CSV, .xlsx/.xlsm as workbooks.
func LoadFile(path string, sch schema.Config, opts ...Options) (*engine.Store, error) {
	opt := Options{}
	if len(opts) > 0 {
		opt = opts[0]
	}

	if _, err := os.Stat(path); err != nil {
		return nil, unavailable(path, err)
	}

	start := time.Now()
	var store *engine.Store
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, unavailable(path, readErr)
		}
		store, err = ParseCSV(data, sch, opt)
	case ".xlsx", ".xlsm":
		store, err = ParseXLSXFile(path, sch, opt)
	default:
		return nil, unavailable(path, fmt.Errorf("unsupported file type %q", ext))
	}
	if err != nil {
		return nil, err
	}

	logger.Info("📋 Loaded %d records from %s in %s (columns: %v)", store.Len(), filepath.Base(path), time.Since(start).Round(time.Millisecond), store.Columns().Keys())
	return store, nil
}

// BuildStore turns a header row and data rows into a Store.
// source labels the LoadReport; serialDate (optional) converts numeric date
// cells.
func BuildStore(source string, headers []string, rows [][]string, sch schema.Config, opt Options, serialDate func(float64) (time.Time, bool)) (*engine.Store, error) {
	if len(headers) == 0 || allBlank(headers) {
		return nil, unavailable(source, errors.New("no header row"))
	}

	mapping := schema.Resolve(sch, headers)
	for _, s := range mapping.Skipped {
		logger.Warn("⚠️ %s: column %q skipped: %s", source, s.Column, s.Reason)
	}
	if len(mapping.Missing) > 0 {
		logger.Info("🔍 %s: columns not present, dependent features disabled: %v", source, mapping.Missing)
	}

	sample := opt.SampleSize
	if sample <= 0 {
		sample = 1000
	}
	for _, w := range schema.Profile(sch, mapping, rows, sample, serialDate != nil) {
		logger.Warn("⚠️ %s: %s", source, w)
	}

	parser := sch.Parser()
	parser.SerialDate = serialDate

	report := engine.LoadReport{
		Source:         source,
		MissingColumns: mapping.Missing,
		UnknownHeaders: mapping.SkippedHeaders(),
	}

	records := make([]engine.Record, 0, len(rows))
	for i, row := range rows {
		if allBlank(row) {
			report.SkippedRows++
			continue
		}
		// +2: one for the header, one for 1-based row numbers.
		rec, failures := parser.Parse(i+2, mapping.Cells(row))
		for _, f := range failures {
			logger.Debug("⚠️ %s: %v", source, f)
		}
		report.Failures = append(report.Failures, failures...)
		records = append(records, rec)
	}

	if n := len(report.Failures); n > 0 {
		logger.Warn("⚠️ %s: %d cells could not be coerced and were treated as missing", source, n)
	}

	return engine.NewStore(records, mapping.Columns(), report), nil
}

func unavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, source, err)
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
