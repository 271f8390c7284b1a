package helpers

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/claimlens/engine"
	"github.com/spektr-org/claimlens/schema"
)

// ============================================================================
// XLSX HELPER — Parses a workbook sheet into an engine.Store
// ============================================================================
// Cells are read raw, so dates arrive as spreadsheet serial numbers and are
// converted with excelize.ExcelDateToTime.
// ============================================================================

// ParseXLSXFile opens a workbook from disk and parses one sheet.
func ParseXLSXFile(path string, sch schema.Config, opts ...Options) (*engine.Store, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, unavailable(path, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()
	return parseWorkbook(path, f, sch, opts...)
}

// ParseXLSX parses a workbook held in memory.
func ParseXLSX(data []byte, sch schema.Config, opts ...Options) (*engine.Store, error) {
	return ParseXLSXReader(bytes.NewReader(data), sch, opts...)
}

// ParseXLSXReader parses a workbook from a reader.
func ParseXLSXReader(r io.Reader, sch schema.Config, opts ...Options) (*engine.Store, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, unavailable("xlsx", fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()
	return parseWorkbook("xlsx", f, sch, opts...)
}

func parseWorkbook(source string, f *excelize.File, sch schema.Config, opts ...Options) (*engine.Store, error) {
	opt := Options{}
	if len(opts) > 0 {
		opt = opts[0]
	}

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, unavailable(source, fmt.Errorf("workbook has no sheets"))
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, unavailable(source, fmt.Errorf("sheet %q not found", sheet))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, unavailable(source, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 {
		return nil, unavailable(source, fmt.Errorf("sheet %q is empty", sheet))
	}

	return BuildStore(source+":"+sheet, rows[0], rows[1:], sch, opt, excelSerialDate)
}

// excelSerialDate converts a 1900-system spreadsheet serial to a time.
func excelSerialDate(serial float64) (time.Time, bool) {
	if serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
