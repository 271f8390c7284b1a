package helpers

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/spektr-org/claimlens/engine"
	"github.com/spektr-org/claimlens/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV bytes into an engine.Store
// ============================================================================
// Comma- and semicolon-separated exports are both accepted; the delimiter is
// picked from the header line. A UTF-8 BOM is ignored.
// ============================================================================

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV parses CSV data into a Store using sch to map headers.
// Malformed CSV (e.g. a bare quote) is reported as ErrDataUnavailable.
func ParseCSV(data []byte, sch schema.Config, opts ...Options) (*engine.Store, error) {
	opt := Options{}
	if len(opts) > 0 {
		opt = opts[0]
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, unavailable("csv", fmt.Errorf("failed to parse CSV: %w", err))
	}
	if len(all) == 0 {
		return nil, unavailable("csv", fmt.Errorf("CSV is empty"))
	}

	return BuildStore("csv", all[0], all[1:], sch, opt, nil)
}

// detectDelimiter picks ';' when the first line has more semicolons than
// commas.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
