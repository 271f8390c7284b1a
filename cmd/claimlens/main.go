package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/claimlens/config"
	"github.com/spektr-org/claimlens/engine"
	"github.com/spektr-org/claimlens/helpers"
	"github.com/spektr-org/claimlens/logger"
)

// ============================================================================
// CLAIMLENS CLI — Claims dashboard from a spreadsheet export
// ============================================================================

const version = "0.1.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "Path to YAML config file")
	filePath := flag.String("file", "", "Path to claims file (.xlsx or .csv); overrides dataset.path")
	sheet := flag.String("sheet", "", "Workbook sheet name (default: first sheet)")
	status := flag.String("status", "", "Filter by final status")
	document := flag.String("document", "", "Filter by document number")
	patient := flag.String("patient", "", "Filter by patient")
	channel := flag.String("channel", "", "Filter by attention channel")
	docType := flag.String("doc-type", "", "Filter by document type")
	from := flag.String("from", "", "First incident date, YYYY-MM-DD (inclusive)")
	to := flag.String("to", "", "Last incident date, YYYY-MM-DD (inclusive)")
	selectionPath := flag.String("selection", "", "Path to a YAML/JSON selection file; flags override its values")
	catalog := flag.Bool("catalog", false, "Print the filter options of every column and exit")
	format := flag.String("format", "", "Output format: json, pretty, yaml, csv, text (default: output.format)")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `ClaimLens — Claims dashboard from a spreadsheet export

Usage:
  claimlens --file reclamos.xlsx --format pretty
  claimlens --file reclamos.xlsx --status CERRADA --from 2024-01-01 --to 2024-06-30 --format text
  claimlens --file reclamos.csv --channel Web --format csv --out dashboard.csv
  claimlens --config claimlens.yaml --selection filtros.yaml --format yaml
  claimlens --file reclamos.xlsx --catalog

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  CLAIMLENS_DATASET_PATH, CLAIMLENS_LOGGING_LEVEL, ...   Override any config key

Formats:
  json      Full JSON output
  pretty    Pretty-printed JSON (default)
  yaml      Full YAML output
  csv       KPI, distribution and chart tables as CSV blocks (ready for Sheets/Excel)
  text      Human-readable summary only
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("claimlens %s\n", version)
		os.Exit(0)
	}

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	if *filePath != "" {
		cfg.Dataset.Path = *filePath
	}
	if *sheet != "" {
		cfg.Dataset.Sheet = *sheet
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	// ── Selection ─────────────────────────────────────────────────────────
	doc := engine.SelectionDoc{}
	if *selectionPath != "" {
		data, err := os.ReadFile(*selectionPath)
		if err != nil {
			fatalf("Failed to read selection file: %v", err)
		}
		if doc, err = engine.DecodeSelection(data); err != nil {
			fatalf("Invalid selection file: %v", err)
		}
	}
	doc = doc.Merge(engine.SelectionDoc{
		Status:       *status,
		Document:     *document,
		Patient:      *patient,
		Channel:      *channel,
		DocumentType: *docType,
		From:         *from,
		To:           *to,
	})

	sel, err := doc.Selection(cfg.Dashboard.AllLabel)
	if err != nil {
		fatalf("Invalid selection: %v", err)
	}

	// ── Output writer ─────────────────────────────────────────────────────
	var writer io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}

	// ── Load data (once) ──────────────────────────────────────────────────
	store, err := helpers.LoadFile(cfg.Dataset.Path, cfg.Schema(), helpers.Options{
		Sheet:      cfg.Dataset.Sheet,
		SampleSize: cfg.Dataset.SampleSize,
	})
	if err != nil {
		fatalf("Failed to load claims: %v", err)
	}

	// ── Catalog mode ──────────────────────────────────────────────────────
	if *catalog {
		writeCatalog(writer, engine.BuildCatalog(store, cfg.Dashboard.AllLabel), cfg.Output.Format)
		if *outFile != "" {
			logger.Info("📄 Catalog written to %s", *outFile)
		}
		return
	}

	// ── Dashboard ─────────────────────────────────────────────────────────
	dash := engine.BuildDashboard(store, sel, cfg.DashboardOptions()...)
	for _, e := range dash.Errors {
		logger.Warn("⚠️ Output unavailable: %s", e)
	}
	charts := engine.BuildCharts(dash)

	// ── Render output ─────────────────────────────────────────────────────
	switch cfg.Output.Format {
	case "csv":
		writeCSV(writer, dash, charts)
	case "text":
		text := engine.BuildText(dash)
		fmt.Fprintln(writer, text.String())
		fmt.Fprintf(writer, "Período: %s\n", text.Period)
	default:
		out := cliOutput{
			RunID:     uuid.NewString(),
			Report:    store.Report(),
			Dashboard: dash,
			Charts:    charts,
			Text:      engine.BuildText(dash),
		}
		writeStructured(writer, out, cfg.Output.Format)
	}
	if *outFile != "" {
		logger.Info("📄 Dashboard written to %s", *outFile)
	}
}

// ============================================================================
// OUTPUT TYPES
// ============================================================================

type cliOutput struct {
	RunID     string               `json:"runId" yaml:"runId"`
	Report    engine.LoadReport    `json:"report" yaml:"report"`
	Dashboard *engine.Dashboard    `json:"dashboard" yaml:"dashboard"`
	Charts    []engine.ChartConfig `json:"charts" yaml:"charts"`
	Text      *engine.TextData     `json:"text" yaml:"text"`
}

// ============================================================================
// CSV OUTPUT — One block per dashboard table
// ============================================================================

func writeCSV(w io.Writer, dash *engine.Dashboard, charts []engine.ChartConfig) {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, table := range engine.BuildTables(dash, charts) {
		if i > 0 {
			cw.Write(nil)
		}
		writeTableCSV(cw, table)
	}
}

func writeTableCSV(cw *csv.Writer, table *engine.TableData) {
	cw.Write([]string{table.Title})
	headers := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		headers = append(headers, c.Label)
	}
	cw.Write(headers)
	for _, row := range table.Rows {
		cw.Write(row)
	}
}

// ============================================================================
// CATALOG OUTPUT
// ============================================================================

func writeCatalog(w io.Writer, cat engine.Catalog, format string) {
	switch format {
	case "text", "csv":
		cols := make([]string, 0, len(cat))
		for c := range cat {
			cols = append(cols, string(c))
		}
		sort.Strings(cols)
		for _, c := range cols {
			fmt.Fprintf(w, "%s: %s\n", c, strings.Join(cat[engine.Column(c)], ", "))
		}
	default:
		writeStructured(w, cat, format)
	}
}

// ============================================================================
// JSON / YAML OUTPUT
// ============================================================================

func writeStructured(w io.Writer, v interface{}, format string) {
	var out []byte
	var err error

	switch format {
	case "yaml":
		out, err = yaml.Marshal(v)
	case "pretty":
		out, err = json.MarshalIndent(v, "", "  ")
	default:
		out, err = json.Marshal(v)
	}

	if err != nil {
		fatalf("Failed to marshal output: %v", err)
	}
	fmt.Fprintln(w, strings.TrimRight(string(out), "\n"))
}

// ============================================================================
// HELPERS
// ============================================================================

func fatalf(format string, args ...interface{}) {
	logger.Fatal("❌ "+format, args...)
}
