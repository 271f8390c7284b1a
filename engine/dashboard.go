package engine

import (
	"fmt"

	"github.com/spektr-org/claimlens/logger"
)

// ============================================================================
// DASHBOARD — Composes every output for one filter selection
// ============================================================================
// Entry point: BuildDashboard(store, selection, opts...)
//
// Pipeline:
//   1. Catalog from the full store (filter options never shrink);
//      selected values it does not offer are reported in Warnings
//   2. Apply selection → SubView
//   3. KPI snapshot
//   4. Distributions: status, channel, document type, response buckets
//   5. Response-time frequency + histogram
//   6. Monthly CLOSED / ACTIVE series
//
// Each output is computed in isolation: a panic in one is recovered and
// reported in Dashboard.Errors, and the others are still produced.
// ============================================================================

// Dashboard is everything a rendering layer needs for one selection.
type Dashboard struct {
	Selection          FilterSelection `json:"selection" yaml:"selection"`
	DateBounds         *DateRange      `json:"dateBounds,omitempty" yaml:"dateBounds,omitempty"`
	KPI                KPISnapshot     `json:"kpi" yaml:"kpi"`
	StatusCounts       Distribution    `json:"statusCounts" yaml:"statusCounts"`
	ChannelCounts      Distribution    `json:"channelCounts" yaml:"channelCounts"`
	DocumentTypeCounts Distribution    `json:"documentTypeCounts" yaml:"documentTypeCounts"`
	ResponseFrequency  []ValueCount    `json:"responseFrequency" yaml:"responseFrequency"`
	ResponseBuckets    Distribution    `json:"responseBuckets" yaml:"responseBuckets"`
	ResponseHistogram  []HistogramBin  `json:"responseHistogram" yaml:"responseHistogram"`
	Monthly            MonthlySeries   `json:"monthly" yaml:"monthly"`
	Catalog            Catalog         `json:"catalog" yaml:"catalog"`
	Warnings           []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors             []string        `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// BuildDashboard computes every dashboard output for a selection.
func BuildDashboard(store RecordView, sel FilterSelection, opts ...Option) *Dashboard {
	cfg := applyOptions(opts)
	d := &Dashboard{Selection: sel}

	d.run("catalog", func() { d.Catalog = BuildCatalog(store, cfg.AllLabel) })
	d.checkSelection(store.Columns(), sel)

	if first, last, ok := DateBounds(store); ok {
		bounds := NewDateRange(first, last)
		d.DateBounds = &bounds
		if cfg.DefaultDateRange && sel.Dates == nil {
			sel = sel.Between(first, last)
			d.Selection = sel
		}
	}

	view := ApplyFilters(store, sel)
	logger.Info("📊 Dashboard: %d of %d records selected", view.Len(), store.Len())

	d.run("kpi", func() { d.KPI = Summarize(view) })
	d.run("status", func() { d.StatusCounts = CountBy(view, ColStatus) })
	d.run("channel", func() { d.ChannelCounts = CountBy(view, ColChannel) })
	d.run("document_type", func() { d.DocumentTypeCounts = CountBy(view, ColDocumentType) })
	d.run("response_frequency", func() { d.ResponseFrequency = ResponseTimeFrequency(view) })
	d.run("response_buckets", func() { d.ResponseBuckets = ResponseTimeBuckets(view) })
	d.run("response_histogram", func() { d.ResponseHistogram = Histogram(ResponseTimes(view), cfg.HistogramBins) })
	d.run("monthly", func() { d.Monthly = MonthlyByStatus(view) })

	return d
}

// checkSelection records a warning for every equality constraint on a
// present column whose value the catalog does not offer. The constraint is
// still applied and selects nothing.
func (d *Dashboard) checkSelection(cols ColumnSet, sel FilterSelection) {
	for _, col := range FilterableColumns {
		value, ok := sel.Equals[col]
		if !ok || !cols.Has(col) || d.Catalog == nil || d.Catalog.Offers(col, value) {
			continue
		}
		msg := fmt.Sprintf("%s: %q is not a value of the dataset", col, value)
		logger.Warn("⚠️ Selection: %s", msg)
		d.Warnings = append(d.Warnings, msg)
	}
}

// run executes one output builder, converting a panic into a recorded error.
func (d *Dashboard) run(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%s: %v", name, r)
			logger.Error("❌ Dashboard output failed: %s", msg)
			d.Errors = append(d.Errors, msg)
		}
	}()
	fn()
}
