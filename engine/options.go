package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for BuildDashboard()
// ============================================================================

// Option configures dashboard behavior via functional options pattern.
type Option func(*config)

type config struct {
	AllLabel         string
	HistogramBins    int
	DefaultDateRange bool
}

// WithAllLabel sets the sentinel placed first in every catalog option list.
func WithAllLabel(label string) Option {
	return func(c *config) {
		c.AllLabel = label
	}
}

// WithHistogramBins sets the number of response-time histogram bins.
func WithHistogramBins(bins int) Option {
	return func(c *config) {
		if bins > 0 {
			c.HistogramBins = bins
		}
	}
}

// WithDefaultDateRange makes a selection without a date constraint use the
// dataset's full [first, last] incident-date span, so records without a
// date are left out, as the date picker of the dashboard does.
func WithDefaultDateRange() Option {
	return func(c *config) {
		c.DefaultDateRange = true
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		AllLabel:      DefaultAllLabel,
		HistogramBins: 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
