package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/spektr-org/claimlens/engine"
	"github.com/spektr-org/claimlens/schema"
)

// Config represents the complete application configuration
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatasetConfig describes the claims file and how to read it
type DatasetConfig struct {
	Path        string            `mapstructure:"path"`
	Sheet       string            `mapstructure:"sheet"`
	Headers     map[string]string `mapstructure:"headers"`
	DateLayouts []string          `mapstructure:"date_layouts"`
	Status      StatusConfig      `mapstructure:"status"`
	SampleSize  int               `mapstructure:"sample_size"`
}

// StatusConfig lists the raw labels of each normalized status
type StatusConfig struct {
	Closed []string `mapstructure:"closed"`
	Active []string `mapstructure:"active"`
}

// DashboardConfig holds aggregation settings
type DashboardConfig struct {
	AllLabel         string `mapstructure:"all_label"`
	HistogramBins    int    `mapstructure:"histogram_bins"`
	DefaultDateRange bool   `mapstructure:"default_date_range"`
}

// OutputConfig holds output rendering settings
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// An empty path skips the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// CLAIMLENS_DATASET_PATH overrides dataset.path
	v.SetEnvPrefix("CLAIMLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Dataset defaults
	v.SetDefault("dataset.path", "./data/reclamos.xlsx")
	v.SetDefault("dataset.sheet", "")
	v.SetDefault("dataset.date_layouts", engine.DefaultDateLayouts)
	v.SetDefault("dataset.status.closed", []string{engine.LabelClosed})
	v.SetDefault("dataset.status.active", []string{engine.LabelActive})
	v.SetDefault("dataset.sample_size", 1000)

	// Dashboard defaults
	v.SetDefault("dashboard.all_label", engine.DefaultAllLabel)
	v.SetDefault("dashboard.histogram_bins", 20)
	v.SetDefault("dashboard.default_date_range", false)

	// Output defaults
	v.SetDefault("output.format", "pretty")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Dataset config
	if strings.TrimSpace(c.Dataset.Path) == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if len(c.Dataset.Status.Closed) == 0 {
		return fmt.Errorf("dataset.status.closed must contain at least one label")
	}
	if len(c.Dataset.Status.Active) == 0 {
		return fmt.Errorf("dataset.status.active must contain at least one label")
	}
	for key := range c.Dataset.Headers {
		if !isKnownColumn(key) {
			return fmt.Errorf("dataset.headers: unknown column %q", key)
		}
	}

	// Validate Dashboard config
	if c.Dashboard.HistogramBins < 1 {
		return fmt.Errorf("dashboard.histogram_bins must be at least 1")
	}
	if strings.TrimSpace(c.Dashboard.AllLabel) == "" {
		return fmt.Errorf("dashboard.all_label is required")
	}

	// Validate Output config
	validOutputs := map[string]bool{"json": true, "pretty": true, "yaml": true, "csv": true, "text": true}
	if !validOutputs[c.Output.Format] {
		return fmt.Errorf("output.format must be one of: json, pretty, yaml, csv, text")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Schema builds the dataset schema from the configured headers, labels, and
// date layouts.
func (c *Config) Schema() schema.Config {
	sch := schema.Default().WithHeaders(c.Dataset.Headers)
	sch.StatusLabels = engine.StatusLabels{
		Closed: upperAll(c.Dataset.Status.Closed),
		Active: upperAll(c.Dataset.Status.Active),
	}
	if len(c.Dataset.DateLayouts) > 0 {
		sch.DateLayouts = c.Dataset.DateLayouts
	}
	return sch
}

// DashboardOptions converts the dashboard section into engine options.
func (c *Config) DashboardOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithAllLabel(c.Dashboard.AllLabel),
		engine.WithHistogramBins(c.Dashboard.HistogramBins),
	}
	if c.Dashboard.DefaultDateRange {
		opts = append(opts, engine.WithDefaultDateRange())
	}
	return opts
}

func isKnownColumn(key string) bool {
	for _, c := range engine.AllColumns {
		if string(c) == key {
			return true
		}
	}
	return false
}

func upperAll(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if s := strings.ToUpper(strings.TrimSpace(l)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
