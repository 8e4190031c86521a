// Package config loads the YAML configuration shared by the session and the
// command line tools.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/FlowerFish/PDF-Exactor/pkg/pdf"
)

// Config is the complete configuration
type Config struct {
	Text   TextConfig  `yaml:"text"`
	Tables TableConfig `yaml:"tables"`
	Images ImageConfig `yaml:"images"`
	Log    LogConfig   `yaml:"log"`
}

// TextConfig controls plain text extraction
type TextConfig struct {
	Backend     string  `yaml:"backend"`
	XTolerance  float64 `yaml:"x_tolerance"`
	YTolerance  float64 `yaml:"y_tolerance"`
	UnicodeNorm string  `yaml:"unicode_norm"`
}

// TableConfig controls table detection
type TableConfig struct {
	Strategy      string  `yaml:"strategy"`
	MinRows       int     `yaml:"min_rows"`
	TextTolerance float64 `yaml:"text_tolerance"`
	SnapTolerance float64 `yaml:"snap_tolerance"`
}

// ImageConfig controls image extraction
type ImageConfig struct {
	// KeepPreviousOnError keeps the last successful extraction when a new
	// one fails instead of clearing it
	KeepPreviousOnError bool `yaml:"keep_previous_on_error"`
	FormDepth           int  `yaml:"form_depth"`
}

// LogConfig selects the log level and output format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Text: TextConfig{
			Backend:    string(pdf.BackendAuto),
			XTolerance: 3,
			YTolerance: 3,
		},
		Tables: TableConfig{
			Strategy:      pdf.StrategyLines,
			MinRows:       1,
			TextTolerance: 3,
			SnapTolerance: 3,
		},
		Images: ImageConfig{
			FormDepth: 8,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// WithDefaults fills the settings that have no meaningful zero value. A
// zero Config becomes Default(); otherwise zero tolerances and a zero form
// depth are kept as given.
func (c Config) WithDefaults() Config {
	def := Default()
	if c == (Config{}) {
		return def
	}
	if c.Text.Backend == "" {
		c.Text.Backend = def.Text.Backend
	}
	if c.Tables.Strategy == "" {
		c.Tables.Strategy = def.Tables.Strategy
	}
	if c.Tables.MinRows < 1 {
		c.Tables.MinRows = def.Tables.MinRows
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	return c
}

// Load reads and validates a configuration file. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML on top of the defaults
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value for consistency
func (c Config) Validate() error {
	if _, err := pdf.ParseBackend(c.Text.Backend); err != nil {
		return fmt.Errorf("text.backend: %w", err)
	}
	if c.Text.XTolerance < 0 || c.Text.YTolerance < 0 {
		return fmt.Errorf("text tolerances must not be negative")
	}
	if !pdf.IsUnicodeNorm(c.Text.UnicodeNorm) {
		return fmt.Errorf("text.unicode_norm: unknown form %q", c.Text.UnicodeNorm)
	}

	switch c.Tables.Strategy {
	case pdf.StrategyLines, pdf.StrategyText:
	default:
		return fmt.Errorf("tables.strategy: unknown strategy %q", c.Tables.Strategy)
	}
	if c.Tables.MinRows < 1 {
		return fmt.Errorf("tables.min_rows must be at least 1, got %d", c.Tables.MinRows)
	}
	if c.Tables.TextTolerance < 0 || c.Tables.SnapTolerance < 0 {
		return fmt.Errorf("table tolerances must not be negative")
	}

	if c.Images.FormDepth < 0 {
		return fmt.Errorf("images.form_depth must not be negative, got %d", c.Images.FormDepth)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// Backend returns the configured text backend
func (c Config) Backend() pdf.Backend {
	b, err := pdf.ParseBackend(c.Text.Backend)
	if err != nil {
		return pdf.BackendAuto
	}
	return b
}

// TextOptions converts the text section into extraction options
func (c Config) TextOptions() []pdf.TextExtractionOption {
	opts := []pdf.TextExtractionOption{
		pdf.WithXTolerance(c.Text.XTolerance),
		pdf.WithYTolerance(c.Text.YTolerance),
	}
	if c.Text.UnicodeNorm != "" {
		opts = append(opts, pdf.WithUnicodeNorm(c.Text.UnicodeNorm))
	}
	return opts
}

// TableOptions converts the tables section into extraction options
func (c Config) TableOptions() []pdf.TableExtractionOption {
	return []pdf.TableExtractionOption{
		pdf.WithTableStrategy(c.Tables.Strategy, c.Tables.Strategy),
		pdf.WithMinTableSize(c.Tables.MinRows),
		pdf.WithTextTolerance(c.Tables.TextTolerance),
		pdf.WithSnapTolerance(c.Tables.SnapTolerance),
	}
}

// NewLogger builds a logger writing to w at the configured level and format
func (l LogConfig) NewLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(l.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return logger
}
