package pdf

import (
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// Table detection strategies
const (
	StrategyLines = "lines"
	StrategyText  = "text"
)

// TextExtractionOption is a function that modifies text extraction behavior
type TextExtractionOption func(*textExtractionConfig)

type textExtractionConfig struct {
	XTolerance  float64
	YTolerance  float64
	UnicodeNorm string
}

func newTextExtractionConfig(opts []TextExtractionOption) *textExtractionConfig {
	config := &textExtractionConfig{
		XTolerance: 3.0,
		YTolerance: 3.0,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// normalize applies the configured Unicode normalization form
func (c *textExtractionConfig) normalize(s string) string {
	switch c.UnicodeNorm {
	case "NFC":
		return norm.NFC.String(s)
	case "NFD":
		return norm.NFD.String(s)
	case "NFKC":
		return norm.NFKC.String(s)
	case "NFKD":
		return norm.NFKD.String(s)
	}
	return s
}

// WithXTolerance sets the horizontal tolerance for text grouping
func WithXTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.XTolerance = tolerance
	}
}

// WithYTolerance sets the vertical tolerance for text grouping
func WithYTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.YTolerance = tolerance
	}
}

// WithUnicodeNorm normalizes extracted text to one of NFC, NFD, NFKC or NFKD.
// An empty form leaves text untouched.
func WithUnicodeNorm(form string) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.UnicodeNorm = form
	}
}

// IsUnicodeNorm reports whether form is accepted by WithUnicodeNorm
func IsUnicodeNorm(form string) bool {
	switch form {
	case "", "NFC", "NFD", "NFKC", "NFKD":
		return true
	}
	return false
}

// WordExtractionOption is a function that modifies word extraction behavior
type WordExtractionOption func(*wordExtractionConfig)

type wordExtractionConfig struct {
	XTolerance float64
	YTolerance float64
}

// WithWordTolerance sets both tolerances used to split words
func WithWordTolerance(x, y float64) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.XTolerance = x
		c.YTolerance = y
	}
}

// TableExtractionOption is a function that modifies table extraction behavior
type TableExtractionOption func(*tableExtractionConfig)

type tableExtractionConfig struct {
	VerticalStrategy   string
	HorizontalStrategy string
	MinTableSize       int
	TextTolerance      float64
	SnapTolerance      float64
	Logger             logrus.FieldLogger
}

func newTableExtractionConfig(opts []TableExtractionOption) *tableExtractionConfig {
	// Ruling lines on both axes unless a text strategy is asked for
	config := &tableExtractionConfig{
		VerticalStrategy:   StrategyLines,
		HorizontalStrategy: StrategyLines,
		MinTableSize:       1,
		TextTolerance:      3.0,
		SnapTolerance:      3.0,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.Logger == nil {
		config.Logger = discardLogger()
	}
	return config
}

// WithTableStrategy sets the vertical and horizontal detection strategies
func WithTableStrategy(vertical, horizontal string) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.VerticalStrategy = vertical
		c.HorizontalStrategy = horizontal
	}
}

// WithMinTableSize drops tables with fewer rows than size
func WithMinTableSize(size int) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.MinTableSize = size
	}
}

// WithTextTolerance sets the tolerance used when assembling cell text
func WithTextTolerance(tolerance float64) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.TextTolerance = tolerance
	}
}

// WithSnapTolerance sets how far apart two rulings may be and still be
// treated as the same grid line
func WithSnapTolerance(tolerance float64) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.SnapTolerance = tolerance
	}
}

// WithTableLogger routes table detection diagnostics to logger at debug level
func WithTableLogger(logger logrus.FieldLogger) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.Logger = logger
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
