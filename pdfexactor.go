// Package pdfexactor converts PDF text and tables to plain text and extracts
// embedded images for selective download
package pdfexactor

import (
	"github.com/sirupsen/logrus"

	"github.com/FlowerFish/PDF-Exactor/pkg/config"
	"github.com/FlowerFish/PDF-Exactor/pkg/export"
	"github.com/FlowerFish/PDF-Exactor/pkg/extractors"
	"github.com/FlowerFish/PDF-Exactor/pkg/pdf"
	"github.com/FlowerFish/PDF-Exactor/pkg/session"
)

// Re-export types from the sub packages for the public API
type (
	Document              = pdf.Document
	Page                  = pdf.Page
	Backend               = pdf.Backend
	Table                 = pdf.Table
	Cell                  = pdf.Cell
	BoundingBox           = pdf.BoundingBox
	Objects               = pdf.Objects
	CharObject            = pdf.CharObject
	LineObject            = pdf.LineObject
	RectObject            = pdf.RectObject
	CurveObject           = pdf.CurveObject
	Word                  = pdf.Word
	TableExtractionOption = pdf.TableExtractionOption
	TextExtractionOption  = pdf.TextExtractionOption

	Config          = config.Config
	Session         = session.Session
	Download        = export.Download
	ImageRecord     = extractors.ImageRecord
	Preview         = extractors.Preview
	ExtractionError = extractors.ExtractionError
)

// Parser backends
const (
	BackendAuto       = pdf.BackendAuto
	BackendLedongthuc = pdf.BackendLedongthuc
	BackendDslipak    = pdf.BackendDslipak
	BackendPDFCPU     = pdf.BackendPDFCPU
)

// Re-export option functions
var (
	WithTableStrategy = pdf.WithTableStrategy
	WithMinTableSize  = pdf.WithMinTableSize
	WithTextTolerance = pdf.WithTextTolerance
	WithSnapTolerance = pdf.WithSnapTolerance
	WithXTolerance    = pdf.WithXTolerance
	WithYTolerance    = pdf.WithYTolerance
	WithUnicodeNorm   = pdf.WithUnicodeNorm
)

// Errors callers are expected to check
var (
	ErrNotPDF          = extractors.ErrNotPDF
	ErrNothingSelected = session.ErrNothingSelected
	ErrNoImages        = session.ErrNoImages
)

// Open opens a PDF file, trying the ledongthuc, dslipak and pdfcpu parsers in
// that order
func Open(filepath string) (Document, error) {
	return pdf.Open(filepath)
}

// OpenBytes opens an in-memory PDF with the given backend
func OpenBytes(data []byte, backend Backend) (Document, error) {
	return pdf.OpenBytes(data, backend)
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads a YAML configuration file
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// NewSession starts an empty session. A zero Config means the defaults and a
// nil logger discards all output.
func NewSession(cfg Config, logger logrus.FieldLogger) *Session {
	return session.New(cfg, logger)
}
