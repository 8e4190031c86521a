package extractors

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FlowerFish/PDF-Exactor/pkg/pdf"
)

// Page is the text and tables found on one page
type Page struct {
	Number int // 1-based
	Text   string
	Tables []pdf.Table
}

// HasText reports whether the page produced any text
func (p Page) HasText() bool {
	return p.Text != ""
}

// TextExtractor turns a PDF into per-page text and tables
type TextExtractor struct {
	backend   pdf.Backend
	textOpts  []pdf.TextExtractionOption
	tableOpts []pdf.TableExtractionOption
	logger    logrus.FieldLogger
}

// TextOption configures a TextExtractor
type TextOption func(*TextExtractor)

// WithBackend pins the parser instead of trying each in turn
func WithBackend(backend pdf.Backend) TextOption {
	return func(e *TextExtractor) {
		e.backend = backend
	}
}

// WithTextOptions sets the options used for plain text layout
func WithTextOptions(opts ...pdf.TextExtractionOption) TextOption {
	return func(e *TextExtractor) {
		e.textOpts = append(e.textOpts, opts...)
	}
}

// WithTableOptions sets the options used for table detection
func WithTableOptions(opts ...pdf.TableExtractionOption) TextOption {
	return func(e *TextExtractor) {
		e.tableOpts = append(e.tableOpts, opts...)
	}
}

// WithLogger sets the logger for a TextExtractor
func WithLogger(logger logrus.FieldLogger) TextOption {
	return func(e *TextExtractor) {
		e.logger = logger
	}
}

// NewTextExtractor creates a text extractor using the backend fallback chain
func NewTextExtractor(opts ...TextOption) *TextExtractor {
	e := &TextExtractor{
		backend: pdf.BackendAuto,
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads every page of the document in order. Any failure to open or
// parse the document aborts the whole run; a failure while detecting tables
// on one page only drops that page's tables.
func (e *TextExtractor) Extract(data []byte) ([]Page, error) {
	if err := checkHeader(data); err != nil {
		return nil, newExtractionError(OpText, "", err)
	}

	var doc pdf.Document
	err := guard(func() error {
		var err error
		doc, err = pdf.OpenBytes(data, e.backend)
		return err
	})
	if err != nil {
		return nil, newExtractionError(OpText, string(e.backend), err)
	}
	defer doc.Close()

	log := e.logger.WithFields(logrus.Fields{"op": OpText, "backend": doc.Backend()})
	tableOpts := append([]pdf.TableExtractionOption{pdf.WithTableLogger(log)}, e.tableOpts...)

	pages := make([]Page, 0, doc.PageCount())
	err = guard(func() error {
		for i, page := range doc.GetPages() {
			p := Page{
				Number: i + 1,
				Text:   page.ExtractText(e.textOpts...),
				Tables: e.pageTables(log, page, i+1, tableOpts),
			}
			log.WithFields(logrus.Fields{
				"page":   p.Number,
				"chars":  len(p.Text),
				"tables": len(p.Tables),
			}).Debug("extracted page")
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, newExtractionError(OpText, string(doc.Backend()), errors.WithMessage(err, "failed to read pages"))
	}

	log.WithField("pages", len(pages)).Info("text extraction finished")
	return pages, nil
}

// pageTables runs table detection on one page, logging and discarding a panic
func (e *TextExtractor) pageTables(log logrus.FieldLogger, page pdf.Page, number int, opts []pdf.TableExtractionOption) (tables []pdf.Table) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"page":  number,
				"error": fmt.Sprint(r),
			}).Warn("table extraction failed, page kept without tables")
			tables = nil
		}
	}()
	return page.ExtractTables(opts...)
}
