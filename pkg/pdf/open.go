package pdf

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Backend names a PDF parsing library
type Backend string

const (
	BackendAuto       Backend = "auto"
	BackendLedongthuc Backend = "ledongthuc"
	BackendDslipak    Backend = "dslipak"
	BackendPDFCPU     Backend = "pdfcpu"
)

// autoOrder is the order BackendAuto tries parsers in. ledongthuc gives the
// most accurate glyph positions, pdfcpu is the most tolerant reader. Only the
// pdfcpu content parser sees stroked paths and Form XObjects, so documents
// opened by the other two take their graphics from it.
var autoOrder = []Backend{BackendLedongthuc, BackendDslipak, BackendPDFCPU}

// ParseBackend converts a configuration value into a Backend
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendAuto, nil
	case BackendAuto, BackendLedongthuc, BackendDslipak, BackendPDFCPU:
		return b, nil
	}
	return "", fmt.Errorf("unknown PDF backend %q", s)
}

// Open opens a PDF file and returns a Document
func Open(filepath string) (Document, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return OpenBytes(data, BackendAuto)
}

// OpenBytes parses an in-memory PDF with the given backend. BackendAuto tries
// every backend in turn and returns the first document that parses; its
// lines, rects and curves come from pdfcpu whenever pdfcpu can read the file.
func OpenBytes(data []byte, backend Backend) (Document, error) {
	if backend != BackendAuto {
		return openGuarded(data, backend)
	}

	var errs []error
	for _, b := range autoOrder {
		doc, err := openGuarded(data, b)
		if err == nil {
			if b != BackendPDFCPU {
				mergeGraphics(doc, data)
			}
			return doc, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("no backend could parse the document: %w", errors.Join(errs...))
}

// pageObjects is implemented by every page built on basePage
type pageObjects interface {
	base() *basePage
}

// mergeGraphics replaces the graphics of doc's pages with those the pdfcpu
// content parser finds. Text stays with doc's backend unless it found none on
// a page. When pdfcpu cannot read the file doc is left untouched.
func mergeGraphics(doc Document, data []byte) {
	shadow, err := openGuarded(data, BackendPDFCPU)
	if err != nil {
		return
	}
	defer shadow.Close()

	pages, shadows := doc.GetPages(), shadow.GetPages()
	if len(pages) != len(shadows) {
		return
	}
	for i, page := range pages {
		dst, ok := page.(pageObjects)
		if !ok {
			continue
		}
		src := shadows[i].GetObjects()
		objects := &dst.base().objects
		objects.Lines = src.Lines
		objects.Rects = src.Rects
		objects.Curves = src.Curves
		if len(objects.Chars) == 0 {
			objects.Chars = src.Chars
		}
	}
}

// openGuarded runs one backend and turns a parser panic into an error
func openGuarded(data []byte, backend Backend) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%s: parser panic: %v", backend, r)
		}
	}()

	switch backend {
	case BackendLedongthuc:
		return OpenWithLedongthuc(data)
	case BackendDslipak:
		return OpenWithDslipak(data)
	case BackendPDFCPU:
		return OpenWithPDFCPU(data)
	}
	return nil, fmt.Errorf("unknown PDF backend %q", backend)
}

// baseDocument holds the pages every backend produces
type baseDocument struct {
	backend Backend
	pages   []Page
}

// Backend reports which parser produced the document
func (d *baseDocument) Backend() Backend {
	return d.backend
}

// GetPages returns all pages in the document
func (d *baseDocument) GetPages() []Page {
	return d.pages
}

// GetPage returns a specific page by index (0-based)
func (d *baseDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// PageCount returns the total number of pages
func (d *baseDocument) PageCount() int {
	return len(d.pages)
}

// Close releases resources associated with the document
func (d *baseDocument) Close() error {
	d.pages = nil
	return nil
}
