package pdf

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// ReadContext parses and validates an in-memory PDF with pdfcpu in relaxed
// mode
func ReadContext(data []byte) (*model.Context, error) {
	// pdfcpu would otherwise create a configuration directory on first use
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	return ctx, nil
}

// PDFDocument implements the Document interface using pdfcpu
type PDFDocument struct {
	baseDocument
	ctx *model.Context
}

// OpenWithPDFCPU parses an in-memory PDF using pdfcpu
func OpenWithPDFCPU(data []byte) (Document, error) {
	ctx, err := ReadContext(data)
	if err != nil {
		return nil, err
	}

	doc := &PDFDocument{
		baseDocument: baseDocument{backend: BackendPDFCPU},
		ctx:          ctx,
	}

	// Initialize pages
	doc.pages = make([]Page, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		page, err := NewPDFCPUPage(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("failed to create page %d: %w", i, err)
		}
		doc.pages[i-1] = page
	}

	return doc, nil
}

// Context exposes the underlying pdfcpu context
func (d *PDFDocument) Context() *model.Context {
	return d.ctx
}

// Close releases resources associated with the document
func (d *PDFDocument) Close() error {
	d.ctx = nil
	return d.baseDocument.Close()
}
