package pdf

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUPage implements the Page interface using pdfcpu
type PDFCPUPage struct {
	basePage
	rotation int
}

// NewPDFCPUPage creates a new page using pdfcpu context. The content stream
// is interpreted immediately, Form XObjects included.
func NewPDFCPUPage(ctx *model.Context, pageNumber int) (*PDFCPUPage, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}

	if pageNumber < 1 || pageNumber > ctx.PageCount {
		return nil, fmt.Errorf("page number %d out of range [1, %d]", pageNumber, ctx.PageCount)
	}

	// Get page dictionary and inherited attributes
	_, _, attrs, err := ctx.PageDict(pageNumber, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get page dict: %w", err)
	}
	if attrs == nil {
		attrs = &model.InheritedPageAttrs{}
	}

	frame := newPageFrame(0, 0, 0, 0)
	if attrs.MediaBox != nil {
		frame = newPageFrame(attrs.MediaBox.LL.X, attrs.MediaBox.LL.Y, attrs.MediaBox.UR.X, attrs.MediaBox.UR.Y)
	}

	page := &PDFCPUPage{
		basePage: basePage{
			pageNumber: pageNumber,
			width:      frame.width,
			height:     frame.height,
		},
		rotation: attrs.Rotate,
	}

	content, err := pageContent(ctx, pageNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}
	if len(content) > 0 {
		parser := NewContentStreamParser(ctx, attrs.MediaBox)
		page.objects = parser.Parse(content, attrs.Resources)
	}

	return page, nil
}

// pageContent returns the page's content streams decoded and concatenated
func pageContent(ctx *model.Context, pageNumber int) ([]byte, error) {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNumber)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	return io.ReadAll(r)
}

// GetRotation returns the page rotation in degrees
func (p *PDFCPUPage) GetRotation() int {
	return p.rotation
}
