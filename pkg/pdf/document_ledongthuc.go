package pdf

import (
	"bytes"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"
)

// LedongthucDocument implements the Document interface using ledongthuc/pdf library
type LedongthucDocument struct {
	baseDocument
	reader *lpdf.Reader
}

// OpenWithLedongthuc parses an in-memory PDF using the ledongthuc/pdf library
func OpenWithLedongthuc(data []byte) (Document, error) {
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}

	doc := &LedongthucDocument{
		baseDocument: baseDocument{backend: BackendLedongthuc},
		reader:       r,
	}

	// Initialize pages
	pageCount := r.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: no pages")
	}
	doc.pages = make([]Page, pageCount)
	for i := 1; i <= pageCount; i++ {
		page, err := NewLedongthucPage(r, i)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		doc.pages[i-1] = page
	}

	return doc, nil
}

// Close releases resources associated with the document
func (d *LedongthucDocument) Close() error {
	d.reader = nil
	return d.baseDocument.Close()
}

// LedongthucPage implements the Page interface using ledongthuc/pdf
type LedongthucPage struct {
	basePage
	page lpdf.Page
}

// NewLedongthucPage creates a new page using ledongthuc/pdf
func NewLedongthucPage(reader *lpdf.Reader, pageNumber int) (*LedongthucPage, error) {
	if pageNumber < 1 || pageNumber > reader.NumPage() {
		return nil, fmt.Errorf("invalid page number: %d", pageNumber)
	}

	page := reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d has no dictionary", pageNumber)
	}

	frame := ledongthucFrame(page.V)
	p := &LedongthucPage{
		basePage: basePage{
			pageNumber: pageNumber,
			width:      frame.width,
			height:     frame.height,
		},
		page: page,
	}

	// Extract objects from the page
	content := page.Content()
	for _, text := range content.Text {
		if !printable(text.S) {
			continue
		}
		p.objects.Chars = append(p.objects.Chars, frame.glyph(text.S, text.Font, text.FontSize, text.X, text.Y, text.W))
	}
	for _, r := range content.Rect {
		p.objects.Rects = append(p.objects.Rects, frame.rect(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y))
	}

	return p, nil
}

// ledongthucFrame reads the MediaBox, following the page tree for an
// inherited one
func ledongthucFrame(v lpdf.Value) pageFrame {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == lpdf.Array && box.Len() == 4 {
			return newPageFrame(box.Index(0).Float64(), box.Index(1).Float64(), box.Index(2).Float64(), box.Index(3).Float64())
		}
		v = v.Key("Parent")
	}
	return newPageFrame(0, 0, 0, 0)
}
