package pdf

import (
	"bytes"
	"fmt"

	gopdf "github.com/dslipak/pdf"
)

// DsliPakDocument implements the Document interface using dslipak/pdf library
type DsliPakDocument struct {
	baseDocument
	reader *gopdf.Reader
}

// OpenWithDslipak parses an in-memory PDF using the dslipak/pdf library
func OpenWithDslipak(data []byte) (Document, error) {
	r, err := gopdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with dslipak: %w", err)
	}

	doc := &DsliPakDocument{
		baseDocument: baseDocument{backend: BackendDslipak},
		reader:       r,
	}

	pageCount := r.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("failed to open PDF with dslipak: no pages")
	}
	doc.pages = make([]Page, pageCount)
	for i := 1; i <= pageCount; i++ {
		page, err := NewDsliPakPage(r, i)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		doc.pages[i-1] = page
	}

	return doc, nil
}

// Close releases resources associated with the document
func (d *DsliPakDocument) Close() error {
	d.reader = nil
	return d.baseDocument.Close()
}

// DsliPakPage implements the Page interface using dslipak/pdf
type DsliPakPage struct {
	basePage
	page gopdf.Page
}

// NewDsliPakPage creates a new page using dslipak/pdf
func NewDsliPakPage(reader *gopdf.Reader, pageNumber int) (*DsliPakPage, error) {
	if pageNumber < 1 || pageNumber > reader.NumPage() {
		return nil, fmt.Errorf("invalid page number: %d", pageNumber)
	}

	page := reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d has no dictionary", pageNumber)
	}

	frame := dslipakFrame(page.V)
	p := &DsliPakPage{
		basePage: basePage{
			pageNumber: pageNumber,
			width:      frame.width,
			height:     frame.height,
		},
		page: page,
	}

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

func dslipakFrame(v gopdf.Value) pageFrame {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == gopdf.Array && box.Len() == 4 {
			return newPageFrame(box.Index(0).Float64(), box.Index(1).Float64(), box.Index(2).Float64(), box.Index(3).Float64())
		}
		v = v.Key("Parent")
	}
	return newPageFrame(0, 0, 0, 0)
}
