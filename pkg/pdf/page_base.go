package pdf

// basePage holds what every backend page shares once its content has been
// turned into objects
type basePage struct {
	pageNumber int
	width      float64
	height     float64
	objects    Objects
}

func (p *basePage) base() *basePage {
	return p
}

// GetPageNumber returns the page number (1-based)
func (p *basePage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *basePage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *basePage) GetHeight() float64 {
	return p.height
}

// GetBBox returns the page bounding box
func (p *basePage) GetBBox() BoundingBox {
	return BoundingBox{X0: 0, Y0: 0, X1: p.width, Y1: p.height}
}

// GetObjects returns all objects on the page
func (p *basePage) GetObjects() Objects {
	return p.objects
}

// ExtractText extracts text from the page
func (p *basePage) ExtractText(opts ...TextExtractionOption) string {
	config := newTextExtractionConfig(opts)
	organizer := NewTextOrganizer(config.XTolerance, config.YTolerance)
	return config.normalize(organizer.OrganizeText(p.objects.Chars))
}

// ExtractWords extracts individual words from the page
func (p *basePage) ExtractWords(opts ...WordExtractionOption) []Word {
	config := &wordExtractionConfig{
		XTolerance: 3.0,
		YTolerance: 3.0,
	}
	for _, opt := range opts {
		opt(config)
	}
	return NewTextOrganizer(config.XTolerance, config.YTolerance).ExtractWords(p.objects.Chars)
}

// ExtractTables extracts tables from the page
func (p *basePage) ExtractTables(opts ...TableExtractionOption) []Table {
	extractor := newTableExtractor(p.objects, opts...)
	return extractor.ExtractTables()
}

// WithinBBox filters objects within a bounding box
func (p *basePage) WithinBBox(bbox BoundingBox) Objects {
	filtered := Objects{}

	for _, char := range p.objects.Chars {
		if char.GetBBox().Intersects(bbox) {
			filtered.Chars = append(filtered.Chars, char)
		}
	}

	for _, line := range p.objects.Lines {
		if line.GetBBox().Intersects(bbox) {
			filtered.Lines = append(filtered.Lines, line)
		}
	}

	for _, rect := range p.objects.Rects {
		if rect.GetBBox().Intersects(bbox) {
			filtered.Rects = append(filtered.Rects, rect)
		}
	}

	for _, curve := range p.objects.Curves {
		if curve.GetBBox().Intersects(bbox) {
			filtered.Curves = append(filtered.Curves, curve)
		}
	}

	return filtered
}

// pageFrame maps PDF user space onto top-left page coordinates
type pageFrame struct {
	originX float64
	top     float64
	width   float64
	height  float64
}

func newPageFrame(llx, lly, urx, ury float64) pageFrame {
	if urx <= llx || ury <= lly {
		// Default to US Letter
		return pageFrame{top: 792, width: 612, height: 792}
	}
	return pageFrame{originX: llx, top: ury, width: urx - llx, height: ury - lly}
}

// glyph builds a character box from a baseline position and advance width
func (f pageFrame) glyph(text, font string, size, x, baseline, width float64) CharObject {
	if width <= 0 {
		width = defaultGlyphWidth / 1000 * size
	}
	x0 := x - f.originX
	y0 := f.top - (baseline + size*ascentRatio)
	return CharObject{
		Text:     text,
		Font:     font,
		FontSize: size,
		X0:       x0,
		Y0:       y0,
		X1:       x0 + width,
		Y1:       y0 + size,
		Width:    width,
		Height:   size,
	}
}

// rect converts two opposite corners to a top-left origin rectangle
func (f pageFrame) rect(x0, y0, x1, y1 float64) RectObject {
	return RectObject{
		X0:    min(x0, x1) - f.originX,
		Y0:    f.top - max(y0, y1),
		X1:    max(x0, x1) - f.originX,
		Y1:    f.top - min(y0, y1),
		Width: 1,
	}
}

// printable reports whether a decoded glyph carries visible text or a space
func printable(s string) bool {
	for _, r := range s {
		if r >= ' ' {
			return true
		}
	}
	return false
}
