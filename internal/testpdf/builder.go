// Package testpdf writes small, fully deterministic PDF files for tests.
//
// Every page uses a single Courier font (/F1) with explicit /Widths so that
// glyph positions are exact, and coordinates are PDF user space with the
// origin at the bottom-left of a 612x792 page.
package testpdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Page size in points
const (
	PageWidth  = 612
	PageHeight = 792
)

// CourierWidth is the advance of every Courier glyph in thousandths of the
// font size
const CourierWidth = 600

// ImageRef identifies an image XObject added to a Builder
type ImageRef int

// FormRef identifies a Form XObject added to a Builder
type FormRef int

type imageObject struct {
	data          []byte
	filter        string
	width, height int
}

type formObject struct {
	content string
	images  map[string]ImageRef
}

// Builder assembles a PDF document
type Builder struct {
	pages  []*Page
	images []imageObject
	forms  []formObject
}

// New creates an empty document
func New() *Builder {
	return &Builder{}
}

// Page is one page under construction
type Page struct {
	content bytes.Buffer
	images  map[string]ImageRef
	forms   map[string]FormRef
}

// AddPage appends an empty page
func (b *Builder) AddPage() *Page {
	p := &Page{
		images: make(map[string]ImageRef),
		forms:  make(map[string]FormRef),
	}
	b.pages = append(b.pages, p)
	return p
}

// AddImage registers a 8-bit DeviceGray image, one pixel row high, whose
// uncompressed stream bytes are exactly data
func (b *Builder) AddImage(data []byte) ImageRef {
	b.images = append(b.images, imageObject{data: data, width: len(data), height: 1})
	return ImageRef(len(b.images) - 1)
}

// AddEncodedImage registers a DeviceGray image whose stream holds data
// already encoded with filter, e.g. a JPEG file under DCTDecode
func (b *Builder) AddEncodedImage(filter string, data []byte, width, height int) ImageRef {
	b.images = append(b.images, imageObject{data: data, filter: filter, width: width, height: height})
	return ImageRef(len(b.images) - 1)
}

// AddForm registers a Form XObject that paints the named images
func (b *Builder) AddForm(images map[string]ImageRef) FormRef {
	var content strings.Builder
	for _, name := range sortedNames(images) {
		fmt.Fprintf(&content, "q 10 0 0 10 0 0 cm /%s Do Q\n", name)
	}
	b.forms = append(b.forms, formObject{content: content.String(), images: images})
	return FormRef(len(b.forms) - 1)
}

// AddDrawing registers a Form XObject whose content is whatever draw paints
// on the page it is given. Text inside it uses /F1 like any page.
func (b *Builder) AddDrawing(draw func(*Page)) FormRef {
	p := &Page{}
	draw(p)
	b.forms = append(b.forms, formObject{content: p.content.String()})
	return FormRef(len(b.forms) - 1)
}

// Text shows s at baseline (x, y) with the given font size
func (p *Page) Text(x, y, size float64, s string) *Page {
	fmt.Fprintf(&p.content, "BT /F1 %s Tf %s %s Td (%s) Tj ET\n", num(size), num(x), num(y), escape(s))
	return p
}

// Rect strokes a rectangle with lower-left corner (x, y)
func (p *Page) Rect(x, y, w, h float64) *Page {
	fmt.Fprintf(&p.content, "%s %s %s %s re S\n", num(x), num(y), num(w), num(h))
	return p
}

// Line strokes a straight segment
func (p *Page) Line(x0, y0, x1, y1 float64) *Page {
	fmt.Fprintf(&p.content, "%s %s m %s %s l S\n", num(x0), num(y0), num(x1), num(y1))
	return p
}

// Cell strokes a cell border and writes text inside it at size 10
func (p *Page) Cell(x, y, w, h float64, text string) *Page {
	p.Rect(x, y, w, h)
	if text != "" {
		p.Text(x+3, y+5, 10, text)
	}
	return p
}

// Table draws a ruled grid with its top-left corner at (x, top). Every cell
// is stroked on its own, so adjacent cells share overlapping borders.
func (p *Page) Table(x, top float64, colWidths []float64, rowHeight float64, rows [][]string) *Page {
	for i, row := range rows {
		y := top - float64(i+1)*rowHeight
		cx := x
		for j, w := range colWidths {
			text := ""
			if j < len(row) {
				text = row[j]
			}
			p.Cell(cx, y, w, rowHeight, text)
			cx += w
		}
	}
	return p
}

// Grid draws a table whose rulings are single stroked segments, one per row
// and column boundary, with its top-left corner at (x, top)
func (p *Page) Grid(x, top float64, colWidths []float64, rowHeight float64, rows [][]string) *Page {
	width := 0.0
	for _, w := range colWidths {
		width += w
	}
	bottom := top - float64(len(rows))*rowHeight

	for i := 0; i <= len(rows); i++ {
		y := top - float64(i)*rowHeight
		p.Line(x, y, x+width, y)
	}
	cx := x
	for j := 0; j <= len(colWidths); j++ {
		p.Line(cx, top, cx, bottom)
		if j < len(colWidths) {
			cx += colWidths[j]
		}
	}

	for i, row := range rows {
		y := top - float64(i+1)*rowHeight
		cx := x
		for j, w := range colWidths {
			if j < len(row) && row[j] != "" {
				p.Text(cx+3, y+5, 10, row[j])
			}
			cx += w
		}
	}
	return p
}

// Image paints a registered image under the given resource name
func (p *Page) Image(name string, ref ImageRef) *Page {
	p.images[name] = ref
	fmt.Fprintf(&p.content, "q 50 0 0 50 72 72 cm /%s Do Q\n", name)
	return p
}

// Form paints a registered Form XObject under the given resource name
func (p *Page) Form(name string, ref FormRef) *Page {
	p.forms[name] = ref
	fmt.Fprintf(&p.content, "q /%s Do Q\n", name)
	return p
}

// Raw appends content stream operators verbatim
func (p *Page) Raw(ops string) *Page {
	p.content.WriteString(ops)
	if !strings.HasSuffix(ops, "\n") {
		p.content.WriteByte('\n')
	}
	return p
}

// Bytes serializes the document with an exact cross-reference table
func (b *Builder) Bytes() []byte {
	const (
		catalogID = 1
		pagesID   = 2
		fontID    = 3
		firstID   = 4
	)
	imageID := func(ref ImageRef) int { return firstID + int(ref) }
	formID := func(ref FormRef) int { return firstID + len(b.images) + int(ref) }
	pageID := func(i int) int { return firstID + len(b.images) + len(b.forms) + 2*i }

	objects := make(map[int][]byte)

	kids := make([]string, len(b.pages))
	for i := range b.pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageID(i))
	}
	objects[catalogID] = []byte(fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID))
	objects[pagesID] = []byte(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(b.pages)))
	objects[fontID] = []byte(courierFont())

	for i, img := range b.images {
		filter := ""
		if img.filter != "" {
			filter = fmt.Sprintf(" /Filter /%s", img.filter)
		}
		head := fmt.Sprintf("<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8%s /Length %d >>",
			img.width, img.height, filter, len(img.data))
		objects[imageID(ImageRef(i))] = stream(head, img.data)
	}

	for i, form := range b.forms {
		head := fmt.Sprintf("<< /Type /XObject /Subtype /Form /BBox [0 0 %d %d] /Resources << /Font << /F1 %d 0 R >> /XObject << %s >> >> /Length %d >>",
			PageWidth, PageHeight, fontID, imageResources(form.images, imageID), len(form.content))
		objects[formID(FormRef(i))] = stream(head, []byte(form.content))
	}

	for i, page := range b.pages {
		var xobjects []string
		if len(page.images) > 0 {
			xobjects = append(xobjects, imageResources(page.images, imageID))
		}
		for _, name := range sortedNames(page.forms) {
			xobjects = append(xobjects, fmt.Sprintf("/%s %d 0 R", name, formID(page.forms[name])))
		}
		resources := fmt.Sprintf("/Font << /F1 %d 0 R >>", fontID)
		if len(xobjects) > 0 {
			resources += fmt.Sprintf(" /XObject << %s >>", strings.Join(xobjects, " "))
		}

		objects[pageID(i)] = []byte(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %d %d] /Resources << %s >> /Contents %d 0 R >>",
			pagesID, PageWidth, PageHeight, resources, pageID(i)+1))
		content := page.content.Bytes()
		objects[pageID(i)+1] = stream(fmt.Sprintf("<< /Length %d >>", len(content)), content)
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	count := len(objects)
	offsets := make([]int, count+1)
	for id := 1; id <= count; id++ {
		offsets[id] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n", id)
		out.Write(objects[id])
		out.WriteString("\nendobj\n")
	}

	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", count+1)
	out.WriteString("0000000000 65535 f \n")
	for id := 1; id <= count; id++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", count+1, catalogID, xref)

	return out.Bytes()
}

func courierFont() string {
	widths := make([]string, 126-32+1)
	for i := range widths {
		widths[i] = fmt.Sprint(CourierWidth)
	}
	return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.Join(widths, " "))
}

func imageResources(images map[string]ImageRef, id func(ImageRef) int) string {
	entries := make([]string, 0, len(images))
	for _, name := range sortedNames(images) {
		entries = append(entries, fmt.Sprintf("/%s %d 0 R", name, id(images[name])))
	}
	return strings.Join(entries, " ")
}

func stream(head string, data []byte) []byte {
	var b bytes.Buffer
	b.WriteString(head)
	b.WriteString("\nstream\n")
	b.Write(data)
	b.WriteString("\nendstream")
	return b.Bytes()
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func num(v float64) string {
	return fmt.Sprintf("%g", v)
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// SinglePage returns a one page document showing each line of text at size 12
// starting at the top margin
func SinglePage(lines ...string) []byte {
	b := New()
	p := b.AddPage()
	for i, line := range lines {
		p.Text(72, 720-float64(i)*20, 12, line)
	}
	return b.Bytes()
}
