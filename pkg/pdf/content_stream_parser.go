package pdf

import (
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ascentRatio places the top of a glyph box above its baseline
const ascentRatio = 0.8

// maxFormDepth bounds Form XObject recursion
const maxFormDepth = 8

// Matrix represents a 2D transformation matrix
type Matrix struct {
	A, B, C, D, E, F float64
}

// IdentityMatrix returns the identity matrix
func IdentityMatrix() Matrix {
	return Matrix{A: 1, D: 1}
}

// TranslationMatrix returns a matrix that moves by tx, ty
func TranslationMatrix(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// MultiplyMatrix returns m1 x m2
func MultiplyMatrix(m1, m2 Matrix) Matrix {
	return Matrix{
		A: m1.A*m2.A + m1.B*m2.C,
		B: m1.A*m2.B + m1.B*m2.D,
		C: m1.C*m2.A + m1.D*m2.C,
		D: m1.C*m2.B + m1.D*m2.D,
		E: m1.E*m2.A + m1.F*m2.C + m2.E,
		F: m1.E*m2.B + m1.F*m2.D + m2.F,
	}
}

// Apply transforms a point
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return x*m.A + y*m.C + m.E, x*m.B + y*m.D + m.F
}

func matrixFromOperands(args []operand) Matrix {
	return Matrix{A: args[0].Float(), B: args[1].Float(), C: args[2].Float(), D: args[3].Float(), E: args[4].Float(), F: args[5].Float()}
}

// GraphicsState represents the parts of the PDF graphics state the
// interpreter tracks
type GraphicsState struct {
	CTM       Matrix
	LineWidth float64

	Font      *FontInfo
	FontSize  float64
	CharSpace float64
	WordSpace float64
	Scale     float64
	Leading   float64
	Rise      float64
}

// pathSegment is one subpath under construction, in device space
type pathSegment struct {
	points []Point
	curved bool
	closed bool
	rect   bool
}

// ContentStreamParser parses PDF content streams and extracts objects
type ContentStreamParser struct {
	ctx     *model.Context
	fonts   *fontLoader
	objects Objects

	// Page geometry used to flip coordinates to top-left origin
	originX float64
	top     float64

	state      GraphicsState
	stateStack []GraphicsState
	textMatrix Matrix
	lineMatrix Matrix

	path    []pathSegment
	formIDs map[int]bool
}

// NewContentStreamParser creates a new content stream parser for a page whose
// media box is mediaBox
func NewContentStreamParser(ctx *model.Context, mediaBox *types.Rectangle) *ContentStreamParser {
	p := &ContentStreamParser{
		ctx:     ctx,
		fonts:   newFontLoader(ctx),
		top:     792,
		formIDs: make(map[int]bool),
	}
	if mediaBox != nil {
		p.originX = mediaBox.LL.X
		p.top = mediaBox.UR.Y
	}
	p.state = GraphicsState{
		CTM:       IdentityMatrix(),
		LineWidth: 1,
		FontSize:  12,
		Scale:     1,
	}
	return p
}

// Parse interprets content against resources and returns the extracted
// objects
func (p *ContentStreamParser) Parse(content []byte, resources types.Dict) Objects {
	p.run(content, resources, 0)
	return p.objects
}

func (p *ContentStreamParser) run(content []byte, resources types.Dict, depth int) {
	interpret(content, func(op string, args []operand) {
		p.processOperator(op, args, resources, depth)
	})
}

// processOperator processes a PDF operator with its operands
func (p *ContentStreamParser) processOperator(op string, args []operand, resources types.Dict, depth int) {
	switch op {
	// Graphics state
	case "q":
		p.stateStack = append(p.stateStack, p.state)
	case "Q":
		if n := len(p.stateStack); n > 0 {
			p.state = p.stateStack[n-1]
			p.stateStack = p.stateStack[:n-1]
		}
	case "cm":
		if len(args) == 6 {
			p.state.CTM = MultiplyMatrix(matrixFromOperands(args), p.state.CTM)
		}
	case "w":
		if len(args) == 1 {
			p.state.LineWidth = args[0].Float()
		}

	// Text objects and positioning
	case "BT":
		p.textMatrix = IdentityMatrix()
		p.lineMatrix = IdentityMatrix()
	case "Td":
		if len(args) == 2 {
			p.moveText(args[0].Float(), args[1].Float())
		}
	case "TD":
		if len(args) == 2 {
			p.state.Leading = -args[1].Float()
			p.moveText(args[0].Float(), args[1].Float())
		}
	case "Tm":
		if len(args) == 6 {
			p.textMatrix = matrixFromOperands(args)
			p.lineMatrix = p.textMatrix
		}
	case "T*":
		p.moveText(0, -p.state.Leading)

	// Text state
	case "Tc":
		if len(args) == 1 {
			p.state.CharSpace = args[0].Float()
		}
	case "Tw":
		if len(args) == 1 {
			p.state.WordSpace = args[0].Float()
		}
	case "Tz":
		if len(args) == 1 {
			p.state.Scale = args[0].Float() / 100
		}
	case "TL":
		if len(args) == 1 {
			p.state.Leading = args[0].Float()
		}
	case "Ts":
		if len(args) == 1 {
			p.state.Rise = args[0].Float()
		}
	case "Tf":
		if len(args) == 2 && args[0].kind == operandName {
			p.state.Font = p.fonts.Load(resources, args[0].name)
			p.state.FontSize = args[1].Float()
		}

	// Text showing
	case "Tj":
		if len(args) == 1 {
			p.showText(args[0].str)
		}
	case "'":
		if len(args) == 1 {
			p.moveText(0, -p.state.Leading)
			p.showText(args[0].str)
		}
	case "\"":
		if len(args) == 3 {
			p.state.WordSpace = args[0].Float()
			p.state.CharSpace = args[1].Float()
			p.moveText(0, -p.state.Leading)
			p.showText(args[2].str)
		}
	case "TJ":
		if len(args) == 1 && args[0].kind == operandArray {
			p.showTextArray(args[0].array)
		}

	// Path construction
	case "m":
		if len(args) == 2 {
			x, y := p.state.CTM.Apply(args[0].Float(), args[1].Float())
			p.path = append(p.path, pathSegment{points: []Point{{X: x, Y: y}}})
		}
	case "l":
		if len(args) == 2 {
			p.lineTo(args[0].Float(), args[1].Float())
		}
	case "c":
		if len(args) == 6 {
			p.curveTo(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float(), args[4].Float(), args[5].Float())
		}
	case "v", "y":
		if len(args) == 4 {
			p.curveTo(args[0].Float(), args[1].Float(), args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float())
		}
	case "h":
		if n := len(p.path); n > 0 {
			p.path[n-1].closed = true
		}
	case "re":
		if len(args) == 4 {
			p.rectangle(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float())
		}

	// Path painting
	case "S", "s":
		p.paint(true, false)
	case "f", "F", "f*":
		p.paint(false, true)
	case "B", "B*", "b", "b*":
		p.paint(true, true)
	case "n":
		p.path = nil

	// XObjects
	case "Do":
		if len(args) == 1 && args[0].kind == operandName && depth < maxFormDepth && p.ctx != nil {
			p.drawForm(resources, args[0].name, depth)
		}
	}
}

func (p *ContentStreamParser) moveText(tx, ty float64) {
	p.lineMatrix = MultiplyMatrix(TranslationMatrix(tx, ty), p.lineMatrix)
	p.textMatrix = p.lineMatrix
}

func (p *ContentStreamParser) showTextArray(items []operand) {
	for _, item := range items {
		switch item.kind {
		case operandString:
			p.showText(item.str)
		case operandNumber:
			tx := -item.num / 1000 * p.state.FontSize * p.state.Scale
			p.textMatrix = MultiplyMatrix(TranslationMatrix(tx, 0), p.textMatrix)
		}
	}
}

// showText emits one CharObject per decoded glyph and advances the text matrix
func (p *ContentStreamParser) showText(s []byte) {
	font := p.state.Font
	if font == nil {
		font = fallbackFont("")
	}
	st := p.state

	for _, g := range font.Glyphs(s) {
		trm := MultiplyMatrix(Matrix{A: st.FontSize * st.Scale, D: st.FontSize, F: st.Rise}, MultiplyMatrix(p.textMatrix, st.CTM))

		w0 := g.width / 1000
		size := math.Hypot(trm.C, trm.D)
		width := w0 * math.Hypot(trm.A, trm.B)
		x0 := trm.E - p.originX
		y0 := p.top - (trm.F + size*ascentRatio)

		if g.text != "" {
			p.objects.Chars = append(p.objects.Chars, CharObject{
				Text:     g.text,
				Font:     font.BaseFont,
				FontSize: size,
				X0:       x0,
				Y0:       y0,
				X1:       x0 + width,
				Y1:       y0 + size,
				Width:    width,
				Height:   size,
			})
		}

		advance := w0*st.FontSize + st.CharSpace
		if len(g.code) == 1 && g.code[0] == ' ' {
			advance += st.WordSpace
		}
		p.textMatrix = MultiplyMatrix(TranslationMatrix(advance*st.Scale, 0), p.textMatrix)
	}
}

func (p *ContentStreamParser) lineTo(x, y float64) {
	n := len(p.path)
	if n == 0 {
		return
	}
	dx, dy := p.state.CTM.Apply(x, y)
	p.path[n-1].points = append(p.path[n-1].points, Point{X: dx, Y: dy})
}

func (p *ContentStreamParser) curveTo(x1, y1, x2, y2, x3, y3 float64) {
	n := len(p.path)
	if n == 0 {
		return
	}
	seg := &p.path[n-1]
	for _, pt := range [][2]float64{{x1, y1}, {x2, y2}, {x3, y3}} {
		dx, dy := p.state.CTM.Apply(pt[0], pt[1])
		seg.points = append(seg.points, Point{X: dx, Y: dy})
	}
	seg.curved = true
}

func (p *ContentStreamParser) rectangle(x, y, w, h float64) {
	var pts []Point
	for _, pt := range [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}} {
		dx, dy := p.state.CTM.Apply(pt[0], pt[1])
		pts = append(pts, Point{X: dx, Y: dy})
	}
	p.path = append(p.path, pathSegment{points: pts, closed: true, rect: true})
}

// toPage converts a device space point to top-left page coordinates
func (p *ContentStreamParser) toPage(pt Point) Point {
	return Point{X: pt.X - p.originX, Y: p.top - pt.Y}
}

// paint turns the current path into rects, lines and curves
func (p *ContentStreamParser) paint(stroke, fill bool) {
	width := p.state.LineWidth * math.Hypot(p.state.CTM.A, p.state.CTM.B)

	for _, seg := range p.path {
		pts := make([]Point, len(seg.points))
		for i, pt := range seg.points {
			pts[i] = p.toPage(pt)
		}

		switch {
		case seg.curved:
			p.objects.Curves = append(p.objects.Curves, CurveObject{Points: pts, Width: width})
		case seg.rect || isAxisAlignedBox(pts, seg.closed):
			box := CurveObject{Points: pts}.GetBBox()
			p.objects.Rects = append(p.objects.Rects, RectObject{
				X0: box.X0, Y0: box.Y0, X1: box.X1, Y1: box.Y1,
				Width:       width,
				NonStroking: fill && !stroke,
			})
		default:
			if !stroke {
				continue
			}
			if seg.closed && len(pts) > 2 {
				pts = append(pts, pts[0])
			}
			for i := 1; i < len(pts); i++ {
				p.objects.Lines = append(p.objects.Lines, LineObject{
					X0: pts[i-1].X, Y0: pts[i-1].Y, X1: pts[i].X, Y1: pts[i].Y,
					Width: width,
				})
			}
		}
	}
	p.path = nil
}

// isAxisAlignedBox reports whether a closed four point path is a rectangle
func isAxisAlignedBox(pts []Point, closed bool) bool {
	if len(pts) == 5 && math.Abs(pts[4].X-pts[0].X) < FloatTolerance && math.Abs(pts[4].Y-pts[0].Y) < FloatTolerance {
		pts = pts[:4]
		closed = true
	}
	if !closed || len(pts) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		a, b := pts[i], pts[(i+1)%4]
		if math.Abs(a.X-b.X) >= FloatTolerance && math.Abs(a.Y-b.Y) >= FloatTolerance {
			return false
		}
	}
	return true
}

// drawForm interprets a Form XObject in place
func (p *ContentStreamParser) drawForm(resources types.Dict, name string, depth int) {
	xobjects, err := p.ctx.DereferenceDict(resources["XObject"])
	if err != nil || xobjects == nil {
		return
	}
	obj, ok := xobjects[name]
	if !ok {
		return
	}
	ref, isRef := obj.(types.IndirectRef)
	if isRef {
		if p.formIDs[ref.ObjectNumber.Value()] {
			return
		}
		p.formIDs[ref.ObjectNumber.Value()] = true
		defer delete(p.formIDs, ref.ObjectNumber.Value())
	}

	sd, _, err := p.ctx.DereferenceStreamDict(obj)
	if err != nil || sd == nil {
		return
	}
	if subtype := sd.Subtype(); subtype == nil || *subtype != "Form" {
		return
	}
	if err := sd.Decode(); err != nil {
		return
	}

	saved := p.state
	savedStack := len(p.stateStack)
	if arr, err := p.ctx.DereferenceArray(sd.Dict["Matrix"]); err == nil && len(arr) == 6 {
		var m [6]float64
		for i, o := range arr {
			m[i], _ = p.ctx.DereferenceNumber(o)
		}
		p.state.CTM = MultiplyMatrix(Matrix{A: m[0], B: m[1], C: m[2], D: m[3], E: m[4], F: m[5]}, p.state.CTM)
	}

	formResources := resources
	if res, err := p.ctx.DereferenceDict(sd.Dict["Resources"]); err == nil && res != nil {
		formResources = res
	}

	p.run(sd.Content, formResources, depth+1)

	p.state = saved
	if len(p.stateStack) > savedStack {
		p.stateStack = p.stateStack[:savedStack]
	}
}
