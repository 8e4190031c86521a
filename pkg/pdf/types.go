package pdf

import (
	"strings"
)

// ObjectType represents the type of PDF object
type ObjectType string

const (
	ObjectTypeChar  ObjectType = "char"
	ObjectTypeLine  ObjectType = "line"
	ObjectTypeRect  ObjectType = "rect"
	ObjectTypeCurve ObjectType = "curve"
)

// BoundingBox represents a rectangular area in top-left origin coordinates.
// Y grows downwards.
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Contains checks if a point is within the bounding box
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Union returns the smallest box containing both boxes
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		X0: min(b.X0, other.X0),
		Y0: min(b.Y0, other.Y0),
		X1: max(b.X1, other.X1),
		Y1: max(b.Y1, other.Y1),
	}
}

// Objects represents a collection of PDF objects found on a page
type Objects struct {
	Chars  []CharObject
	Lines  []LineObject
	Rects  []RectObject
	Curves []CurveObject
}

// CharObject represents a character in the PDF
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	Width    float64
	Height   float64
}

// GetType returns the object type
func (c CharObject) GetType() ObjectType {
	return ObjectTypeChar
}

// GetBBox returns the character's bounding box
func (c CharObject) GetBBox() BoundingBox {
	return BoundingBox{X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
}

// center returns the midpoint of the glyph box
func (c CharObject) center() (float64, float64) {
	return (c.X0 + c.X1) / 2, (c.Y0 + c.Y1) / 2
}

func (c CharObject) isSpace() bool {
	return strings.TrimSpace(c.Text) == ""
}

// LineObject represents a straight stroked segment
type LineObject struct {
	X0    float64
	Y0    float64
	X1    float64
	Y1    float64
	Width float64
}

// GetType returns the object type
func (l LineObject) GetType() ObjectType {
	return ObjectTypeLine
}

// GetBBox returns the line's bounding box
func (l LineObject) GetBBox() BoundingBox {
	return BoundingBox{
		X0: min(l.X0, l.X1),
		Y0: min(l.Y0, l.Y1),
		X1: max(l.X0, l.X1),
		Y1: max(l.Y0, l.Y1),
	}
}

// RectObject represents a rectangle in the PDF
type RectObject struct {
	X0          float64
	Y0          float64
	X1          float64
	Y1          float64
	Width       float64
	NonStroking bool
}

// GetType returns the object type
func (r RectObject) GetType() ObjectType {
	return ObjectTypeRect
}

// GetBBox returns the rectangle's bounding box
func (r RectObject) GetBBox() BoundingBox {
	return BoundingBox{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y1}
}

// CurveObject represents a bezier curve in the PDF
type CurveObject struct {
	Points []Point
	Width  float64
}

// GetType returns the object type
func (c CurveObject) GetType() ObjectType {
	return ObjectTypeCurve
}

// GetBBox returns the curve's bounding box
func (c CurveObject) GetBBox() BoundingBox {
	if len(c.Points) == 0 {
		return BoundingBox{}
	}

	box := BoundingBox{X0: c.Points[0].X, Y0: c.Points[0].Y, X1: c.Points[0].X, Y1: c.Points[0].Y}
	for _, p := range c.Points[1:] {
		box = box.Union(BoundingBox{X0: p.X, Y0: p.Y, X1: p.X, Y1: p.Y})
	}
	return box
}

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Word is a run of characters on one line without a gap wider than the
// configured x tolerance.
type Word struct {
	Text       string
	X0         float64
	Y0         float64
	X1         float64
	Y1         float64
	Characters []CharObject
}

// GetBBox returns the word's bounding box
func (w Word) GetBBox() BoundingBox {
	return BoundingBox{X0: w.X0, Y0: w.Y0, X1: w.X1, Y1: w.Y1}
}

// Cell is one table cell. Cells swallowed by a merged neighbour carry no
// value and render as "None".
type Cell struct {
	Value string
	Valid bool
}

// TextCell returns a cell holding s
func TextCell(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// NullCell returns an absent cell
func NullCell() Cell {
	return Cell{}
}

// String renders the cell the way the text export prints it
func (c Cell) String() string {
	if !c.Valid {
		return "None"
	}
	return c.Value
}

// Table represents an extracted table
type Table struct {
	Rows [][]Cell
	BBox BoundingBox
}

// Strings returns the table as plain strings, absent cells rendered as "None"
func (t Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = cell.String()
		}
	}
	return out
}

// ColumnCount returns the width of the widest row
func (t Table) ColumnCount() int {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	return cols
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
