package pdf

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// tableExtractor finds ruled tables on a page. Rulings are snapped into a
// grid, every smallest rectangle bounded by connected rulings becomes a cell,
// and cells sharing a corner form one table.
type tableExtractor struct {
	objects   Objects
	config    *tableExtractionConfig
	organizer *TextOrganizer
	logger    logrus.FieldLogger
}

// newTableExtractor creates a new table extractor with default settings
func newTableExtractor(objects Objects, opts ...TableExtractionOption) *tableExtractor {
	config := newTableExtractionConfig(opts)
	return &tableExtractor{
		objects:   objects,
		config:    config,
		organizer: NewTextOrganizer(config.TextTolerance, config.TextTolerance),
		logger:    config.Logger,
	}
}

// ExtractTables extracts tables from the page, ordered top to bottom then
// left to right
func (te *tableExtractor) ExtractTables() []Table {
	hEdges, vEdges := te.collectEdges()
	hEdges, vEdges = MergeEdges(hEdges, vEdges, te.config.SnapTolerance, te.config.SnapTolerance)
	te.logger.WithFields(logrus.Fields{
		"horizontal": len(hEdges),
		"vertical":   len(vEdges),
	}).Debug("collected table edges")

	points := findIntersections(hEdges, vEdges, te.config.SnapTolerance)
	cells := findCells(points)
	groups := groupCells(cells)
	te.logger.WithFields(logrus.Fields{
		"intersections": len(points),
		"cells":         len(cells),
		"tables":        len(groups),
	}).Debug("built table grid")

	tables := []Table{}
	for _, group := range groups {
		table := te.buildTable(group)
		if len(table.Rows) < te.config.MinTableSize {
			continue
		}
		tables = append(tables, table)
	}
	return tables
}

// collectEdges gathers rulings for each direction using the configured strategy
func (te *tableExtractor) collectEdges() (horizontal, vertical []LineObject) {
	var words []Word
	if te.config.HorizontalStrategy == StrategyText || te.config.VerticalStrategy == StrategyText {
		words = te.organizer.ExtractWords(te.objects.Chars)
	}

	lineH, lineV := CollectEdges(te.objects)

	if te.config.HorizontalStrategy == StrategyText {
		horizontal = wordRowEdges(words, te.config.TextTolerance)
	} else {
		horizontal = lineH
	}

	if te.config.VerticalStrategy == StrategyText {
		vertical = wordColumnEdges(words, te.config.TextTolerance)
	} else {
		vertical = lineV
	}
	return horizontal, vertical
}

// wordRowEdges draws a ruling above every row of words and one under the last
func wordRowEdges(words []Word, tolerance float64) []LineObject {
	rows := clusterWords(words, func(w Word) float64 { return w.Y0 }, tolerance)
	if len(rows) == 0 {
		return nil
	}

	box := words[0].GetBBox()
	for _, w := range words {
		box = box.Union(w.GetBBox())
	}

	edges := make([]LineObject, 0, len(rows)+1)
	bottom := 0.0
	for _, row := range rows {
		top := row[0].Y0
		for _, w := range row {
			top = min(top, w.Y0)
			bottom = max(bottom, w.Y1)
		}
		edges = append(edges, LineObject{X0: box.X0, Y0: top, X1: box.X1, Y1: top})
	}
	edges = append(edges, LineObject{X0: box.X0, Y0: bottom, X1: box.X1, Y1: bottom})
	return edges
}

// minColumnWords is how many left-aligned words make a text column
const minColumnWords = 3

// wordColumnEdges draws a ruling left of every column of left-aligned words
// and one right of the widest column
func wordColumnEdges(words []Word, tolerance float64) []LineObject {
	var columns [][]Word
	for _, c := range clusterWords(words, func(w Word) float64 { return w.X0 }, tolerance) {
		if len(c) >= minColumnWords {
			columns = append(columns, c)
		}
	}
	if len(columns) == 0 {
		return nil
	}

	box := columns[0][0].GetBBox()
	for _, c := range columns {
		for _, w := range c {
			box = box.Union(w.GetBBox())
		}
	}

	edges := make([]LineObject, 0, len(columns)+1)
	for _, c := range columns {
		left := c[0].X0
		for _, w := range c {
			left = min(left, w.X0)
		}
		edges = append(edges, LineObject{X0: left, Y0: box.Y0, X1: left, Y1: box.Y1})
	}
	edges = append(edges, LineObject{X0: box.X1, Y0: box.Y0, X1: box.X1, Y1: box.Y1})
	return edges
}

// clusterWords groups words whose key lies within tolerance of the first
// member of the group
func clusterWords(words []Word, key func(Word) float64, tolerance float64) [][]Word {
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) < key(sorted[j])
	})

	var clusters [][]Word
	for _, w := range sorted {
		n := len(clusters)
		if n > 0 && key(w)-key(clusters[n-1][0]) <= tolerance {
			clusters[n-1] = append(clusters[n-1], w)
			continue
		}
		clusters = append(clusters, []Word{w})
	}
	return clusters
}

// intersection is a grid point together with the rulings that pass through it
type intersection struct {
	point  Point
	hEdges []int
	vEdges []int
}

func findIntersections(hEdges, vEdges []LineObject, tolerance float64) map[Point]*intersection {
	points := make(map[Point]*intersection)
	for vi, v := range vEdges {
		for hi, h := range hEdges {
			if v.X0 < h.X0-tolerance || v.X0 > h.X1+tolerance {
				continue
			}
			if h.Y0 < v.Y0-tolerance || h.Y0 > v.Y1+tolerance {
				continue
			}

			p := Point{X: v.X0, Y: h.Y0}
			in, ok := points[p]
			if !ok {
				in = &intersection{point: p}
				points[p] = in
			}
			in.hEdges = append(in.hEdges, hi)
			in.vEdges = append(in.vEdges, vi)
		}
	}
	return points
}

func shareEdge(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// findCells returns, for every intersection, the smallest rectangle whose
// four corners are intersections joined by rulings
func findCells(points map[Point]*intersection) []BoundingBox {
	sorted := make([]*intersection, 0, len(points))
	for _, in := range points {
		sorted = append(sorted, in)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].point.Y != sorted[j].point.Y {
			return sorted[i].point.Y < sorted[j].point.Y
		}
		return sorted[i].point.X < sorted[j].point.X
	})

	var cells []BoundingBox
	for i, pt := range sorted {
		var below, right []*intersection
		for _, other := range sorted[i+1:] {
			if other.point.X == pt.point.X {
				below = append(below, other)
			}
			if other.point.Y == pt.point.Y {
				right = append(right, other)
			}
		}

		if cell, ok := smallestCell(pt, below, right, points); ok {
			cells = append(cells, cell)
		}
	}
	return cells
}

func smallestCell(pt *intersection, below, right []*intersection, points map[Point]*intersection) (BoundingBox, bool) {
	for _, b := range below {
		if !shareEdge(pt.vEdges, b.vEdges) {
			continue
		}
		for _, r := range right {
			if !shareEdge(pt.hEdges, r.hEdges) {
				continue
			}
			corner, ok := points[Point{X: r.point.X, Y: b.point.Y}]
			if !ok {
				continue
			}
			if shareEdge(corner.vEdges, r.vEdges) && shareEdge(corner.hEdges, b.hEdges) {
				return BoundingBox{X0: pt.point.X, Y0: pt.point.Y, X1: r.point.X, Y1: b.point.Y}, true
			}
		}
	}
	return BoundingBox{}, false
}

// groupCells unions cells that share a corner and orders the resulting
// tables by their top edge, then their left edge
func groupCells(cells []BoundingBox) [][]BoundingBox {
	parent := make([]int, len(cells))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	owner := make(map[Point]int)
	for i, c := range cells {
		for _, corner := range []Point{{c.X0, c.Y0}, {c.X1, c.Y0}, {c.X0, c.Y1}, {c.X1, c.Y1}} {
			if j, ok := owner[corner]; ok {
				parent[find(i)] = find(j)
				continue
			}
			owner[corner] = i
		}
	}

	byRoot := make(map[int]int)
	var groups [][]BoundingBox
	for i, c := range cells {
		root := find(i)
		idx, ok := byRoot[root]
		if !ok {
			idx = len(groups)
			byRoot[root] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], c)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := cellsBBox(groups[i]), cellsBBox(groups[j])
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		return a.X0 < b.X0
	})
	return groups
}

func cellsBBox(cells []BoundingBox) BoundingBox {
	box := cells[0]
	for _, c := range cells[1:] {
		box = box.Union(c)
	}
	return box
}

// buildTable lays the cells of one table out on the grid of their top-left
// corners. Grid positions covered by a merged cell hold a null cell.
func (te *tableExtractor) buildTable(cells []BoundingBox) Table {
	var xs, ys []float64
	byCorner := make(map[Point]BoundingBox, len(cells))
	for _, c := range cells {
		xs = appendUnique(xs, c.X0)
		ys = appendUnique(ys, c.Y0)
		byCorner[Point{X: c.X0, Y: c.Y0}] = c
	}
	sort.Float64s(xs)
	sort.Float64s(ys)

	rows := make([][]Cell, 0, len(ys))
	for _, y := range ys {
		row := make([]Cell, 0, len(xs))
		for _, x := range xs {
			c, ok := byCorner[Point{X: x, Y: y}]
			if !ok {
				row = append(row, NullCell())
				continue
			}
			row = append(row, TextCell(te.extractCellText(c)))
		}
		rows = append(rows, row)
	}

	return Table{
		Rows: rows,
		BBox: cellsBBox(cells),
	}
}

// extractCellText collects the characters whose centre falls inside the cell
func (te *tableExtractor) extractCellText(cell BoundingBox) string {
	var chars []CharObject
	for _, c := range te.objects.Chars {
		x, y := c.center()
		if cell.Contains(x, y) {
			chars = append(chars, c)
		}
	}
	return te.organizer.OrganizeText(chars)
}

func appendUnique(values []float64, v float64) []float64 {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}
