package pdf

import (
	"math"
	"sort"
)

// Tolerance for floating point comparisons
const FloatTolerance = 0.1

// thinRectLimit is the thickness under which a filled rectangle is drawn as a
// rule rather than a box
const thinRectLimit = 2.0

func isHorizontal(l LineObject) bool {
	return math.Abs(l.Y0-l.Y1) < FloatTolerance
}

func isVertical(l LineObject) bool {
	return math.Abs(l.X0-l.X1) < FloatTolerance
}

// normalizeLine orders the endpoints so X0 <= X1 and Y0 <= Y1
func normalizeLine(l LineObject) LineObject {
	if l.X0 > l.X1 {
		l.X0, l.X1 = l.X1, l.X0
	}
	if l.Y0 > l.Y1 {
		l.Y0, l.Y1 = l.Y1, l.Y0
	}
	return l
}

// CollectEdges returns the horizontal and vertical rulings drawn on a page.
// Straight lines are used as is; every rectangle contributes its four sides,
// or a single centre line when it is thin enough to be a rule.
func CollectEdges(objects Objects) (horizontal, vertical []LineObject) {
	add := func(l LineObject) {
		l = normalizeLine(l)
		switch {
		case isHorizontal(l) && l.X1-l.X0 > FloatTolerance:
			horizontal = append(horizontal, l)
		case isVertical(l) && l.Y1-l.Y0 > FloatTolerance:
			vertical = append(vertical, l)
		}
	}

	for _, l := range objects.Lines {
		add(l)
	}

	for _, r := range objects.Rects {
		w, h := r.X1-r.X0, r.Y1-r.Y0
		switch {
		case h < thinRectLimit && w >= thinRectLimit:
			y := (r.Y0 + r.Y1) / 2
			add(LineObject{X0: r.X0, Y0: y, X1: r.X1, Y1: y, Width: h})
		case w < thinRectLimit && h >= thinRectLimit:
			x := (r.X0 + r.X1) / 2
			add(LineObject{X0: x, Y0: r.Y0, X1: x, Y1: r.Y1, Width: w})
		default:
			add(LineObject{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y0, Width: r.Width})
			add(LineObject{X0: r.X0, Y0: r.Y1, X1: r.X1, Y1: r.Y1, Width: r.Width})
			add(LineObject{X0: r.X0, Y0: r.Y0, X1: r.X0, Y1: r.Y1, Width: r.Width})
			add(LineObject{X0: r.X1, Y0: r.Y0, X1: r.X1, Y1: r.Y1, Width: r.Width})
		}
	}

	return horizontal, vertical
}

// SnapLines moves rulings whose positions lie within tolerance of each other
// onto their common mean, so slightly offset strokes share one grid line
func SnapLines(lines []LineObject, tolerance float64, horizontal bool) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	pos := func(l LineObject) float64 {
		if horizontal {
			return l.Y0
		}
		return l.X0
	}

	sorted := make([]LineObject, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return pos(sorted[i]) < pos(sorted[j])
	})

	result := make([]LineObject, 0, len(sorted))
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && pos(sorted[i])-pos(sorted[start]) <= tolerance {
			continue
		}

		sum := 0.0
		for _, l := range sorted[start:i] {
			sum += pos(l)
		}
		mean := sum / float64(i-start)

		for _, l := range sorted[start:i] {
			if horizontal {
				l.Y0, l.Y1 = mean, mean
			} else {
				l.X0, l.X1 = mean, mean
			}
			result = append(result, l)
		}
		start = i
	}

	return result
}

// JoinLines merges collinear rulings that overlap or whose ends are no further
// apart than tolerance
func JoinLines(lines []LineObject, tolerance float64, horizontal bool) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	sorted := make([]LineObject, len(lines))
	copy(sorted, lines)
	if horizontal {
		sort.SliceStable(sorted, func(i, j int) bool {
			if math.Abs(sorted[i].Y0-sorted[j].Y0) > FloatTolerance {
				return sorted[i].Y0 < sorted[j].Y0
			}
			return sorted[i].X0 < sorted[j].X0
		})
	} else {
		sort.SliceStable(sorted, func(i, j int) bool {
			if math.Abs(sorted[i].X0-sorted[j].X0) > FloatTolerance {
				return sorted[i].X0 < sorted[j].X0
			}
			return sorted[i].Y0 < sorted[j].Y0
		})
	}

	result := []LineObject{}
	current := sorted[0]

	for _, line := range sorted[1:] {
		if horizontal && math.Abs(line.Y0-current.Y0) < FloatTolerance && line.X0 <= current.X1+tolerance {
			current.X1 = math.Max(current.X1, line.X1)
			current.Width = math.Max(current.Width, line.Width)
			continue
		}
		if !horizontal && math.Abs(line.X0-current.X0) < FloatTolerance && line.Y0 <= current.Y1+tolerance {
			current.Y1 = math.Max(current.Y1, line.Y1)
			current.Width = math.Max(current.Width, line.Width)
			continue
		}

		// Different line, save current and start new
		result = append(result, current)
		current = line
	}

	// Add the last line
	result = append(result, current)

	return result
}

// MergeEdges snaps and joins both sets of rulings
func MergeEdges(horizontal, vertical []LineObject, snapTolerance, joinTolerance float64) ([]LineObject, []LineObject) {
	horizontal = JoinLines(SnapLines(horizontal, snapTolerance, true), joinTolerance, true)
	vertical = JoinLines(SnapLines(vertical, snapTolerance, false), joinTolerance, false)
	return horizontal, vertical
}

// DeduplicateLines removes duplicate lines based on coordinates
func DeduplicateLines(lines []LineObject) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	result := []LineObject{}
	for _, curr := range lines {
		duplicate := false
		for _, seen := range result {
			if linesEqual(seen, curr) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			result = append(result, curr)
		}
	}

	return result
}

// linesEqual checks if two lines are essentially the same
func linesEqual(a, b LineObject) bool {
	// Check both directions (lines might be reversed)
	sameDirection := math.Abs(a.X0-b.X0) < FloatTolerance &&
		math.Abs(a.Y0-b.Y0) < FloatTolerance &&
		math.Abs(a.X1-b.X1) < FloatTolerance &&
		math.Abs(a.Y1-b.Y1) < FloatTolerance

	reversedDirection := math.Abs(a.X0-b.X1) < FloatTolerance &&
		math.Abs(a.Y0-b.Y1) < FloatTolerance &&
		math.Abs(a.X1-b.X0) < FloatTolerance &&
		math.Abs(a.Y1-b.Y0) < FloatTolerance

	return sameDirection || reversedDirection
}
