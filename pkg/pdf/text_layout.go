package pdf

import (
	"sort"
	"strings"
)

// TextOrganizer organizes character objects into lines and words
type TextOrganizer struct {
	xTolerance float64 // Horizontal gap that separates two words
	yTolerance float64 // Vertical drift still counted as the same line
}

// NewTextOrganizer creates a new text organizer with the given tolerances
func NewTextOrganizer(xTol, yTol float64) *TextOrganizer {
	return &TextOrganizer{
		xTolerance: xTol,
		yTolerance: yTol,
	}
}

// OrganizeText lays characters out top to bottom, left to right. Lines are
// joined with "\n" and trailing spaces are trimmed from every line.
func (to *TextOrganizer) OrganizeText(chars []CharObject) string {
	lines := to.GroupIntoLines(chars)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		text := strings.TrimRight(to.lineText(line), " ")
		if text == "" {
			continue
		}
		out = append(out, text)
	}
	return strings.Join(out, "\n")
}

// GroupIntoLines clusters characters whose tops lie within the y tolerance of
// the first character of the line. Each line is sorted left to right.
func (to *TextOrganizer) GroupIntoLines(chars []CharObject) [][]CharObject {
	sorted := make([]CharObject, 0, len(chars))
	for _, c := range chars {
		if c.Text == "" || c.Text == "\n" || c.Text == "\r" {
			continue
		}
		sorted = append(sorted, c)
	}
	if len(sorted) == 0 {
		return nil
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y0 < sorted[j].Y0
	})

	var lines [][]CharObject
	current := []CharObject{sorted[0]}
	top := sorted[0].Y0
	for _, c := range sorted[1:] {
		if c.Y0-top > to.yTolerance {
			lines = append(lines, current)
			current = []CharObject{c}
			top = c.Y0
			continue
		}
		current = append(current, c)
	}
	lines = append(lines, current)

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X0 < line[j].X0
		})
	}
	return lines
}

// lineText renders one sorted line, inserting a space wherever the gap to the
// previous glyph exceeds the x tolerance and no space glyph is already there
func (to *TextOrganizer) lineText(line []CharObject) string {
	var b strings.Builder
	for i, c := range line {
		if i > 0 {
			prev := line[i-1]
			if c.X0-prev.X1 > to.xTolerance && !prev.isSpace() && !c.isSpace() {
				b.WriteByte(' ')
			}
		}
		b.WriteString(c.Text)
	}
	return b.String()
}

// ExtractWords splits every line into words at space glyphs and wide gaps
func (to *TextOrganizer) ExtractWords(chars []CharObject) []Word {
	var words []Word
	for _, line := range to.GroupIntoLines(chars) {
		var current []CharObject
		for i, c := range line {
			if c.isSpace() {
				words = appendWord(words, current)
				current = nil
				continue
			}
			if i > 0 && len(current) > 0 && c.X0-line[i-1].X1 > to.xTolerance {
				words = appendWord(words, current)
				current = nil
			}
			current = append(current, c)
		}
		words = appendWord(words, current)
	}
	return words
}

func appendWord(words []Word, chars []CharObject) []Word {
	if len(chars) == 0 {
		return words
	}
	return append(words, createWord(chars))
}

// createWord creates a Word from a group of characters
func createWord(chars []CharObject) Word {
	var text strings.Builder
	box := chars[0].GetBBox()
	for _, c := range chars {
		text.WriteString(c.Text)
		box = box.Union(c.GetBBox())
	}

	return Word{
		Text:       text.String(),
		X0:         box.X0,
		Y0:         box.Y0,
		X1:         box.X1,
		Y1:         box.Y1,
		Characters: chars,
	}
}
