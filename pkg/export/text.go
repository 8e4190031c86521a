// Package export turns extraction results into downloadable files.
package export

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/FlowerFish/PDF-Exactor/pkg/extractors"
	"github.com/FlowerFish/PDF-Exactor/pkg/pdf"
)

// CellSeparator joins the cells of a table row in text output
const CellSeparator = " | "

// SerializeText renders pages as plain text. Pages without text contribute
// only their tables; with markers enabled each text block is preceded by a
// "--- Page n ---" line.
func SerializeText(pages []extractors.Page, includePageMarkers bool) []byte {
	var buf bytes.Buffer
	// bytes.Buffer never fails a write
	_ = WriteText(&buf, pages, includePageMarkers)
	return buf.Bytes()
}

// WriteText streams the SerializeText output to w
func WriteText(w io.Writer, pages []extractors.Page, includePageMarkers bool) error {
	bw := bufio.NewWriter(w)
	for _, page := range pages {
		if page.HasText() {
			if includePageMarkers {
				fmt.Fprintf(bw, "--- Page %d ---\n", page.Number)
			}
			bw.WriteString(page.Text)
			bw.WriteString("\n\n")
		}

		for _, table := range page.Tables {
			fmt.Fprintf(bw, "--- Table on Page %d ---\n", page.Number)
			for _, row := range table.Rows {
				bw.WriteString(FormatRow(row))
				bw.WriteByte('\n')
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// FormatRow joins a table row, absent cells rendered as None
func FormatRow(row []pdf.Cell) string {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = c.String()
	}
	return strings.Join(cells, CellSeparator)
}
