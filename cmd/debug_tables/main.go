package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	pdfexactor "github.com/FlowerFish/PDF-Exactor"
)

const maxColumnWidth = 30

func main() {
	backend := flag.String("backend", string(pdfexactor.BackendAuto), "parser backend: auto, ledongthuc, dslipak or pdfcpu")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: debug_tables [-backend name] <pdf_file>")
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}
	doc, err := pdfexactor.OpenBytes(data, pdfexactor.Backend(*backend))
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	fmt.Printf("Document has %d pages (%s)\n\n", doc.PageCount(), doc.Backend())

	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.GetPage(i)
		if err != nil {
			log.Printf("Failed to get page %d: %v", i+1, err)
			continue
		}

		fmt.Printf("=== Page %d ===\n", i+1)
		objects := page.GetObjects()
		fmt.Printf("  %d chars, %d lines, %d rects\n", len(objects.Chars), len(objects.Lines), len(objects.Rects))

		strategies := []struct {
			name string
			opts []pdfexactor.TableExtractionOption
		}{
			{
				name: "Line-based (default)",
				opts: []pdfexactor.TableExtractionOption{},
			},
			{
				name: "Text-based",
				opts: []pdfexactor.TableExtractionOption{
					pdfexactor.WithTableStrategy("text", "text"),
				},
			},
		}

		for _, strategy := range strategies {
			fmt.Printf("\nStrategy: %s\n", strategy.name)
			tables := page.ExtractTables(strategy.opts...)

			if len(tables) == 0 {
				fmt.Println("  No tables found")
				continue
			}

			fmt.Printf("  Found %d table(s)\n", len(tables))

			for j, table := range tables {
				fmt.Printf("\n  Table %d:\n", j+1)
				fmt.Printf("    Dimensions: %d rows x %d columns\n", len(table.Rows), table.ColumnCount())
				fmt.Printf("    BBox: (%.2f, %.2f) to (%.2f, %.2f)\n",
					table.BBox.X0, table.BBox.Y0, table.BBox.X1, table.BBox.Y1)

				printTable(table.Strings())
			}
		}

		fmt.Println()
	}
}

// printTable prints a table with columns sized by display width, so wide
// CJK glyphs stay aligned
func printTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	colWidths := make([]int, cols)
	for _, row := range rows {
		for j, cell := range row {
			if w := runewidth.StringWidth(strings.TrimSpace(cell)); w > colWidths[j] {
				colWidths[j] = w
			}
		}
	}
	for i := range colWidths {
		colWidths[i] = max(3, min(colWidths[i], maxColumnWidth))
	}

	printSeparator(colWidths)
	for i, row := range rows {
		fmt.Print("    |")
		for j, width := range colWidths {
			cell := ""
			if j < len(row) {
				cell = runewidth.Truncate(strings.TrimSpace(row[j]), width, "...")
			}
			fmt.Printf(" %s |", runewidth.FillRight(cell, width))
		}
		fmt.Println()

		// Header separator
		if i == 0 {
			printSeparator(colWidths)
		}
	}
	printSeparator(colWidths)
}

func printSeparator(colWidths []int) {
	fmt.Print("    +")
	for _, width := range colWidths {
		fmt.Print(strings.Repeat("-", width+2) + "+")
	}
	fmt.Println()
}
