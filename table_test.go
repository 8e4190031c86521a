package pdfexactor

import (
	"math"
	"reflect"
	"testing"

	"github.com/FlowerFish/PDF-Exactor/internal/testpdf"
)

func tablePDF() []byte {
	b := testpdf.New()
	b.AddPage().
		Text(72, 740, 12, "Quarterly report").
		Table(72, 700, []float64{120, 80, 80}, 20, [][]string{
			{"Region", "Q1", "Q2"},
			{"North", "10", "12"},
			{"South", "7", "9"},
		})
	return b.Bytes()
}

func TestTableExtraction(t *testing.T) {
	doc, err := OpenBytes(tablePDF(), BackendAuto)
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	page, err := doc.GetPage(0)
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}

	tables := page.ExtractTables()
	if len(tables) != 1 {
		t.Fatalf("Found %d tables, want 1", len(tables))
	}

	want := [][]string{
		{"Region", "Q1", "Q2"},
		{"North", "10", "12"},
		{"South", "7", "9"},
	}
	if got := tables[0].Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows = %v, want %v", got, want)
	}
	if tables[0].ColumnCount() != 3 {
		t.Errorf("ColumnCount() = %d, want 3", tables[0].ColumnCount())
	}
	bbox := tables[0].BBox
	t.Logf("BBox: (%.2f, %.2f) to (%.2f, %.2f)", bbox.X0, bbox.Y0, bbox.X1, bbox.Y1)
	if math.Abs(bbox.X0-72) > 0.5 || math.Abs(bbox.X1-352) > 0.5 {
		t.Errorf("Unexpected table width: %.2f to %.2f", bbox.X0, bbox.X1)
	}
}

func TestTableExtractionWithOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []TableExtractionOption
		want int
	}{
		{name: "Defaults", want: 1},
		{name: "Minimum three rows", opts: []TableExtractionOption{WithMinTableSize(3)}, want: 1},
		{name: "Minimum four rows", opts: []TableExtractionOption{WithMinTableSize(4)}, want: 0},
		{name: "Wide snap tolerance", opts: []TableExtractionOption{WithSnapTolerance(5)}, want: 1},
	}

	doc, err := OpenBytes(tablePDF(), BackendPDFCPU)
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()
	page, err := doc.GetPage(0)
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(page.ExtractTables(tt.opts...)); got != tt.want {
				t.Errorf("Found %d tables, want %d", got, tt.want)
			}
		})
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		cell Cell
		want string
	}{
		{Cell{Value: "42", Valid: true}, "42"},
		{Cell{Value: "", Valid: true}, ""},
		{Cell{}, "None"},
	}
	for _, tt := range tests {
		if got := tt.cell.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.cell, got, tt.want)
		}
	}
}
