package pdf

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/FlowerFish/PDF-Exactor/internal/testpdf"
)

var allBackends = []Backend{BackendLedongthuc, BackendDslipak, BackendPDFCPU}

func TestOpenBytesText(t *testing.T) {
	data := testpdf.SinglePage("Hello World", "Second line")

	for _, backend := range allBackends {
		t.Run(string(backend), func(t *testing.T) {
			doc, err := OpenBytes(data, backend)
			if err != nil {
				t.Fatalf("OpenBytes() error = %v", err)
			}
			defer doc.Close()

			if doc.Backend() != backend {
				t.Errorf("Backend() = %s, want %s", doc.Backend(), backend)
			}
			if doc.PageCount() != 1 {
				t.Fatalf("PageCount() = %d, want 1", doc.PageCount())
			}

			page, err := doc.GetPage(0)
			if err != nil {
				t.Fatalf("GetPage(0) error = %v", err)
			}
			if page.GetWidth() != testpdf.PageWidth || page.GetHeight() != testpdf.PageHeight {
				t.Errorf("page size = %.0fx%.0f", page.GetWidth(), page.GetHeight())
			}

			if got := page.ExtractText(); got != "Hello World\nSecond line" {
				t.Errorf("ExtractText() = %q", got)
			}

			chars := page.GetObjects().Chars
			if len(chars) == 0 {
				t.Fatal("no characters extracted")
			}
			// Courier advances 0.6 of the font size
			if h := chars[0]; abs(h.X0-72) > 0.5 || abs(h.Width-7.2) > 0.5 {
				t.Errorf("first glyph box = %+v", h)
			}
		})
	}
}

func TestOpenBytesTables(t *testing.T) {
	b := testpdf.New()
	b.AddPage().
		Text(72, 740, 12, "Inventory").
		Table(72, 700, []float64{100, 100}, 20, [][]string{
			{"Name", "Qty"},
			{"Apple", "3"},
		})
	data := b.Bytes()

	for _, backend := range allBackends {
		t.Run(string(backend), func(t *testing.T) {
			doc, err := OpenBytes(data, backend)
			if err != nil {
				t.Fatalf("OpenBytes() error = %v", err)
			}
			defer doc.Close()

			page, _ := doc.GetPage(0)
			tables := page.ExtractTables()
			if len(tables) != 1 {
				t.Fatalf("found %d tables, want 1", len(tables))
			}
			want := [][]string{{"Name", "Qty"}, {"Apple", "3"}}
			if got := tables[0].Strings(); !reflect.DeepEqual(got, want) {
				t.Errorf("table = %q, want %q", got, want)
			}
		})
	}
}

func TestOpenBytesPages(t *testing.T) {
	b := testpdf.New()
	b.AddPage().Text(72, 720, 12, "one")
	b.AddPage()
	b.AddPage().Text(72, 720, 12, "three")

	doc, err := OpenBytes(b.Bytes(), BackendAuto)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	defer doc.Close()

	if doc.Backend() != BackendLedongthuc {
		t.Errorf("auto picked %s, want %s", doc.Backend(), BackendLedongthuc)
	}

	var texts []string
	for i, page := range doc.GetPages() {
		if page.GetPageNumber() != i+1 {
			t.Errorf("page %d reports number %d", i+1, page.GetPageNumber())
		}
		texts = append(texts, page.ExtractText())
	}
	if want := []string{"one", "", "three"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("page texts = %q, want %q", texts, want)
	}

	if _, err := doc.GetPage(3); err == nil {
		t.Error("GetPage(3) should fail on a three page document")
	}
}

func TestOpenBytesPDFCPUGraphics(t *testing.T) {
	b := testpdf.New()
	b.AddPage().
		Line(72, 500, 272, 500).
		Raw("0 0 1 rg 100 100 50 50 re f")

	doc, err := OpenBytes(b.Bytes(), BackendPDFCPU)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	objects := doc.GetPages()[0].GetObjects()

	if len(objects.Lines) != 1 || objects.Lines[0].Y0 != 292 {
		t.Errorf("lines = %+v", objects.Lines)
	}
	if len(objects.Rects) != 1 || !objects.Rects[0].NonStroking {
		t.Errorf("rects = %+v", objects.Rects)
	}
}

func TestOpenBytesAutoGraphics(t *testing.T) {
	b := testpdf.New()
	b.AddPage().
		Text(72, 740, 12, "Ledger").
		Grid(72, 700, []float64{60, 60}, 20, [][]string{{"A", "B"}, {"C", "D"}})
	form := b.AddDrawing(func(p *testpdf.Page) { p.Text(72, 720, 12, "Boxed") })
	b.AddPage().Form("Fm0", form)

	doc, err := OpenBytes(b.Bytes(), BackendAuto)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	defer doc.Close()

	if doc.Backend() != BackendLedongthuc {
		t.Errorf("auto picked %s, want %s", doc.Backend(), BackendLedongthuc)
	}

	first := doc.GetPages()[0]
	// Three row rules and three column rules
	if n := len(first.GetObjects().Lines); n != 6 {
		t.Errorf("got %d ruling lines, want 6", n)
	}
	tables := first.ExtractTables()
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	if got := tables[0].Strings(); !reflect.DeepEqual(got, [][]string{{"A", "B"}, {"C", "D"}}) {
		t.Errorf("table = %q", got)
	}

	if got := doc.GetPages()[1].ExtractText(); got != "Boxed" {
		t.Errorf("form page text = %q, want %q", got, "Boxed")
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	for _, backend := range append([]Backend{BackendAuto}, allBackends...) {
		if _, err := OpenBytes([]byte("this is not a PDF"), backend); err == nil {
			t.Errorf("%s: expected an error", backend)
		}
	}
	if _, err := OpenBytes(nil, BackendAuto); err == nil {
		t.Error("empty input should fail")
	}
	if _, err := OpenBytes(testpdf.SinglePage("x"), Backend("mupdf")); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, testpdf.SinglePage("from disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer doc.Close()
	if page, _ := doc.GetPage(0); page.ExtractText() != "from disk" {
		t.Errorf("ExtractText() = %q", page.ExtractText())
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Open() on a missing file should fail")
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", BackendAuto, false},
		{"auto", BackendAuto, false},
		{" PDFCPU ", BackendPDFCPU, false},
		{"ledongthuc", BackendLedongthuc, false},
		{"dslipak", BackendDslipak, false},
		{"poppler", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackend(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBackend(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
