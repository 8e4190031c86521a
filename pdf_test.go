package pdfexactor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FlowerFish/PDF-Exactor/internal/testpdf"
)

func writeSample(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenPDF(t *testing.T) {
	doc, err := Open(writeSample(t, testpdf.SinglePage("Dummy PDF file")))
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 1 {
		t.Errorf("Expected 1 page, got %d", doc.PageCount())
	}
	if doc.Backend() != BackendLedongthuc {
		t.Errorf("Expected the ledongthuc parser first, got %s", doc.Backend())
	}
}

func TestExtractText(t *testing.T) {
	doc, err := Open(writeSample(t, testpdf.SinglePage("Dummy PDF file", "second line")))
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	page, err := doc.GetPage(0)
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}

	if text := page.ExtractText(); text != "Dummy PDF file\nsecond line" {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestPageProperties(t *testing.T) {
	for _, backend := range []Backend{BackendLedongthuc, BackendDslipak, BackendPDFCPU} {
		t.Run(string(backend), func(t *testing.T) {
			doc, err := OpenBytes(testpdf.SinglePage("x"), backend)
			if err != nil {
				t.Fatalf("Failed to open PDF: %v", err)
			}
			defer doc.Close()

			page, err := doc.GetPage(0)
			if err != nil {
				t.Fatalf("Failed to get page: %v", err)
			}
			if page.GetPageNumber() != 1 {
				t.Errorf("Expected page number 1, got %d", page.GetPageNumber())
			}
			// US Letter
			if page.GetWidth() != 612 || page.GetHeight() != 792 {
				t.Errorf("Unexpected page size: %.2f x %.2f", page.GetWidth(), page.GetHeight())
			}
		})
	}
}

func TestGetObjects(t *testing.T) {
	doc, err := OpenBytes(testpdf.SinglePage("Dummy"), BackendAuto)
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	page, err := doc.GetPage(0)
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}

	objects := page.GetObjects()
	if len(objects.Chars) != 5 {
		t.Fatalf("Expected 5 characters, got %d", len(objects.Chars))
	}
	if objects.Chars[0].Text != "D" {
		t.Errorf("Expected first character to be 'D', got '%s'", objects.Chars[0].Text)
	}
	for i := 1; i < len(objects.Chars); i++ {
		if objects.Chars[i].X0 <= objects.Chars[i-1].X0 {
			t.Errorf("Characters out of reading order at %d", i)
		}
	}
}
