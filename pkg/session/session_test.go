package session

import (
	"archive/zip"
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/FlowerFish/PDF-Exactor/internal/testpdf"
	"github.com/FlowerFish/PDF-Exactor/pkg/config"
	"github.com/FlowerFish/PDF-Exactor/pkg/extractors"
)

// imagePDF returns a one page document drawing n distinct images
func imagePDF(n int) []byte {
	b := testpdf.New()
	page := b.AddPage()
	for i := 0; i < n; i++ {
		ref := b.AddImage(bytes.Repeat([]byte{byte(10 * (i + 1))}, i+2))
		page.Image("Im"+string(rune('0'+i)), ref)
	}
	return b.Bytes()
}

func archiveNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("invalid zip: %v", err)
	}
	names := []string{}
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestConvertTextWithMarkers(t *testing.T) {
	b := testpdf.New()
	b.AddPage().Text(72, 720, 12, "alpha")
	b.AddPage()
	b.AddPage().Text(72, 720, 12, "gamma")

	s := New(config.Default(), nil)
	if s.PageMarkers() {
		t.Fatal("page markers are on by default")
	}
	if !s.TogglePageMarkers() {
		t.Fatal("TogglePageMarkers() did not turn markers on")
	}

	dl, err := s.ConvertText(b.Bytes())
	if err != nil {
		t.Fatalf("ConvertText() error = %v", err)
	}
	want := "--- Page 1 ---\nalpha\n\n--- Page 3 ---\ngamma\n\n"
	if string(dl.Data) != want {
		t.Errorf("output = %q, want %q", dl.Data, want)
	}
	if dl.FileName != "converted_output.txt" || dl.MIMEType != "text/plain" {
		t.Errorf("download = %s %s", dl.FileName, dl.MIMEType)
	}

	s.SetPageMarkers(false)
	dl, err = s.ConvertText(b.Bytes())
	if err != nil {
		t.Fatalf("ConvertText() error = %v", err)
	}
	if strings.Contains(string(dl.Data), "--- Page") {
		t.Errorf("markers present after disabling: %q", dl.Data)
	}
}

func TestConvertTextWithTable(t *testing.T) {
	rows := [][]string{{"a", "1"}, {"b", "2"}}
	tests := []struct {
		name string
		draw func(*testpdf.Page)
	}{
		{name: "Cell rectangles", draw: func(p *testpdf.Page) { p.Table(72, 700, []float64{100, 100}, 20, rows) }},
		{name: "Ruling lines", draw: func(p *testpdf.Page) { p.Grid(72, 700, []float64{100, 100}, 20, rows) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testpdf.New()
			tt.draw(b.AddPage().Text(72, 740, 12, "Totals"))

			s := New(config.Default(), nil)
			dl, err := s.ConvertText(b.Bytes())
			if err != nil {
				t.Fatalf("ConvertText() error = %v", err)
			}

			out := string(dl.Data)
			if !strings.Contains(out, "--- Table on Page 1 ---\na | 1\nb | 2\n\n") {
				t.Errorf("table block missing from %q", out)
			}
			// Cell text is part of the page text too
			if !strings.HasPrefix(out, "Totals\n") {
				t.Errorf("page text should come first: %q", out)
			}
		})
	}
}

func TestExtractAndSelect(t *testing.T) {
	s := New(config.Default(), nil)

	n, err := s.ExtractImages(imagePDF(5))
	if err != nil {
		t.Fatalf("ExtractImages() error = %v", err)
	}
	if n != 5 || s.ImageCount() != 5 {
		t.Fatalf("extracted %d images, ImageCount() = %d, want 5", n, s.ImageCount())
	}
	if s.SelectedCount() != 5 {
		t.Errorf("SelectedCount() = %d, want every image selected", s.SelectedCount())
	}

	s.SetAll(false)
	if s.SelectedCount() != 0 {
		t.Errorf("SelectedCount() after SetAll(false) = %d", s.SelectedCount())
	}
	if _, err := s.Archive(); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("Archive() with nothing selected: err = %v", err)
	}

	s.SetOne(1, true)
	s.SetOne(3, true)
	if !s.Selected(1) || s.Selected(2) {
		t.Error("Selected() does not reflect SetOne")
	}
	if got := s.SelectedIndices(); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("SelectedIndices() = %v", got)
	}

	dl, err := s.Archive()
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if dl.FileName != "selected_images.zip" || dl.MIMEType != "application/zip" {
		t.Errorf("download = %s %s", dl.FileName, dl.MIMEType)
	}
	if got := archiveNames(t, dl.Data); !reflect.DeepEqual(got, []string{"image_1.png", "image_3.png"}) {
		t.Errorf("archive entries = %v", got)
	}

	previews := s.Previews()
	if len(previews) != 5 || previews[4].Caption != "image_4.png" {
		t.Errorf("previews = %+v", previews)
	}
}

func TestNewExtractionResetsSelection(t *testing.T) {
	s := New(config.Default(), nil)
	if _, err := s.ExtractImages(imagePDF(4)); err != nil {
		t.Fatal(err)
	}
	s.SetAll(false)

	if _, err := s.ExtractImages(imagePDF(2)); err != nil {
		t.Fatal(err)
	}
	if s.ImageCount() != 2 || s.SelectedCount() != 2 {
		t.Errorf("after second extraction: %d images, %d selected", s.ImageCount(), s.SelectedCount())
	}
}

func TestFailedExtraction(t *testing.T) {
	tests := []struct {
		name      string
		keep      bool
		wantCount int
	}{
		{name: "Previous images are cleared", keep: false, wantCount: 0},
		{name: "Previous images are kept when configured", keep: true, wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Images.KeepPreviousOnError = tt.keep
			s := New(cfg, nil)

			if _, err := s.ExtractImages(imagePDF(3)); err != nil {
				t.Fatal(err)
			}
			s.SetOne(0, false)

			n, err := s.ExtractImages([]byte("definitely not a pdf"))
			var extErr *extractors.ExtractionError
			if !errors.As(err, &extErr) {
				t.Fatalf("error = %v, want an ExtractionError", err)
			}
			if n != 0 {
				t.Errorf("failed extraction reported %d images", n)
			}
			if s.ImageCount() != tt.wantCount || s.SelectedCount() != max(tt.wantCount-1, 0) {
				t.Errorf("after failure: %d images, %d selected", s.ImageCount(), s.SelectedCount())
			}
		})
	}
}

func TestFailedConversionKeepsImages(t *testing.T) {
	s := New(config.Default(), nil)
	if _, err := s.ExtractImages(imagePDF(2)); err != nil {
		t.Fatal(err)
	}

	dl, err := s.ConvertText([]byte("%PDF-1.4 but nothing else"))
	if dl != nil {
		t.Errorf("partial download returned: %+v", dl)
	}
	var extErr *extractors.ExtractionError
	if !errors.As(err, &extErr) || extErr.Op != extractors.OpText {
		t.Fatalf("error = %v, want a text ExtractionError", err)
	}
	if s.ImageCount() != 2 || s.SelectedCount() != 2 {
		t.Errorf("text failure changed image state: %d images, %d selected", s.ImageCount(), s.SelectedCount())
	}
}

func TestZeroConfig(t *testing.T) {
	b := testpdf.New()
	form := b.AddForm(map[string]testpdf.ImageRef{"Im0": b.AddImage([]byte{7, 7})})
	b.AddPage().
		Form("Fm0", form).
		Grid(72, 700, []float64{100, 100}, 20, [][]string{{"k", "v"}})
	data := b.Bytes()

	s := New(config.Config{}, nil)
	if n, err := s.ExtractImages(data); err != nil || n != 1 {
		t.Errorf("ExtractImages() = %d, %v; want the image inside the form", n, err)
	}
	dl, err := s.ConvertText(data)
	if err != nil {
		t.Fatalf("ConvertText() error = %v", err)
	}
	if !strings.Contains(string(dl.Data), "--- Table on Page 1 ---\nk | v\n") {
		t.Errorf("table missing from %q", dl.Data)
	}
}

func TestArchiveBeforeExtraction(t *testing.T) {
	s := New(config.Default(), nil)
	if _, err := s.Archive(); !errors.Is(err, ErrNoImages) {
		t.Errorf("Archive() error = %v, want ErrNoImages", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	a := New(config.Default(), nil)
	b := New(config.Default(), nil)
	if _, err := a.ExtractImages(imagePDF(3)); err != nil {
		t.Fatal(err)
	}
	if b.ImageCount() != 0 {
		t.Errorf("second session sees %d images", b.ImageCount())
	}
}

func TestSessionLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := New(config.Default(), logger)

	if _, err := s.ExtractImages([]byte("nope")); err == nil {
		t.Fatal("expected an error")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Message != "image extraction failed" {
		t.Fatalf("last entry = %+v", entry)
	}
	if _, ok := entry.Data[logrus.ErrorKey]; !ok {
		t.Error("warning carries no error field")
	}
}
