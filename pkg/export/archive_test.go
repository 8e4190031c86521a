package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/FlowerFish/PDF-Exactor/pkg/extractors"
	"github.com/FlowerFish/PDF-Exactor/pkg/selection"
)

func images(n int) []extractors.ImageRecord {
	records := make([]extractors.ImageRecord, n)
	for i := range records {
		records[i] = extractors.ImageRecord{
			Index: i,
			Data:  bytes.Repeat([]byte{byte('a' + i)}, 100+i),
		}
	}
	return records
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("invalid zip: %v", err)
	}
	entries := make(map[string][]byte)
	for _, f := range zr.File {
		if f.Method != zip.Deflate {
			t.Errorf("%s stored with method %d, want Deflate", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		if _, dup := entries[f.Name]; dup {
			t.Errorf("duplicate entry %s", f.Name)
		}
		entries[f.Name] = body
	}
	return entries
}

func entryNames(t *testing.T, data []byte) []string {
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

func TestBuildArchiveSelection(t *testing.T) {
	tests := []struct {
		name string
		pick func(*selection.Store)
		want []string
	}{
		{
			name: "Everything selected",
			pick: func(*selection.Store) {},
			want: []string{"image_0.png", "image_1.png", "image_2.png", "image_3.png", "image_4.png"},
		},
		{
			name: "Indices one and three",
			pick: func(s *selection.Store) {
				s.SetAll(false)
				s.SetOne(1, true)
				s.SetOne(3, true)
			},
			want: []string{"image_1.png", "image_3.png"},
		},
		{
			name: "Nothing selected",
			pick: func(s *selection.Store) { s.SetAll(false) },
			want: []string{},
		},
	}

	records := images(5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := selection.New(len(records))
			tt.pick(sel)

			data, err := BuildArchive(records, sel)
			if err != nil {
				t.Fatalf("BuildArchive() error = %v", err)
			}
			if got := entryNames(t, data); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("entries = %v, want %v", got, tt.want)
			}
			if n := len(entryNames(t, data)); n != sel.SelectedCount() {
				t.Errorf("%d entries for %d selected images", n, sel.SelectedCount())
			}

			for name, body := range readArchive(t, data) {
				var idx int
				for i := range records {
					if records[i].FileName() == name {
						idx = i
					}
				}
				if !bytes.Equal(body, records[idx].Data) {
					t.Errorf("%s content changed", name)
				}
			}
		})
	}
}

func TestBuildArchiveDeterministic(t *testing.T) {
	records := images(3)
	sel := selection.New(3)
	sel.SetOne(0, false)

	first, err := BuildArchive(records, sel)
	if err != nil {
		t.Fatalf("BuildArchive() error = %v", err)
	}
	second, err := BuildArchive(records, sel)
	if err != nil {
		t.Fatalf("BuildArchive() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical input produced different archives")
	}
}

func TestBuildArchiveMismatch(t *testing.T) {
	if _, err := BuildArchive(images(3), selection.New(2)); !errors.Is(err, ErrSelectionMismatch) {
		t.Errorf("error = %v, want ErrSelectionMismatch", err)
	}
	if _, err := BuildArchive(images(1), nil); !errors.Is(err, ErrSelectionMismatch) {
		t.Errorf("nil selection error = %v, want ErrSelectionMismatch", err)
	}
}

func TestDownloads(t *testing.T) {
	text := TextDownload([]byte("x"))
	if text.FileName != "converted_output.txt" || text.MIMEType != "text/plain" {
		t.Errorf("text download = %+v", text)
	}
	archive := ArchiveDownload(nil)
	if archive.FileName != "selected_images.zip" || archive.MIMEType != "application/zip" {
		t.Errorf("archive download = %+v", archive)
	}
}
