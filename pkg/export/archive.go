package export

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/FlowerFish/PDF-Exactor/pkg/extractors"
	"github.com/FlowerFish/PDF-Exactor/pkg/selection"
)

// ErrSelectionMismatch is returned when a selection does not cover exactly
// the images it is applied to
var ErrSelectionMismatch = errors.New("selection does not match image list")

// BuildArchive zips the selected images in ascending index order, each entry
// Deflate-compressed and named image_<index>.png. Entries carry no timestamp,
// so identical input gives identical bytes. An empty selection gives a valid
// empty archive.
func BuildArchive(images []extractors.ImageRecord, sel *selection.Store) ([]byte, error) {
	if sel == nil || sel.Len() != len(images) {
		n := -1
		if sel != nil {
			n = sel.Len()
		}
		return nil, errors.Wrapf(ErrSelectionMismatch, "%d images, %d selection entries", len(images), n)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, i := range sel.SelectedIndices() {
		img := images[i]
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   extractors.ImageFileName(i),
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", extractors.ImageFileName(i), err)
		}
		if _, err := w.Write(img.Data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", extractors.ImageFileName(i), err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return buf.Bytes(), nil
}
