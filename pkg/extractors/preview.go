package extractors

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Preview is an image ready for inline display in a gallery
type Preview struct {
	Index    int
	Caption  string
	Data     []byte
	Format   string // "jpeg", "png", "jp2", ... or "raw" when unknown
	MIMEType string
}

var mimeTypes = map[string]string{
	"jpeg":  "image/jpeg",
	"png":   "image/png",
	"gif":   "image/gif",
	"bmp":   "image/bmp",
	"tiff":  "image/tiff",
	"webp":  "image/webp",
	"jp2":   "image/jp2",
	"jbig2": "image/x-jbig2",
}

// filterFormats maps PDF filters whose streams are complete image files
var filterFormats = map[string]string{
	"DCTDecode":   "jpeg",
	"JPXDecode":   "jp2",
	"JBIG2Decode": "jbig2",
}

// Previews captions every record by its index and sniffs its format
func Previews(records []ImageRecord) []Preview {
	previews := make([]Preview, 0, len(records))
	for _, r := range records {
		format, mime := SniffFormat(r)
		previews = append(previews, Preview{
			Index:    r.Index,
			Caption:  r.FileName(),
			Data:     r.Data,
			Format:   format,
			MIMEType: mime,
		})
	}
	return previews
}

// SniffFormat identifies the encoded format of an image from its header,
// falling back to the PDF filter. Pixel data is never decoded.
func SniffFormat(r ImageRecord) (format, mimeType string) {
	if _, name, err := image.DecodeConfig(bytes.NewReader(r.Data)); err == nil {
		format = name
	} else if f, ok := filterFormats[lastFilter(r.Filter)]; ok {
		format = f
	}

	if mime, ok := mimeTypes[format]; ok {
		return format, mime
	}
	return "raw", "application/octet-stream"
}

// lastFilter returns the filter applied last when decoding, the one that
// yields the image format
func lastFilter(chain string) string {
	if i := strings.LastIndex(chain, ","); i >= 0 {
		return chain[i+1:]
	}
	return chain
}
