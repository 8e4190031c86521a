package extractors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FlowerFish/PDF-Exactor/pkg/pdf"
)

// backendPDFCPU names the parser used for image extraction in errors
const backendPDFCPU = string(pdf.BackendPDFCPU)

// ImageRecord is one occurrence of an image XObject. The same object drawn
// from two pages yields two records.
type ImageRecord struct {
	Index        int    // zero-based, in extraction order
	Page         int    // 1-based page the image was found on
	Name         string // resource name, e.g. "Im0"
	ObjectNumber int    // 0 for direct objects
	Filter       string // filter chain as stored, e.g. "DCTDecode"
	Width        int
	Height       int
	Data         []byte // encoded stream bytes exactly as stored in the file
}

// FileName is the name the image is offered and archived under
func (r ImageRecord) FileName() string {
	return ImageFileName(r.Index)
}

// ImageFileName returns the output name for the image at index. The
// extension is always .png whatever the encoded format.
func ImageFileName(index int) string {
	return fmt.Sprintf("image_%d.png", index)
}

// ImageExtractor collects the raw bytes of every image a document draws
type ImageExtractor struct {
	logger   logrus.FieldLogger
	maxDepth int
}

// ImageOption configures an ImageExtractor
type ImageOption func(*ImageExtractor)

// WithImageLogger sets the logger for an ImageExtractor
func WithImageLogger(logger logrus.FieldLogger) ImageOption {
	return func(e *ImageExtractor) {
		e.logger = logger
	}
}

// WithFormDepth limits how deep nested Form XObjects are searched; 0 ignores
// forms entirely
func WithFormDepth(depth int) ImageOption {
	return func(e *ImageExtractor) {
		e.maxDepth = depth
	}
}

// NewImageExtractor creates an image extractor
func NewImageExtractor(opts ...ImageOption) *ImageExtractor {
	e := &ImageExtractor{
		logger:   discardLogger(),
		maxDepth: 8,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the images of every page in page order. pdfcpu hands
// resource dictionaries over as maps, so the order of names in the file is
// not available; within a page XObjects are visited in natural name order
// (Im2 before Im10) instead, which keeps repeated runs identical. Images
// inside Form XObjects are reported where the form's name sorts.
func (e *ImageExtractor) Extract(data []byte) ([]ImageRecord, error) {
	if err := checkHeader(data); err != nil {
		return nil, newExtractionError(OpImages, "", err)
	}

	var records []ImageRecord
	err := guard(func() error {
		ctx, err := pdf.ReadContext(data)
		if err != nil {
			return err
		}

		w := &imageWalker{ctx: ctx, maxDepth: e.maxDepth, forms: make(map[int]bool)}
		for n := 1; n <= ctx.PageCount; n++ {
			_, _, attrs, err := ctx.PageDict(n, true)
			if err != nil {
				return errors.WithMessagef(err, "failed to read page %d", n)
			}
			if attrs == nil || attrs.Resources == nil {
				continue
			}
			before := len(w.records)
			if err := w.walk(attrs.Resources, n, 0); err != nil {
				return errors.WithMessagef(err, "page %d", n)
			}
			e.logger.WithFields(logrus.Fields{
				"op":     OpImages,
				"page":   n,
				"images": len(w.records) - before,
			}).Debug("scanned page")
		}
		records = w.records
		return nil
	})
	if err != nil {
		return nil, newExtractionError(OpImages, backendPDFCPU, err)
	}

	e.logger.WithFields(logrus.Fields{"op": OpImages, "images": len(records)}).Info("image extraction finished")
	return records, nil
}

// imageWalker visits the XObjects of a resource dictionary
type imageWalker struct {
	ctx      *model.Context
	maxDepth int
	forms    map[int]bool // forms on the current recursion path
	records  []ImageRecord
}

func (w *imageWalker) walk(resources types.Dict, page, depth int) error {
	xobjects, err := w.ctx.DereferenceDict(resources["XObject"])
	if err != nil {
		return errors.WithMessage(err, "failed to resolve XObject resources")
	}
	if len(xobjects) == 0 {
		return nil
	}

	names := make([]string, 0, len(xobjects))
	for name := range xobjects {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if naturalLess(a, b) != naturalLess(b, a) {
			return naturalLess(a, b)
		}
		return a < b
	})

	for _, name := range names {
		obj := xobjects[name]
		objNr := 0
		if ref, ok := obj.(types.IndirectRef); ok {
			objNr = ref.ObjectNumber.Value()
		}

		sd, _, err := w.ctx.DereferenceStreamDict(obj)
		if err != nil {
			return errors.WithMessagef(err, "failed to resolve XObject %s", name)
		}
		if sd == nil {
			continue
		}

		subtype := sd.Subtype()
		switch {
		case subtype == nil:
			continue
		case *subtype == "Image":
			w.records = append(w.records, w.record(sd, page, name, objNr))
		case *subtype == "Form":
			if err := w.walkForm(sd, page, objNr, depth); err != nil {
				return errors.WithMessagef(err, "form %s", name)
			}
		}
	}
	return nil
}

func (w *imageWalker) walkForm(sd *types.StreamDict, page, objNr, depth int) error {
	if depth >= w.maxDepth {
		return nil
	}
	if objNr > 0 {
		if w.forms[objNr] {
			return nil
		}
		w.forms[objNr] = true
		defer delete(w.forms, objNr)
	}

	resources, err := w.ctx.DereferenceDict(sd.Dict["Resources"])
	if err != nil {
		return errors.WithMessage(err, "failed to resolve form resources")
	}
	if resources == nil {
		return nil
	}
	return w.walk(resources, page, depth+1)
}

func (w *imageWalker) record(sd *types.StreamDict, page int, name string, objNr int) ImageRecord {
	filters := make([]string, 0, len(sd.FilterPipeline))
	for _, f := range sd.FilterPipeline {
		filters = append(filters, f.Name)
	}

	data := sd.Raw
	if len(data) == 0 && len(filters) == 0 && sd.Decode() == nil {
		data = sd.Content
	}

	width, _ := w.ctx.DereferenceNumber(sd.Dict["Width"])
	height, _ := w.ctx.DereferenceNumber(sd.Dict["Height"])

	return ImageRecord{
		Index:        len(w.records),
		Page:         page,
		Name:         name,
		ObjectNumber: objNr,
		Filter:       strings.Join(filters, ","),
		Width:        int(width),
		Height:       int(height),
		Data:         append([]byte(nil), data...),
	}
}

// naturalLess orders names so embedded numbers compare by value: Im2 < Im10
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		da, db := digitPrefix(a), digitPrefix(b)
		if da > 0 && db > 0 {
			na := strings.TrimLeft(a[:da], "0")
			nb := strings.TrimLeft(b[:db], "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			a, b = a[da:], b[db:]
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func digitPrefix(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
