// Package session holds the state of one interactive user session: the page
// marker toggle, the current image extraction and its selection.
package session

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/FlowerFish/PDF-Exactor/pkg/config"
	"github.com/FlowerFish/PDF-Exactor/pkg/export"
	"github.com/FlowerFish/PDF-Exactor/pkg/extractors"
	"github.com/FlowerFish/PDF-Exactor/pkg/selection"
)

var (
	// ErrNothingSelected is returned by Archive when no image is selected
	ErrNothingSelected = errors.New("select at least one image to download")

	// ErrNoImages is returned by Archive before any image was extracted
	ErrNoImages = errors.New("no images have been extracted")
)

// Session is the working set of one user. It is not safe for concurrent use;
// create one per interactive session.
type Session struct {
	cfg    config.Config
	logger logrus.FieldLogger

	text   *extractors.TextExtractor
	images *extractors.ImageExtractor

	pageMarkers bool
	records     []extractors.ImageRecord
	selection   *selection.Store
}

// New creates an empty session. Unset fields of cfg take their defaults, a
// zero Config behaving like config.Default().
func New(cfg config.Config, logger logrus.FieldLogger) *Session {
	cfg = cfg.WithDefaults()
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Session{
		cfg:    cfg,
		logger: logger,
		text: extractors.NewTextExtractor(
			extractors.WithBackend(cfg.Backend()),
			extractors.WithTextOptions(cfg.TextOptions()...),
			extractors.WithTableOptions(cfg.TableOptions()...),
			extractors.WithLogger(logger),
		),
		images: extractors.NewImageExtractor(
			extractors.WithImageLogger(logger),
			extractors.WithFormDepth(cfg.Images.FormDepth),
		),
		selection: selection.New(0),
	}
}

// SetPageMarkers turns "--- Page n ---" lines in converted text on or off
func (s *Session) SetPageMarkers(on bool) {
	s.pageMarkers = on
}

// TogglePageMarkers flips the page marker setting and returns the new value
func (s *Session) TogglePageMarkers() bool {
	s.pageMarkers = !s.pageMarkers
	return s.pageMarkers
}

// PageMarkers reports whether converted text includes page markers
func (s *Session) PageMarkers() bool {
	return s.pageMarkers
}

// ConvertText extracts the text and tables of a PDF into a text download.
// It never touches the image state.
func (s *Session) ConvertText(pdfBytes []byte) (*export.Download, error) {
	pages, err := s.text.Extract(pdfBytes)
	if err != nil {
		s.logger.WithError(err).Warn("text conversion failed")
		return nil, err
	}
	data := export.SerializeText(pages, s.pageMarkers)
	s.logger.WithFields(logrus.Fields{
		"pages":   len(pages),
		"bytes":   len(data),
		"markers": s.pageMarkers,
	}).Info("converted text")
	return export.TextDownload(data), nil
}

// ExtractImages replaces the current images with those of a PDF and selects
// all of them. On failure the previous images are cleared, unless the
// configuration asks to keep them.
func (s *Session) ExtractImages(pdfBytes []byte) (int, error) {
	if !s.cfg.Images.KeepPreviousOnError {
		s.replace(nil)
	}

	records, err := s.images.Extract(pdfBytes)
	if err != nil {
		s.logger.WithError(err).WithField("images", len(s.records)).Warn("image extraction failed")
		return 0, err
	}

	s.replace(records)
	return len(records), nil
}

func (s *Session) replace(records []extractors.ImageRecord) {
	s.records = records
	s.selection.Reset(len(records))
}

// Images returns the current extraction
func (s *Session) Images() []extractors.ImageRecord {
	return s.records
}

// Previews returns the current images captioned for a gallery
func (s *Session) Previews() []extractors.Preview {
	return extractors.Previews(s.records)
}

// ImageCount returns the number of images currently held
func (s *Session) ImageCount() int {
	return len(s.records)
}

// SetAll selects or deselects every image
func (s *Session) SetAll(selected bool) {
	s.selection.SetAll(selected)
}

// SetOne selects or deselects the image at index; index must be in
// [0, ImageCount())
func (s *Session) SetOne(index int, selected bool) {
	s.selection.SetOne(index, selected)
}

// Selected reports whether the image at index is selected
func (s *Session) Selected(index int) bool {
	return s.selection.Get(index)
}

// SelectedCount returns how many images are selected
func (s *Session) SelectedCount() int {
	return s.selection.SelectedCount()
}

// SelectedIndices returns the selected indices in ascending order
func (s *Session) SelectedIndices() []int {
	return s.selection.SelectedIndices()
}

// Archive zips the selected images. A download is only offered when at least
// one image is selected.
func (s *Session) Archive() (*export.Download, error) {
	if len(s.records) == 0 {
		return nil, ErrNoImages
	}
	if s.selection.SelectedCount() == 0 {
		return nil, ErrNothingSelected
	}

	data, err := export.BuildArchive(s.records, s.selection)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to build archive")
	}
	s.logger.WithFields(logrus.Fields{
		"selected": s.selection.SelectedCount(),
		"bytes":    len(data),
	}).Info("built archive")
	return export.ArchiveDownload(data), nil
}
