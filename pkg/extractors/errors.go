package extractors

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotPDF is returned when the input does not start with a PDF header
var ErrNotPDF = errors.New("input is not a PDF document")

// Operations reported in ExtractionError.Op
const (
	OpText   = "text"
	OpImages = "images"
)

// ExtractionError reports that a document could not be read by one of the
// extraction paths. No partial output accompanies it.
type ExtractionError struct {
	Op      string // OpText or OpImages
	Backend string // parser that failed, empty when none was reached
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("%s extraction failed (%s): %v", e.Op, e.Backend, e.Err)
	}
	return fmt.Sprintf("%s extraction failed: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func newExtractionError(op, backend string, err error) *ExtractionError {
	return &ExtractionError{Op: op, Backend: backend, Err: errors.WithStack(err)}
}

// headerWindow is how far into the file a PDF header may start
const headerWindow = 1024

// checkHeader rejects input without a %PDF- marker near its start
func checkHeader(data []byte) error {
	head := data
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}
	if !bytes.Contains(head, []byte("%PDF-")) {
		return ErrNotPDF
	}
	return nil
}

// guard runs fn and turns a panic raised inside a parser into an error
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("parser panic: %v", r)
		}
	}()
	return fn()
}
