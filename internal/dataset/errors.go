package dataset

import (
	"errors"
	"fmt"
)

var ErrMalformedSample = errors.New("malformed sample")

// LineError points at the offending line of an input file.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
