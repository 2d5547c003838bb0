package sweep

import "errors"

var (
	ErrEmptyGrid = errors.New("sweep grid has no points")
	ErrNoSamples = errors.New("sweep input has no samples")
)
