package effective

import "errors"

var (
	ErrModelRequired = errors.New("model fusion is enabled but no trained model was supplied")
)
