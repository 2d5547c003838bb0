package intent

import "errors"

var (
	ErrEmptyLabelSpace  = errors.New("label space is empty")
	ErrScorerRequired   = errors.New("linear fusion requires a trained scorer")
	ErrUnknownFusion    = errors.New("unknown fusion mode")
	ErrUnknownNormalize = errors.New("unknown score normalization")
	ErrMatcherMismatch  = errors.New("matcher was built for a different rule set")
)
