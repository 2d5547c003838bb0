package classifier

import "errors"

var (
	ErrNoTrainingData   = errors.New("no labelled training samples")
	ErrManifestMismatch = errors.New("model does not match its training manifest")
	ErrModelCorrupt     = errors.New("model file is inconsistent")
)
