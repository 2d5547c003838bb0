package runindex

import "errors"

var (
	ErrInvalidEntry        = errors.New("invalid run index entry")
	ErrFingerprintRequired = errors.New("fingerprint is required")
	ErrMirrorUnavailable   = errors.New("run index mirror is not configured")
)
