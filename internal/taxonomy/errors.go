package taxonomy

import (
	"errors"
	"fmt"
)

// ErrConfig is the sentinel matched by every configuration failure.
var ErrConfig = errors.New("intent config error")

// ConfigError describes a malformed or inconsistent taxonomy/rules file.
type ConfigError struct {
	Source string // file path or "<inline>"
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

func configErr(source, field, format string, args ...any) error {
	return &ConfigError{Source: source, Field: field, Reason: fmt.Sprintf(format, args...)}
}
