package audit

import (
	"os"
	"time"

	"intent-audit/pkg/log"
)

type implUseCase struct {
	l        log.Logger
	index    Indexer
	now      func() time.Time
	hostname func() (string, error)
}

// Option customizes the UseCase.
type Option func(*implUseCase)

// WithClock replaces time.Now, for deterministic run ids in tests.
func WithClock(now func() time.Time) Option {
	return func(uc *implUseCase) { uc.now = now }
}

// New creates the audit UseCase. Completed runs are appended to index.
func New(l log.Logger, index Indexer, opts ...Option) UseCase {
	uc := &implUseCase{
		l:        l,
		index:    index,
		now:      time.Now,
		hostname: os.Hostname,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
