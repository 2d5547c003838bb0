package usecase

import (
	"intent-audit/internal/runindex"
	"intent-audit/internal/runindex/repository"
	"intent-audit/pkg/log"
)

type implUseCase struct {
	l      log.Logger
	log    repository.LogRepository
	mirror repository.MirrorRepository
}

// New creates the run index UseCase. mirror may be nil, in which case
// Compare and Groups return runindex.ErrMirrorUnavailable.
func New(l log.Logger, logRepo repository.LogRepository, mirror repository.MirrorRepository) runindex.UseCase {
	return &implUseCase{
		l:      l,
		log:    logRepo,
		mirror: mirror,
	}
}
