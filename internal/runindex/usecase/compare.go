package usecase

import (
	"context"
	"strings"

	"intent-audit/internal/runindex"
)

// Compare syncs the mirror from the log and returns the runs that share
// the requested fingerprint.
func (uc *implUseCase) Compare(ctx context.Context, input runindex.CompareInput) (runindex.CompareOutput, error) {
	fp := strings.TrimSpace(input.Fingerprint)
	if fp == "" {
		return runindex.CompareOutput{}, runindex.ErrFingerprintRequired
	}
	if err := uc.sync(ctx); err != nil {
		return runindex.CompareOutput{}, err
	}

	runs, err := uc.mirror.ByFingerprint(ctx, fp)
	if err != nil {
		uc.l.Errorf(ctx, "runindex.usecase.Compare: %v", err)
		return runindex.CompareOutput{}, err
	}
	return runindex.CompareOutput{Fingerprint: fp, Runs: runs}, nil
}

// Groups syncs the mirror and lists every fingerprint with its runs.
func (uc *implUseCase) Groups(ctx context.Context) (runindex.GroupsOutput, error) {
	if err := uc.sync(ctx); err != nil {
		return runindex.GroupsOutput{}, err
	}
	groups, err := uc.mirror.Fingerprints(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "runindex.usecase.Groups: %v", err)
		return runindex.GroupsOutput{}, err
	}
	return runindex.GroupsOutput{Groups: groups}, nil
}

func (uc *implUseCase) sync(ctx context.Context) error {
	if uc.mirror == nil {
		return runindex.ErrMirrorUnavailable
	}
	out, err := uc.log.Read(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "runindex.usecase.sync: read: %v", err)
		return err
	}
	n, err := uc.mirror.Sync(ctx, out.Records)
	if err != nil {
		uc.l.Errorf(ctx, "runindex.usecase.sync: %v", err)
		return err
	}
	if n > 0 {
		uc.l.Debugf(ctx, "runindex.usecase.sync: mirrored %d new entries", n)
	}
	return nil
}
