package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// Report implements UseCase.
func (uc *implUseCase) Report(ctx context.Context, runDir string) (ReportOutput, error) {
	if err := ctx.Err(); err != nil {
		return ReportOutput{}, err
	}

	v, err := Validate(runDir, "")
	out := ReportOutput{Validation: v}
	if data, rerr := os.ReadFile(filepath.Join(runDir, MetricsFile)); rerr == nil {
		var m Metrics
		if json.Unmarshal(data, &m) == nil {
			out.Metrics = &m
		}
	}

	if err != nil {
		uc.l.Errorf(ctx, "audit.Report: %v", err)
		return out, err
	}
	if v.Mismatch != nil {
		uc.l.Warnf(ctx, "audit.Report: %s: %v", filepath.Base(runDir), v.Mismatch)
	}
	uc.l.Infof(ctx, "audit.Report: %s: all %d artifacts present", filepath.Base(runDir), len(RequiredArtifacts))
	return out, nil
}
