package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"intent-audit/internal/effective"
	"intent-audit/internal/fingerprint"
	"intent-audit/internal/model"
	"intent-audit/pkg/log"
)

// NewRunID builds a sortable, collision-resistant run id.
func NewRunID(mode string, now time.Time) string {
	return fmt.Sprintf("intent_%s_%s_%s", now.Format("20060102_150405"), mode, uuid.NewString()[:8])
}

// Run implements UseCase.
func (uc *implUseCase) Run(ctx context.Context, input RunInput) (RunOutput, error) {
	if err := ctx.Err(); err != nil {
		return RunOutput{}, err
	}
	if err := checkInput(input); err != nil {
		return RunOutput{}, err
	}

	start := uc.now()
	runID := input.RunID
	if runID == "" {
		runID = NewRunID(input.Mode, start)
	}
	runDir := filepath.Join(input.OutputBase, runID)
	if err := prepareRunDir(runDir); err != nil {
		return RunOutput{}, err
	}

	ctx = log.WithRunID(ctx, runID)
	logFile, err := os.OpenFile(filepath.Join(runDir, RunLogFile), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return RunOutput{}, fmt.Errorf("audit.Run: open run log: %w", err)
	}
	rl := log.Tee(uc.l, logFile)
	closeLog := closeOnce(rl, logFile)
	defer closeLog()

	th := input.Config.Thresholds
	rl.Infof(ctx, "Starting run %s: mode=%s fingerprint=%s", runID, input.Mode, input.Fingerprint)
	rl.Infof(ctx, "Input %s: %d samples (%d with gold), sha256=%s", input.Input.Path, len(input.Input.Samples), input.Input.GoldCount(), input.Input.SHA256)
	rl.Infof(ctx, "Thresholds: multi_label_threshold=%v ambiguous_margin=%v min_confidence=%v", th.MultiLabelThreshold, th.AmbiguousMargin, th.MinConfidence)
	rl.Infof(ctx, "Scoring: normalization=%s fusion=%s alpha_rule=%v", input.Config.Scoring.Normalization, input.Config.Fusion.Mode, input.Config.Fusion.AlphaRule)
	for _, o := range input.Config.Overrides {
		rl.Infof(ctx, "Override %s=%s", o.Key, o.Value)
	}
	warnings := append([]string{}, input.Warnings...)
	for _, w := range warnings {
		rl.Warnf(ctx, "%s", w)
	}

	collector := NewCollector(input.Config)
	records := make([]SampleRecord, 0, len(input.Input.Samples))
	for _, s := range input.Input.Samples {
		res := input.Predictor.Predict(s.Question)
		pred := collector.Add(s, res)
		records = append(records, newSampleRecord(s, res, pred, th))
	}
	metrics := collector.Metrics()
	metrics.Audit = MetricsAudit{
		ConfigFingerprint: input.Fingerprint,
		InputPath:         input.Input.Path,
		InputHash:         input.Input.SHA256,
		RunDir:            runDir,
	}
	rl.Infof(ctx, "Predicted %d samples: ambiguous_rate=%.4f multi_intent_rate=%.4f coverage_rate=%.4f",
		metrics.Overall.NSamples, metrics.Overall.AmbiguousRate, metrics.Overall.MultiIntentRate, metrics.Overall.CoverageRate)

	canonical, err := fingerprint.Compute(input.Config)
	if err != nil {
		return RunOutput{}, fmt.Errorf("audit.Run: %w", err)
	}

	writes := []struct {
		name  string
		write func() error
	}{
		{PerSampleFile, func() error { return writeJSONL(runDir, PerSampleFile, records) }},
		{MetricsFile, func() error { return writeJSON(runDir, MetricsFile, metrics) }},
		{SnapshotFile, func() error {
			return writeYAML(runDir, SnapshotFile, Snapshot{
				EffectiveConfig: input.Config,
				Audit:           SnapshotAudit{ConfigFingerprint: input.Fingerprint, CanonicalSHA256: canonical},
			})
		}},
		{SummaryFile, func() error {
			return writeFile(runDir, SummaryFile, renderSummary(summaryInput{
				RunID:       runID,
				Mode:        input.Mode,
				Fingerprint: input.Fingerprint,
				InputPath:   input.Input.Path,
				InputHash:   input.Input.SHA256,
				Metrics:     metrics,
				Notes:       input.Notes,
				Warnings:    warnings,
			}))
		}},
		{ManifestFile, func() error {
			return writeJSON(runDir, ManifestFile, uc.manifest(input, runID, runDir, start, warnings))
		}},
	}
	for _, w := range writes {
		if err := w.write(); err != nil {
			rl.Errorf(ctx, "Writing %s failed: %v", w.name, err)
			return RunOutput{}, fmt.Errorf("audit.Run: %w", err)
		}
		rl.Infof(ctx, "Wrote %s", w.name)
	}
	rl.Infof(ctx, "Run %s finished, validating artifacts", runID)
	if err := closeLog(); err != nil {
		return RunOutput{}, fmt.Errorf("audit.Run: close run log: %w", err)
	}

	validation, err := Validate(runDir, input.Fingerprint)
	if err != nil {
		uc.l.Errorf(ctx, "audit.Run: %v", err)
		return RunOutput{RunID: runID, RunDir: runDir, Metrics: metrics, Warnings: warnings}, err
	}
	if validation.Mismatch != nil {
		uc.l.Warnf(ctx, "audit.Run: %v", validation.Mismatch)
		warnings = append(warnings, validation.Mismatch.Error())
	}

	entry := model.RunIndexEntry{
		RunID:             runID,
		Datetime:          uc.now().UTC().Format(time.RFC3339),
		Mode:              input.Mode,
		ConfigFingerprint: input.Fingerprint,
		InputPath:         input.Input.Path,
		InputHash:         input.Input.SHA256,
		KeyMetrics:        metrics.KeyMetrics(),
		Notes:             input.Notes,
	}
	out := RunOutput{RunID: runID, RunDir: runDir, Metrics: metrics, Entry: entry, Warnings: warnings}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	if err := uc.index.Append(ctx, entry); err != nil {
		uc.l.Errorf(ctx, "audit.Run: index: %v", err)
		return out, fmt.Errorf("audit.Run: index: %w", err)
	}
	uc.l.Infof(ctx, "Run %s complete: %s", runID, runDir)
	return out, nil
}

func (uc *implUseCase) manifest(input RunInput, runID, runDir string, start time.Time, warnings []string) Manifest {
	host, err := uc.hostname()
	if err != nil {
		host = "unknown"
	}

	hashes := make(map[string]string, len(input.ConfigFiles)+1)
	for name, sum := range input.ConfigFiles {
		hashes[name] = sum
	}
	hashes[dataKeyPrefix+filepath.Base(input.Input.Path)] = input.Input.SHA256

	args := input.Args
	if args == nil {
		args = map[string]any{}
	}
	argv := input.Argv
	if argv == nil {
		argv = []string{}
	}

	return Manifest{
		RunID:             runID,
		Mode:              input.Mode,
		StartTime:         start.Format(time.RFC3339Nano),
		EndTime:           uc.now().Format(time.RFC3339Nano),
		GoVersion:         runtime.Version(),
		GOOS:              runtime.GOOS,
		GOARCH:            runtime.GOARCH,
		Hostname:          host,
		Argv:              argv,
		Args:              args,
		Seed:              input.Seed,
		InputFilesSHA256:  hashes,
		ConfigFingerprint: input.Fingerprint,
		Overrides:         input.Config.Overrides,
		Warnings:          warnings,
		OutputDir:         runDir,
		Notes:             input.Notes,
	}
}

func newSampleRecord(s model.Sample, res model.PredictionResult, pred []string, th model.Thresholds) SampleRecord {
	return SampleRecord{
		ID:                    s.ID,
		Question:              s.Question,
		GoldIntents:           s.GoldLabels,
		PredIntents:           res.Intents,
		PredLabels:            pred,
		Top1:                  res.Top1,
		Top2:                  res.Top2,
		IsMultiIntent:         res.IsMultiIntent,
		IsAmbiguous:           res.IsAmbiguous,
		AmbiguityReasons:      res.Ambiguity,
		ClarificationQuestion: res.ClarificationQuestion,
		ClarificationOptions:  res.ClarificationOptions,
		RulesFired:            res.RulesFired,
		ThresholdsUsed:        th,
	}
}

func checkInput(input RunInput) error {
	switch {
	case input.Predictor == nil:
		return fmt.Errorf("%w: predictor is nil", ErrInvalidRunInput)
	case len(input.Fingerprint) != fingerprint.Length:
		return fmt.Errorf("%w: config fingerprint %q", ErrInvalidRunInput, input.Fingerprint)
	case input.OutputBase == "":
		return fmt.Errorf("%w: output base dir is empty", ErrInvalidRunInput)
	case len(input.Input.Samples) == 0:
		return ErrNoSamples
	}

	fp, err := effective.Fingerprint(input.Config)
	if err != nil {
		return fmt.Errorf("audit.Run: %w", err)
	}
	if fp != input.Fingerprint {
		return fmt.Errorf("%w: config fingerprint %s does not match the config (%s)",
			ErrInvalidRunInput, fingerprint.Short(input.Fingerprint), fingerprint.Short(fp))
	}
	return nil
}

func prepareRunDir(runDir string) error {
	entries, err := os.ReadDir(runDir)
	switch {
	case err == nil && len(entries) > 0:
		return fmt.Errorf("%w: %s", ErrRunExists, runDir)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("audit.Run: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("audit.Run: %w", err)
	}
	return nil
}

// closeOnce flushes the run logger and closes its file exactly once.
func closeOnce(l log.Logger, c io.Closer) func() error {
	done := false
	return func() error {
		if done {
			return nil
		}
		done = true
		log.Sync(l)
		return c.Close()
	}
}
