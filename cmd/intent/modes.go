package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"intent-audit/config"
	"intent-audit/internal/audit"
	"intent-audit/internal/bootstrap"
	"intent-audit/internal/classifier"
	"intent-audit/internal/dataset"
	"intent-audit/internal/effective"
	"intent-audit/internal/model"
	"intent-audit/internal/runindex/repository/jsonl"
	runindexUC "intent-audit/internal/runindex/usecase"
	"intent-audit/internal/sweep"
	"intent-audit/internal/taxonomy"
	"intent-audit/pkg/log"
)

type app struct {
	l     log.Logger
	cfg   *config.Config
	flags flags
}

func (a app) loadEngine(ctx context.Context) (bootstrap.Loaded, error) {
	overrides, err := effective.ParseOverrides(a.flags.overrides)
	if err != nil {
		return bootstrap.Loaded{}, err
	}
	return bootstrap.LoadEngine(ctx, a.l, a.cfg.Intent, overrides)
}

func (a app) rulePredict(ctx context.Context) error {
	loaded, err := a.loadEngine(ctx)
	if err != nil {
		return err
	}
	input, err := dataset.Load(a.cfg.Run.DefaultInputPath)
	if err != nil {
		return err
	}

	index := runindexUC.New(a.l, jsonl.New(a.cfg.Run.IndexPath, a.l), nil)
	uc := audit.New(a.l, index)
	out, err := uc.Run(ctx, audit.RunInput{
		RunID:       a.flags.runID,
		Mode:        a.flags.mode,
		OutputBase:  a.cfg.Run.OutputBaseDir,
		Config:      loaded.Config,
		Fingerprint: loaded.Fingerprint,
		Predictor:   loaded.Engine,
		Input:       input,
		ConfigFiles: loaded.ConfigFiles,
		Argv:        os.Args,
		Args: map[string]any{
			"mode":          a.flags.mode,
			"input":         input.Path,
			"run_id":        a.flags.runID,
			"set":           a.flags.overrides,
			"taxonomy_path": a.cfg.Intent.TaxonomyPath,
			"rules_path":    a.cfg.Intent.RulesPath,
			"use_model":     a.cfg.Intent.UseModel,
		},
		Seed:     a.cfg.Run.Seed,
		Notes:    a.cfg.Run.Notes,
		Warnings: loaded.Warnings,
	})
	if err != nil {
		return err
	}

	o := out.Metrics.Overall
	fmt.Printf("run_id=%s\nrun_dir=%s\nconfig_fingerprint=%s\n", out.RunID, out.RunDir, loaded.Fingerprint)
	fmt.Printf("ambiguous_rate=%.4f multi_intent_rate=%.4f coverage_rate=%.4f\n", o.AmbiguousRate, o.MultiIntentRate, o.CoverageRate)
	for _, w := range out.Warnings {
		fmt.Printf("WARNING: %s\n", w)
	}
	return nil
}

func (a app) report(ctx context.Context) error {
	if a.flags.runID == "" {
		return errors.New("--run_id is required for report")
	}
	runDir := filepath.Join(a.cfg.Run.OutputBaseDir, a.flags.runID)

	uc := audit.New(a.l, nil)
	out, err := uc.Report(ctx, runDir)

	v := out.Validation
	fmt.Printf("run_dir=%s\n", runDir)
	for _, name := range v.Missing {
		fmt.Printf("MISSING %s\n", name)
	}
	for _, reason := range v.Invalid {
		fmt.Printf("INVALID %s\n", reason)
	}
	if v.Mismatch != nil {
		fmt.Printf("WARNING: %v\n", v.Mismatch)
	}
	if out.Metrics != nil {
		o := out.Metrics.Overall
		fmt.Printf("n_samples=%d ambiguous_rate=%.4f multi_intent_rate=%.4f coverage_rate=%.4f\n",
			o.NSamples, o.AmbiguousRate, o.MultiIntentRate, o.CoverageRate)
	}
	return err
}

func (a app) sweep(ctx context.Context) error {
	loaded, err := a.loadEngine(ctx)
	if err != nil {
		return err
	}
	input, err := dataset.Load(a.cfg.Run.DefaultInputPath)
	if err != nil {
		return err
	}

	in := sweep.Input{
		Config:  loaded.Config,
		Samples: input.Samples,
		Grid: sweep.Grid{
			MultiLabelThresholds: a.cfg.Sweep.MultiLabelThresholds,
			AmbiguousMargins:     a.cfg.Sweep.AmbiguousMargins,
			MinConfidences:       a.cfg.Sweep.MinConfidences,
		},
	}
	in.Scorer = loaded.Engine.Scorer()
	points, err := sweep.Run(ctx, a.l, in)
	if err != nil {
		return err
	}

	path := a.cfg.Sweep.OutputPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sweep.WriteCSV(f, points); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("sweep=%s points=%d\n", path, len(points))
	return nil
}

func (a app) train(ctx context.Context) error {
	tax, err := taxonomy.LoadTaxonomy(a.cfg.Intent.TaxonomyPath)
	if err != nil {
		return err
	}
	if len(a.cfg.Train.DataPaths) == 0 {
		return errors.New("train.data_paths is empty")
	}

	var samples []model.Sample
	hashes := make(map[string]string, len(a.cfg.Train.DataPaths))
	for _, p := range a.cfg.Train.DataPaths {
		set, err := dataset.Load(p)
		if err != nil {
			return err
		}
		for _, s := range set.Samples {
			for _, l := range s.GoldLabels {
				if !tax.Has(l) {
					return fmt.Errorf("%s: sample %s: label %q is not in the taxonomy", p, s.ID, l)
				}
			}
		}
		samples = append(samples, set.Samples...)
		hashes[filepath.Base(p)] = set.SHA256
	}

	m, manifest, err := classifier.Train(ctx, samples, classifier.TrainOptions{
		Iterations:   a.cfg.Train.Iterations,
		LearningRate: a.cfg.Train.LearningRate,
		L2:           a.cfg.Train.L2,
		MaxFeatures:  a.cfg.Train.MaxFeatures,
		DataHashes:   hashes,
	})
	if err != nil {
		return err
	}
	sha, err := classifier.Save(a.cfg.Intent.ModelDir, m, manifest)
	if err != nil {
		return err
	}
	a.l.Infof(ctx, "Trained %d labels on %d samples (%d features)", len(manifest.LabelOrder), manifest.NSamples, manifest.NFeatures)
	fmt.Printf("model_dir=%s model_sha256=%s\n", a.cfg.Intent.ModelDir, sha)
	return nil
}
