// Package bootstrap assembles the intent engine from configuration files.
// Both binaries build their engine here so that the CLI and the API compute
// the same fingerprint for the same files.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"intent-audit/config"
	"intent-audit/internal/classifier"
	"intent-audit/internal/effective"
	"intent-audit/internal/intent"
	"intent-audit/internal/model"
	"intent-audit/internal/taxonomy"
	"intent-audit/pkg/log"
)

// ErrLabelMismatch is returned when a trained model predicts labels outside
// the taxonomy.
var ErrLabelMismatch = errors.New("model labels do not match the taxonomy")

// Loaded is a ready engine plus everything needed to audit it.
type Loaded struct {
	Engine      *intent.Engine
	Config      model.EffectiveConfig
	Fingerprint string
	Warnings    []string
	ConfigFiles map[string]string // file base name -> sha256
	Taxonomy    taxonomy.Taxonomy
}

// LoadEngine reads the taxonomy, the rules and, when enabled, the trained
// model, resolves overrides and builds the engine.
func LoadEngine(ctx context.Context, l log.Logger, cfg config.IntentConfig, overrides []model.Override) (Loaded, error) {
	tax, err := taxonomy.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return Loaded{}, err
	}
	rs, err := taxonomy.LoadRuleSet(cfg.RulesPath, tax)
	if err != nil {
		return Loaded{}, err
	}
	files := map[string]string{
		filepath.Base(tax.Path): tax.SHA256,
		filepath.Base(rs.Path):  rs.SHA256,
	}

	in := effective.Input{Taxonomy: tax, Rules: rs, Overrides: overrides}
	var scorer *classifier.Model
	if cfg.UseModel {
		m, manifest, err := classifier.Load(cfg.ModelDir)
		if err != nil {
			return Loaded{}, err
		}
		for _, label := range m.Labels {
			if !tax.Has(label) {
				return Loaded{}, fmt.Errorf("%w: %q", ErrLabelMismatch, label)
			}
		}
		scorer = m
		in.ModelSHA256 = manifest.ModelSHA256
		files[classifier.ModelFile] = manifest.ModelSHA256
		l.Infof(ctx, "Loaded intent model from %s (%d labels, %d features)", cfg.ModelDir, len(m.Labels), manifest.NFeatures)
	}

	out, err := effective.Resolve(in)
	if err != nil {
		return Loaded{}, err
	}
	for _, w := range out.Warnings {
		l.Warnf(ctx, "%s", w)
	}

	opts := []intent.Option{intent.WithCacheSize(cfg.CacheSize)}
	if scorer != nil && out.Config.Fusion.Mode == model.FusionLinear {
		opts = append(opts, intent.WithScorer(scorer))
	}
	engine, err := intent.New(out.Config, opts...)
	if err != nil {
		return Loaded{}, err
	}

	l.Infof(ctx, "Intent engine ready: %d labels, %d rules, fusion=%s, fingerprint=%s",
		len(out.Config.LabelSpace), len(out.Config.Rules), out.Config.Fusion.Mode, out.Fingerprint)
	return Loaded{
		Engine:      engine,
		Config:      out.Config,
		Fingerprint: out.Fingerprint,
		Warnings:    out.Warnings,
		ConfigFiles: files,
		Taxonomy:    tax,
	}, nil
}
