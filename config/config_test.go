package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Intent.RulesPath != "config/intent_rules.yaml" {
		t.Errorf("expected default rules path, got %q", cfg.Intent.RulesPath)
	}
	if len(cfg.Sweep.MultiLabelThresholds) != 4 {
		t.Errorf("expected 4 default sweep thresholds, got %v", cfg.Sweep.MultiLabelThresholds)
	}
	if cfg.Run.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Run.Seed)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
intent:
  taxonomy_path: tax.yaml
  rules_path: rules.yaml
sweep:
  multi_label_thresholds: [0.5, 1]
run:
  output_base_dir: out
  index_path: out/index.jsonl
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SWEEP_MIN_CONFIDENCES", "0.3, 0.45")
	t.Setenv("RUN_NOTES", "from env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Intent.TaxonomyPath != "tax.yaml" || cfg.Run.OutputBaseDir != "out" {
		t.Errorf("expected file values, got %+v %+v", cfg.Intent, cfg.Run)
	}
	if got := cfg.Sweep.MultiLabelThresholds; len(got) != 2 || got[1] != 1 {
		t.Errorf("expected [0.5 1], got %v", got)
	}
	if got := cfg.Sweep.MinConfidences; len(got) != 2 || got[1] != 0.45 {
		t.Errorf("expected env list [0.3 0.45], got %v", got)
	}
	if cfg.Run.Notes != "from env" {
		t.Errorf("expected notes from env, got %q", cfg.Run.Notes)
	}
}

func TestLoadValidation(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "intent:\n  use_model: true\n  model_dir: \"\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Errorf("expected error when use_model is set without model_dir")
	}
}
