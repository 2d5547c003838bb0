package audit

import (
	"intent-audit/internal/dataset"
	"intent-audit/internal/fingerprint"
	"intent-audit/internal/intent"
	"intent-audit/internal/model"
)

// RunInput is one audited inference run.
type RunInput struct {
	RunID       string // generated when empty
	Mode        string
	OutputBase  string
	Config      model.EffectiveConfig
	Fingerprint string
	Predictor   intent.Predictor
	Input       dataset.Set
	ConfigFiles map[string]string // file base name -> sha256
	Argv        []string
	Args        map[string]any
	Seed        int64
	Notes       string
	Warnings    []string
}

// RunOutput describes a completed, indexed run.
type RunOutput struct {
	RunID    string
	RunDir   string
	Metrics  Metrics
	Entry    model.RunIndexEntry
	Warnings []string
}

// ReportOutput is the result of re-validating a run directory.
type ReportOutput struct {
	Validation Validation
	Metrics    *Metrics // nil when metrics.json is unreadable
}

// Validation is what Validate found in a run directory.
type Validation struct {
	RunDir       string
	Missing      []string
	Invalid      []string
	Fingerprints map[string]string // artifact -> config_fingerprint it records
	Mismatch     *fingerprint.MismatchWarning
}

// Complete reports whether every artifact is present and parses.
func (v Validation) Complete() bool {
	return len(v.Missing) == 0 && len(v.Invalid) == 0
}

// Manifest is repro_manifest.json.
type Manifest struct {
	RunID             string            `json:"run_id"`
	Mode              string            `json:"mode"`
	StartTime         string            `json:"start_time"`
	EndTime           string            `json:"end_time"`
	GoVersion         string            `json:"go_version"`
	GOOS              string            `json:"goos"`
	GOARCH            string            `json:"goarch"`
	Hostname          string            `json:"hostname"`
	Argv              []string          `json:"argv"`
	Args              map[string]any    `json:"args"`
	Seed              int64             `json:"seed"`
	InputFilesSHA256  map[string]string `json:"input_files_sha256"`
	ConfigFingerprint string            `json:"config_fingerprint"`
	Overrides         []model.Override  `json:"overrides"`
	Warnings          []string          `json:"warnings"`
	OutputDir         string            `json:"output_dir"`
	Notes             string            `json:"notes"`
}

// Snapshot is config_snapshot.yaml.
type Snapshot struct {
	EffectiveConfig model.EffectiveConfig `yaml:"effective_config"`
	Audit           SnapshotAudit         `yaml:"audit"`
}

// SnapshotAudit identifies the snapshot. CanonicalSHA256 covers the full
// effective config including the override list; ConfigFingerprint does not.
type SnapshotAudit struct {
	ConfigFingerprint string `yaml:"config_fingerprint"`
	CanonicalSHA256   string `yaml:"canonical_sha256"`
}

// SampleRecord is one line of per_sample_intent_results.jsonl.
type SampleRecord struct {
	ID                    string                 `json:"id"`
	Question              string                 `json:"question"`
	GoldIntents           []string               `json:"gold_intents"`
	PredIntents           []model.ScoredIntent   `json:"pred_intents"`
	PredLabels            []string               `json:"pred_labels"`
	Top1                  model.ScoredIntent     `json:"top1"`
	Top2                  model.ScoredIntent     `json:"top2"`
	IsMultiIntent         bool                   `json:"is_multi_intent"`
	IsAmbiguous           bool                   `json:"is_ambiguous"`
	AmbiguityReasons      model.AmbiguityReasons `json:"ambiguity_reasons"`
	ClarificationQuestion *string                `json:"clarification_question"`
	ClarificationOptions  []string               `json:"clarification_options"`
	RulesFired            []model.FiredRule      `json:"rules_fired"`
	ThresholdsUsed        model.Thresholds       `json:"thresholds_used"`
}
