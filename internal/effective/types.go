package effective

import (
	"intent-audit/internal/model"
	"intent-audit/internal/taxonomy"
)

// OverrideSource is the ConfigError source used for command-line overrides.
const OverrideSource = "--set"

// Input is everything that goes into an effective configuration.
type Input struct {
	Taxonomy    taxonomy.Taxonomy
	Rules       taxonomy.RuleSet
	Overrides   []model.Override
	ModelSHA256 string // empty when no trained model is loaded
}

// Output is the resolved configuration and its fingerprint.
type Output struct {
	Config      model.EffectiveConfig
	Fingerprint string
	Warnings    []string
}
