package model

// Score normalization strategies.
const (
	NormalizationMaxPossible = "max_possible"
	NormalizationSaturating  = "saturating"
)

// Fusion strategies.
const (
	FusionRuleOnly = "rule_only"
	FusionLinear   = "linear"
)

// EffectiveConfigVersion is bumped whenever the shape of EffectiveConfig changes.
const EffectiveConfigVersion = 1

// Scoring selects how raw rule weights are mapped into [0,1].
type Scoring struct {
	Normalization string  `json:"normalization" yaml:"normalization"`
	SaturationK   float64 `json:"saturation_k" yaml:"saturation_k"`
}

// Fusion selects how rule and model scores are combined.
type Fusion struct {
	Mode        string  `json:"mode" yaml:"mode"`
	AlphaRule   float64 `json:"alpha_rule" yaml:"alpha_rule"`
	ModelSHA256 string  `json:"model_sha256" yaml:"model_sha256"`
}

// Override is one key=value override applied on top of the file configuration.
type Override struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// EffectiveConfig is the fully expanded configuration of a run. Every value
// that influences prediction is spelled out; nothing is left to defaults.
type EffectiveConfig struct {
	Version                 int                              `json:"version" yaml:"version"`
	LabelSpace              []string                         `json:"label_space" yaml:"label_space"`
	Taxonomy                []IntentLabel                    `json:"taxonomy" yaml:"taxonomy"`
	Rules                   []Rule                           `json:"rules" yaml:"rules"`
	ConflictPairs           []ConflictPair                   `json:"conflict_pairs" yaml:"conflict_pairs"`
	ClarificationTemplates  map[string]ClarificationTemplate `json:"clarification_templates" yaml:"clarification_templates"`
	Thresholds              Thresholds                       `json:"thresholds" yaml:"thresholds"`
	Scoring                 Scoring                          `json:"scoring" yaml:"scoring"`
	Fusion                  Fusion                           `json:"fusion" yaml:"fusion"`
	UnknownLabel            string                           `json:"unknown_label" yaml:"unknown_label"`
	MaxClarificationOptions int                              `json:"max_clarification_options" yaml:"max_clarification_options"`
	Overrides               []Override                       `json:"overrides" yaml:"overrides"`
}

// Deployment environments.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)
