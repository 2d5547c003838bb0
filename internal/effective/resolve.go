package effective

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"intent-audit/internal/fingerprint"
	"intent-audit/internal/intent"
	"intent-audit/internal/model"
	"intent-audit/internal/taxonomy"
)

// Resolve expands the loaded files plus overrides into an EffectiveConfig
// with every prediction parameter written out, and fingerprints it.
func Resolve(in Input) (Output, error) {
	rs := in.Rules
	cfg := model.EffectiveConfig{
		Version:                 model.EffectiveConfigVersion,
		LabelSpace:              in.Taxonomy.LabelSpace(),
		Taxonomy:                append([]model.IntentLabel{}, in.Taxonomy.Labels...),
		Rules:                   append([]model.Rule{}, rs.Rules...),
		ConflictPairs:           append([]model.ConflictPair{}, rs.ConflictPairs...),
		ClarificationTemplates:  make(map[string]model.ClarificationTemplate, len(rs.Templates)+1),
		Thresholds:              rs.Thresholds,
		Scoring:                 rs.Scoring,
		UnknownLabel:            rs.UnknownLabel,
		MaxClarificationOptions: rs.MaxClarificationOptions,
		Overrides:               []model.Override{},
	}
	for k, t := range rs.Templates {
		cfg.ClarificationTemplates[k] = t
	}
	if _, ok := cfg.ClarificationTemplates[model.TemplateGeneric]; !ok {
		cfg.ClarificationTemplates[model.TemplateGeneric] = model.ClarificationTemplate{
			Question: intent.DefaultGenericTemplate,
			Options:  []string{},
		}
	}

	enabled := rs.Fusion.Enabled
	alpha := rs.Fusion.AlphaRule

	var warnings []string
	for _, o := range in.Overrides {
		var err error
		switch o.Key {
		case "model_fusion.enabled":
			enabled, err = strconv.ParseBool(o.Value)
		case "model_fusion.alpha_rule":
			alpha, err = strconv.ParseFloat(o.Value, 64)
		default:
			err = apply(&cfg, o)
		}
		if err != nil {
			return Output{}, overrideErr(o.Key, "%v", err)
		}
		cfg.Overrides = append(cfg.Overrides, o)
	}

	if err := validate(cfg, alpha); err != nil {
		return Output{}, err
	}
	inheritMargins(&cfg)

	switch {
	case enabled && in.ModelSHA256 != "":
		cfg.Fusion = model.Fusion{Mode: model.FusionLinear, AlphaRule: alpha, ModelSHA256: in.ModelSHA256}
	case enabled:
		if overridden(in.Overrides, "model_fusion.enabled") {
			return Output{}, ErrModelRequired
		}
		warnings = append(warnings, "model_fusion.enabled is set but no trained model is loaded; using rule_only")
		cfg.Fusion = model.Fusion{Mode: model.FusionRuleOnly, AlphaRule: 1}
	default:
		cfg.Fusion = model.Fusion{Mode: model.FusionRuleOnly, AlphaRule: 1}
	}

	fp, err := Fingerprint(cfg)
	if err != nil {
		return Output{}, err
	}
	return Output{Config: cfg, Fingerprint: fp, Warnings: warnings}, nil
}

// Fingerprint hashes the parts of cfg that influence prediction. The
// override list is excluded: a value reached by override and the same value
// read from the file are the same configuration.
func Fingerprint(cfg model.EffectiveConfig) (string, error) {
	cfg.Overrides = nil
	fp, err := fingerprint.Compute(cfg)
	if err != nil {
		return "", fmt.Errorf("effective.Fingerprint: %w", err)
	}
	return fp, nil
}

// WithThresholds returns a copy of cfg with th applied, recorded as overrides.
func WithThresholds(cfg model.EffectiveConfig, th model.Thresholds) (model.EffectiveConfig, error) {
	if err := taxonomy.ValidateThresholds(OverrideSource, th); err != nil {
		return model.EffectiveConfig{}, err
	}
	cfg.Thresholds = th
	cfg.ConflictPairs = append([]model.ConflictPair{}, cfg.ConflictPairs...)
	inheritMargins(&cfg)
	cfg.Overrides = append(append([]model.Override{}, cfg.Overrides...),
		model.Override{Key: "thresholds.multi_label_threshold", Value: formatFloat(th.MultiLabelThreshold)},
		model.Override{Key: "thresholds.ambiguous_margin", Value: formatFloat(th.AmbiguousMargin)},
		model.Override{Key: "thresholds.min_confidence", Value: formatFloat(th.MinConfidence)},
	)
	return cfg, nil
}

// ParseOverrides parses repeated key=value arguments.
func ParseOverrides(args []string) ([]model.Override, error) {
	out := make([]model.Override, 0, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" {
			return nil, overrideErr(a, "expected key=value")
		}
		if !knownKey(k) {
			return nil, overrideErr(k, "unknown override key; known keys: %s", strings.Join(Keys(), ", "))
		}
		out = append(out, model.Override{Key: k, Value: v})
	}
	return out, nil
}

// Keys returns the supported override keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters)+2)
	for k := range setters {
		keys = append(keys, k)
	}
	keys = append(keys, "model_fusion.enabled", "model_fusion.alpha_rule")
	sort.Strings(keys)
	return keys
}

type setter func(cfg *model.EffectiveConfig, value string) error

var setters = map[string]setter{
	"thresholds.multi_label_threshold": floatSetter(func(c *model.EffectiveConfig) *float64 { return &c.Thresholds.MultiLabelThreshold }),
	"thresholds.ambiguous_margin":      floatSetter(func(c *model.EffectiveConfig) *float64 { return &c.Thresholds.AmbiguousMargin }),
	"thresholds.min_confidence":        floatSetter(func(c *model.EffectiveConfig) *float64 { return &c.Thresholds.MinConfidence }),
	"scoring.saturation_k":             floatSetter(func(c *model.EffectiveConfig) *float64 { return &c.Scoring.SaturationK }),
	"scoring.normalization": func(c *model.EffectiveConfig, v string) error {
		c.Scoring.Normalization = v
		return nil
	},
	"unknown_label": func(c *model.EffectiveConfig, v string) error {
		if v == "" {
			return fmt.Errorf("must not be empty")
		}
		c.UnknownLabel = v
		return nil
	},
	"max_clarification_options": func(c *model.EffectiveConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if n < 2 {
			return fmt.Errorf("must be >= 2, got %d", n)
		}
		c.MaxClarificationOptions = n
		return nil
	},
}

func floatSetter(field func(*model.EffectiveConfig) *float64) setter {
	return func(c *model.EffectiveConfig, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func apply(cfg *model.EffectiveConfig, o model.Override) error {
	set, ok := setters[o.Key]
	if !ok {
		return fmt.Errorf("unknown override key")
	}
	return set(cfg, o.Value)
}

func validate(cfg model.EffectiveConfig, alpha float64) error {
	if err := taxonomy.ValidateThresholds(OverrideSource, cfg.Thresholds); err != nil {
		return err
	}
	if err := taxonomy.ValidateScoring(OverrideSource, cfg.Scoring); err != nil {
		return err
	}
	if !(alpha >= 0 && alpha <= 1) {
		return overrideErr("model_fusion.alpha_rule", "must be in [0,1], got %v", alpha)
	}
	for _, l := range cfg.LabelSpace {
		if l == cfg.UnknownLabel {
			return overrideErr("unknown_label", "%q collides with a taxonomy label", l)
		}
	}
	return nil
}

// inheritMargins gives every conflict pair without its own margin the
// current ambiguous_margin.
func inheritMargins(cfg *model.EffectiveConfig) {
	for i := range cfg.ConflictPairs {
		if cfg.ConflictPairs[i].Inherited {
			cfg.ConflictPairs[i].Margin = cfg.Thresholds.AmbiguousMargin
		}
	}
}

func knownKey(k string) bool {
	if _, ok := setters[k]; ok {
		return true
	}
	return k == "model_fusion.enabled" || k == "model_fusion.alpha_rule"
}

func overridden(overrides []model.Override, key string) bool {
	for _, o := range overrides {
		if o.Key == key {
			return true
		}
	}
	return false
}

func overrideErr(field, format string, args ...any) error {
	return &taxonomy.ConfigError{Source: OverrideSource, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
