package taxonomy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"

	"intent-audit/internal/model"
)

// LoadTaxonomy reads and validates a taxonomy YAML file.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	tax, err := ParseTaxonomy(path, data)
	if err != nil {
		return Taxonomy{}, err
	}
	tax.Path = path
	return tax, nil
}

// ParseTaxonomy validates taxonomy YAML content. source is used in errors.
func ParseTaxonomy(source string, data []byte) (Taxonomy, error) {
	var raw taxonomyFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Taxonomy{}, configErr(source, "", "invalid YAML: %v", err)
	}
	if len(raw.IntentLabels) == 0 {
		return Taxonomy{}, configErr(source, "intent_labels", "label space is empty")
	}

	seen := make(map[string]bool, len(raw.IntentLabels))
	labels := make([]model.IntentLabel, 0, len(raw.IntentLabels))
	for i, l := range raw.IntentLabels {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return Taxonomy{}, configErr(source, fmt.Sprintf("intent_labels[%d].name", i), "label name is blank")
		}
		if seen[name] {
			return Taxonomy{}, configErr(source, fmt.Sprintf("intent_labels[%d].name", i), "duplicate label %q", name)
		}
		seen[name] = true
		l.Name = name
		if l.Examples == nil {
			l.Examples = []string{}
		}
		if l.NegativeExamples == nil {
			l.NegativeExamples = []string{}
		}
		labels = append(labels, l)
	}

	return Taxonomy{Labels: labels, SHA256: sha256Hex(data)}, nil
}

// LoadRuleSet reads a rules YAML file and validates it against tax.
func LoadRuleSet(path string, tax Taxonomy) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	rs, err := ParseRuleSet(path, data, tax)
	if err != nil {
		return RuleSet{}, err
	}
	rs.Path = path
	return rs, nil
}

// ParseRuleSet validates rules YAML content against tax.
func ParseRuleSet(source string, data []byte, tax Taxonomy) (RuleSet, error) {
	var raw rulesFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RuleSet{}, configErr(source, "", "invalid YAML: %v", err)
	}
	if len(tax.Labels) == 0 {
		return RuleSet{}, configErr(source, "intent_labels", "label space is empty")
	}

	rs := RuleSet{SHA256: sha256Hex(data)}
	var err error

	if rs.Thresholds, err = buildThresholds(source, raw.Thresholds); err != nil {
		return RuleSet{}, err
	}
	if rs.Scoring, err = buildScoring(source, raw.Scoring); err != nil {
		return RuleSet{}, err
	}
	if rs.Fusion, err = buildFusion(source, raw.ModelFusion); err != nil {
		return RuleSet{}, err
	}

	rs.UnknownLabel = strings.TrimSpace(raw.UnknownLabel)
	if rs.UnknownLabel == "" {
		rs.UnknownLabel = DefaultUnknownLabel
	}
	rs.MaxClarificationOptions = DefaultMaxClarificationOptions
	if raw.MaxClarificationOptions != nil {
		if *raw.MaxClarificationOptions < 2 {
			return RuleSet{}, configErr(source, "max_clarification_options", "must be >= 2, got %d", *raw.MaxClarificationOptions)
		}
		rs.MaxClarificationOptions = *raw.MaxClarificationOptions
	}

	if rs.Rules, err = buildRules(source, raw.Rules, tax); err != nil {
		return RuleSet{}, err
	}
	if rs.ConflictPairs, err = buildConflicts(source, raw.ConflictMatrix, tax, rs.Thresholds.AmbiguousMargin); err != nil {
		return RuleSet{}, err
	}
	rs.Templates = buildTemplates(raw.ClarificationTemplates)

	return rs, nil
}

func buildThresholds(source string, raw rawThresholds) (model.Thresholds, error) {
	th := model.Thresholds{
		MultiLabelThreshold: DefaultMultiLabelThreshold,
		AmbiguousMargin:     DefaultAmbiguousMargin,
		MinConfidence:       DefaultMinConfidence,
	}
	if raw.MultiLabelThreshold != nil {
		th.MultiLabelThreshold = *raw.MultiLabelThreshold
	}
	if raw.AmbiguousMargin != nil {
		th.AmbiguousMargin = *raw.AmbiguousMargin
	}
	if raw.MinConfidence != nil {
		th.MinConfidence = *raw.MinConfidence
	}
	if err := ValidateThresholds(source, th); err != nil {
		return model.Thresholds{}, err
	}
	return th, nil
}

// ValidateThresholds checks that every threshold is a finite value in [0,1].
func ValidateThresholds(source string, th model.Thresholds) error {
	checks := []struct {
		field string
		v     float64
	}{
		{"thresholds.multi_label_threshold", th.MultiLabelThreshold},
		{"thresholds.ambiguous_margin", th.AmbiguousMargin},
		{"thresholds.min_confidence", th.MinConfidence},
	}
	for _, c := range checks {
		if !unitInterval(c.v) {
			return configErr(source, c.field, "must be in [0,1], got %v", c.v)
		}
	}
	return nil
}

func buildScoring(source string, raw rawScoring) (model.Scoring, error) {
	sc := model.Scoring{Normalization: raw.Normalization, SaturationK: DefaultSaturationK}
	if sc.Normalization == "" {
		sc.Normalization = model.NormalizationMaxPossible
	}
	if raw.SaturationK != nil {
		sc.SaturationK = *raw.SaturationK
	}
	if err := ValidateScoring(source, sc); err != nil {
		return model.Scoring{}, err
	}
	return sc, nil
}

// ValidateScoring checks the normalization strategy and its parameter.
func ValidateScoring(source string, sc model.Scoring) error {
	switch sc.Normalization {
	case model.NormalizationMaxPossible, model.NormalizationSaturating:
	default:
		return configErr(source, "scoring.normalization", "unknown normalization %q", sc.Normalization)
	}
	if math.IsNaN(sc.SaturationK) || sc.SaturationK <= 0 || math.IsInf(sc.SaturationK, 0) {
		return configErr(source, "scoring.saturation_k", "must be > 0, got %v", sc.SaturationK)
	}
	return nil
}

func buildFusion(source string, raw rawFusion) (FusionSettings, error) {
	f := FusionSettings{Enabled: raw.Enabled, AlphaRule: DefaultAlphaRule}
	if raw.AlphaRule != nil {
		f.AlphaRule = *raw.AlphaRule
	}
	if !unitInterval(f.AlphaRule) {
		return FusionSettings{}, configErr(source, "model_fusion.alpha_rule", "must be in [0,1], got %v", f.AlphaRule)
	}
	return f, nil
}

func buildRules(source string, raws []rawRule, tax Taxonomy) ([]model.Rule, error) {
	labelSpace := tax.LabelSpace()
	ids := make(map[string]bool, len(raws))
	rules := make([]model.Rule, 0, len(raws))

	for i, r := range raws {
		field := fmt.Sprintf("rules[%d]", i)
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, configErr(source, field+".id", "rule id is blank")
		}
		if ids[id] {
			return nil, configErr(source, field+".id", "duplicate rule id %q", id)
		}
		ids[id] = true

		if !tax.Has(r.Label) {
			return nil, configErr(source, field+".label", "rule %q references unknown label %q%s", id, r.Label, suggest(r.Label, labelSpace))
		}

		weight := 1.0
		if r.Weight != nil {
			weight = *r.Weight
		}
		if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
			return nil, configErr(source, field+".weight", "rule %q weight must be > 0, got %v", id, weight)
		}

		regexes := append(append([]string{}, r.Regex...), r.Regexes...)
		for _, pat := range regexes {
			if _, err := regexp.Compile(pat); err != nil {
				return nil, configErr(source, field+".regex", "rule %q: %v", id, err)
			}
		}

		keywords := nonEmpty(r.Keywords)
		patterns := nonEmpty(r.Patterns)
		if len(keywords)+len(patterns)+len(regexes) == 0 {
			return nil, configErr(source, field, "rule %q has no keywords, patterns or regexes", id)
		}

		rules = append(rules, model.Rule{
			RuleID:   id,
			Label:    r.Label,
			Keywords: keywords,
			Patterns: patterns,
			Regexes:  regexes,
			Weight:   weight,
		})
	}
	return rules, nil
}

func buildConflicts(source string, raws []rawConflict, tax Taxonomy, defaultMargin float64) ([]model.ConflictPair, error) {
	labelSpace := tax.LabelSpace()
	seen := make(map[string]bool, len(raws))
	pairs := make([]model.ConflictPair, 0, len(raws))

	for i, c := range raws {
		field := fmt.Sprintf("conflict_matrix[%d]", i)
		if len(c.Labels) != 2 {
			return nil, configErr(source, field, "conflict pair needs exactly 2 labels, got %d", len(c.Labels))
		}
		a, b := c.Labels[0], c.Labels[1]
		for _, l := range []string{a, b} {
			if !tax.Has(l) {
				return nil, configErr(source, field, "unknown label %q%s", l, suggest(l, labelSpace))
			}
		}
		if a == b {
			return nil, configErr(source, field, "conflict pair %q cannot pair a label with itself", a)
		}

		margin, inherited := defaultMargin, true
		if c.Margin != nil {
			margin, inherited = *c.Margin, false
		}
		if !unitInterval(margin) {
			return nil, configErr(source, field+".margin", "must be in [0,1], got %v", margin)
		}

		p := model.ConflictPair{LabelA: a, LabelB: b, Margin: margin, Inherited: inherited}
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func buildTemplates(raws map[string]rawTemplate) map[string]model.ClarificationTemplate {
	out := make(map[string]model.ClarificationTemplate, len(raws))
	for k, t := range raws {
		opts := t.Options
		if opts == nil {
			opts = []string{}
		}
		out[templateKey(k)] = model.ClarificationTemplate{Question: t.Question, Options: opts}
	}
	return out
}

// suggest returns a " (did you mean X?)" hint for a misspelled label.
func suggest(name string, labelSpace []string) string {
	if name == "" {
		return ""
	}
	matches := fuzzy.Find(name, labelSpace)
	if len(matches) == 0 {
		matches = fuzzy.Find(strings.ToUpper(name), labelSpace)
	}
	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", matches[0].Str)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func unitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
