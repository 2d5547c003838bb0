package taxonomy

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"intent-audit/internal/model"
)

// Taxonomy is the loaded, immutable label catalog.
type Taxonomy struct {
	Labels []model.IntentLabel
	Path   string
	SHA256 string
}

// LabelSpace returns the ordered label names.
func (t Taxonomy) LabelSpace() []string {
	names := make([]string, len(t.Labels))
	for i, l := range t.Labels {
		names[i] = l.Name
	}
	return names
}

// Has reports whether name is part of the label space.
func (t Taxonomy) Has(name string) bool {
	for _, l := range t.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// FusionSettings is the model_fusion block of the rules file.
type FusionSettings struct {
	Enabled   bool
	AlphaRule float64
}

// RuleSet is the loaded rule file: rules plus decision parameters.
type RuleSet struct {
	Rules                   []model.Rule
	ConflictPairs           []model.ConflictPair
	Templates               map[string]model.ClarificationTemplate
	Thresholds              model.Thresholds
	Scoring                 model.Scoring
	Fusion                  FusionSettings
	UnknownLabel            string
	MaxClarificationOptions int
	Path                    string
	SHA256                  string
}

// Defaults applied when the rules file leaves a decision parameter out.
const (
	DefaultMultiLabelThreshold     = 0.6
	DefaultAmbiguousMargin         = 0.15
	DefaultMinConfidence           = 0.4
	DefaultAlphaRule               = 0.5
	DefaultSaturationK             = 1.0
	DefaultUnknownLabel            = "UNKNOWN"
	DefaultMaxClarificationOptions = 3
)

// ---- raw YAML shapes ----

type taxonomyFile struct {
	IntentLabels []model.IntentLabel `yaml:"intent_labels"`
}

type rulesFile struct {
	UnknownLabel            string                 `yaml:"unknown_label"`
	MaxClarificationOptions *int                   `yaml:"max_clarification_options"`
	Thresholds              rawThresholds          `yaml:"thresholds"`
	Scoring                 rawScoring             `yaml:"scoring"`
	ModelFusion             rawFusion              `yaml:"model_fusion"`
	ConflictMatrix          []rawConflict          `yaml:"conflict_matrix"`
	ClarificationTemplates  map[string]rawTemplate `yaml:"clarification_templates"`
	Rules                   []rawRule              `yaml:"rules"`
}

type rawThresholds struct {
	MultiLabelThreshold *float64 `yaml:"multi_label_threshold"`
	AmbiguousMargin     *float64 `yaml:"ambiguous_margin"`
	MinConfidence       *float64 `yaml:"min_confidence"`
}

type rawScoring struct {
	Normalization string   `yaml:"normalization"`
	SaturationK   *float64 `yaml:"saturation_k"`
}

type rawFusion struct {
	Enabled   bool     `yaml:"enabled"`
	AlphaRule *float64 `yaml:"alpha_rule"`
}

type rawRule struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Weight   *float64 `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
	Patterns []string `yaml:"patterns"`
	Regex    []string `yaml:"regex"`
	Regexes  []string `yaml:"regexes"`
}

// rawConflict accepts both `[A, B]` and `{labels: [A, B], margin: 0.1}`.
type rawConflict struct {
	Labels []string
	Margin *float64
}

func (c *rawConflict) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&c.Labels)
	case yaml.MappingNode:
		var m struct {
			Labels []string `yaml:"labels"`
			Margin *float64 `yaml:"margin"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		c.Labels, c.Margin = m.Labels, m.Margin
		return nil
	default:
		return fmt.Errorf("line %d: conflict entry must be a list or a mapping", node.Line)
	}
}

// rawTemplate accepts a bare string or `{question, options}`.
type rawTemplate struct {
	Question string
	Options  []string
}

func (t *rawTemplate) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&t.Question)
	case yaml.MappingNode:
		var m struct {
			Question string   `yaml:"question"`
			Options  []string `yaml:"options"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		t.Question, t.Options = m.Question, m.Options
		return nil
	default:
		return fmt.Errorf("line %d: clarification template must be a string or a mapping", node.Line)
	}
}

// templateKey maps "A_vs_B", "A|B" and the reserved keys to the normalized key.
func templateKey(raw string) string {
	if raw == model.TemplateGeneric || raw == model.TemplateNoMatch {
		return raw
	}
	if a, b, ok := strings.Cut(raw, "_vs_"); ok {
		return model.PairKey(a, b)
	}
	if a, b, ok := strings.Cut(raw, "|"); ok {
		return model.PairKey(a, b)
	}
	return raw
}
