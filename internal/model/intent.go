package model

import (
	"sort"
	"strings"
)

// IntentLabel is one entry of the intent taxonomy.
type IntentLabel struct {
	Name             string   `json:"name" yaml:"name"`
	Definition       string   `json:"definition" yaml:"definition"`
	Examples         []string `json:"examples" yaml:"examples"`
	NegativeExamples []string `json:"negative_examples" yaml:"negative_examples"`
}

// Rule maps keyword, substring or regex evidence to one label with a weight.
// A rule fires when any of its patterns matches.
type Rule struct {
	RuleID   string   `json:"rule_id" yaml:"rule_id"`
	Label    string   `json:"label" yaml:"label"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Patterns []string `json:"patterns" yaml:"patterns"`
	Regexes  []string `json:"regexes" yaml:"regexes"`
	Weight   float64  `json:"weight" yaml:"weight"`
}

// ConflictPair marks two labels as competing interpretations. Margin is the
// score gap at or under which the pair is considered unresolved. An
// Inherited pair had no margin of its own and tracks the effective
// ambiguous_margin.
type ConflictPair struct {
	LabelA    string  `json:"label_a" yaml:"label_a"`
	LabelB    string  `json:"label_b" yaml:"label_b"`
	Margin    float64 `json:"margin" yaml:"margin"`
	Inherited bool    `json:"inherited" yaml:"inherited"`
}

// Key returns the unordered pair key of the conflict.
func (p ConflictPair) Key() string {
	return PairKey(p.LabelA, p.LabelB)
}

// ClarificationTemplate produces the clarification text and options.
type ClarificationTemplate struct {
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
}

// Reserved clarification template keys.
const (
	TemplateGeneric = "generic"
	TemplateNoMatch = "no_match"
)

// PairKey normalizes an unordered label pair: (A,B) and (B,A) share a key.
func PairKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "|")
}

// Thresholds drive the multi-intent and ambiguity decisions.
type Thresholds struct {
	MultiLabelThreshold float64 `json:"multi_label_threshold" yaml:"multi_label_threshold"`
	AmbiguousMargin     float64 `json:"ambiguous_margin" yaml:"ambiguous_margin"`
	MinConfidence       float64 `json:"min_confidence" yaml:"min_confidence"`
}

// ScoredIntent is one label with its fused score in [0,1].
type ScoredIntent struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// FiredRule records a rule that matched the question.
type FiredRule struct {
	RuleID string  `json:"rule_id"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// AmbiguityReasons keeps the three ambiguity conditions observable on their own.
type AmbiguityReasons struct {
	Margin        bool `json:"margin"`
	LowConfidence bool `json:"low_confidence"`
	Conflict      bool `json:"conflict"`
}

// Any reports whether at least one condition holds.
func (r AmbiguityReasons) Any() bool {
	return r.Margin || r.LowConfidence || r.Conflict
}

// PredictionResult is the outcome of one Predict call.
type PredictionResult struct {
	Intents               []ScoredIntent   `json:"intents"`
	Top1                  ScoredIntent     `json:"top1"`
	Top2                  ScoredIntent     `json:"top2"`
	IsMultiIntent         bool             `json:"is_multi_intent"`
	IsAmbiguous           bool             `json:"is_ambiguous"`
	Ambiguity             AmbiguityReasons `json:"ambiguity_reasons"`
	ClarificationQuestion *string          `json:"clarification_question"`
	ClarificationOptions  []string         `json:"clarification_options"`
	RulesFired            []FiredRule      `json:"rules_fired"`
}

// Labels returns the labels of the non-zero intents in ranked order.
func (p PredictionResult) Labels() []string {
	out := make([]string, 0, len(p.Intents))
	for _, it := range p.Intents {
		out = append(out, it.Label)
	}
	return out
}
