package taxonomy_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"intent-audit/internal/model"
	"intent-audit/internal/taxonomy"
)

const taxonomyYAML = `
intent_labels:
  - name: FACTOID
    definition: single fact lookup
  - name: LIST
    definition: enumerate entities
  - name: AMBIGUOUS
    definition: underspecified question
`

func mustTaxonomy(t *testing.T) taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.ParseTaxonomy("<inline>", []byte(taxonomyYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tax
}

func TestParseTaxonomy(t *testing.T) {
	tax := mustTaxonomy(t)

	got := tax.LabelSpace()
	want := []string{"FACTOID", "LIST", "AMBIGUOUS"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected label space %v, got %v", want, got)
	}
	if len(tax.SHA256) != 64 {
		t.Errorf("expected sha256 hex, got %q", tax.SHA256)
	}
	if tax.Labels[0].Examples == nil {
		t.Errorf("expected examples to be an empty slice, not nil")
	}
}

func TestParseTaxonomyErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"Empty label space", "intent_labels: []\n"},
		{"Missing label space", "foo: bar\n"},
		{"Blank name", "intent_labels:\n  - name: ''\n"},
		{"Duplicate name", "intent_labels:\n  - name: A\n  - name: A\n"},
		{"Invalid YAML", "intent_labels: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := taxonomy.ParseTaxonomy("<inline>", []byte(tt.yaml))
			if !errors.Is(err, taxonomy.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestParseRuleSet(t *testing.T) {
	tax := mustTaxonomy(t)
	rulesYAML := `
thresholds:
  multi_label_threshold: 0.5
  ambiguous_margin: 0.1
conflict_matrix:
  - [LIST, AMBIGUOUS]
  - labels: [FACTOID, LIST]
    margin: 0.3
  - [AMBIGUOUS, LIST]
clarification_templates:
  generic: "Which do you mean: {candidates}?"
  LIST_vs_AMBIGUOUS:
    question: "List or something else?"
    options: [LIST, AMBIGUOUS]
rules:
  - id: r_list
    label: LIST
    weight: 2
    keywords: ["list", ""]
  - id: r_amb
    label: AMBIGUOUS
    regex: ["(?i)something"]
`
	rs, err := taxonomy.ParseRuleSet("<inline>", []byte(rulesYAML), tax)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rs.Thresholds.MultiLabelThreshold != 0.5 || rs.Thresholds.AmbiguousMargin != 0.1 {
		t.Errorf("thresholds not read: %+v", rs.Thresholds)
	}
	if rs.Thresholds.MinConfidence != taxonomy.DefaultMinConfidence {
		t.Errorf("expected default min_confidence, got %v", rs.Thresholds.MinConfidence)
	}
	if rs.UnknownLabel != taxonomy.DefaultUnknownLabel {
		t.Errorf("expected default unknown label, got %q", rs.UnknownLabel)
	}
	if len(rs.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rs.Rules))
	}
	if len(rs.Rules[0].Keywords) != 1 {
		t.Errorf("expected blank keyword dropped, got %v", rs.Rules[0].Keywords)
	}
	if rs.Rules[1].Weight != 1.0 {
		t.Errorf("expected default weight 1.0, got %v", rs.Rules[1].Weight)
	}

	// Duplicate (B,A) pair collapses onto (A,B).
	if len(rs.ConflictPairs) != 2 {
		t.Fatalf("expected 2 conflict pairs, got %d", len(rs.ConflictPairs))
	}
	if rs.ConflictPairs[0].Margin != 0.1 {
		t.Errorf("expected pair margin to default to ambiguous_margin, got %v", rs.ConflictPairs[0].Margin)
	}
	if rs.ConflictPairs[1].Margin != 0.3 {
		t.Errorf("expected explicit pair margin 0.3, got %v", rs.ConflictPairs[1].Margin)
	}
	if !rs.ConflictPairs[0].Inherited || rs.ConflictPairs[1].Inherited {
		t.Errorf("expected only the pair without a margin to be inherited, got %+v", rs.ConflictPairs)
	}

	tpl, ok := rs.Templates[model.PairKey("AMBIGUOUS", "LIST")]
	if !ok {
		t.Fatalf("expected A_vs_B template to be keyed by the unordered pair, got keys %v", rs.Templates)
	}
	if len(tpl.Options) != 2 {
		t.Errorf("expected 2 template options, got %v", tpl.Options)
	}
	if _, ok := rs.Templates[model.TemplateGeneric]; !ok {
		t.Errorf("expected generic template")
	}
}

func TestParseRuleSetErrors(t *testing.T) {
	tax := mustTaxonomy(t)
	tests := []struct {
		name    string
		yaml    string
		contain string
	}{
		{"Unknown label", "rules:\n  - {id: r1, label: LST, keywords: [x]}\n", `did you mean "LIST"`},
		{"Zero weight", "rules:\n  - {id: r1, label: LIST, weight: 0, keywords: [x]}\n", "weight"},
		{"Negative weight", "rules:\n  - {id: r1, label: LIST, weight: -1, keywords: [x]}\n", "weight"},
		{"No patterns", "rules:\n  - {id: r1, label: LIST}\n", "no keywords"},
		{"Duplicate id", "rules:\n  - {id: r1, label: LIST, keywords: [a]}\n  - {id: r1, label: LIST, keywords: [b]}\n", "duplicate"},
		{"Bad regex", "rules:\n  - {id: r1, label: LIST, regex: ['(']}\n", "r1"},
		{"Non-numeric threshold", "thresholds:\n  min_confidence: high\n", "invalid YAML"},
		{"Threshold above one", "thresholds:\n  ambiguous_margin: 1.5\n", "ambiguous_margin"},
		{"Alpha out of range", "model_fusion:\n  alpha_rule: -0.1\n", "alpha_rule"},
		{"Unknown normalization", "scoring:\n  normalization: softmax\n", "normalization"},
		{"Conflict self pair", "conflict_matrix:\n  - [LIST, LIST]\n", "itself"},
		{"Conflict unknown label", "conflict_matrix:\n  - [LIST, NOPE]\n", "NOPE"},
		{"Conflict wrong arity", "conflict_matrix:\n  - [LIST]\n", "exactly 2"},
		{"Too few options", "max_clarification_options: 1\n", "max_clarification_options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := taxonomy.ParseRuleSet("<inline>", []byte(tt.yaml), tax)
			if !errors.Is(err, taxonomy.ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
			var cfgErr *taxonomy.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.contain) {
				t.Errorf("expected error to contain %q, got %q", tt.contain, err.Error())
			}
		})
	}
}

func TestParseRuleSetEmptyTaxonomy(t *testing.T) {
	_, err := taxonomy.ParseRuleSet("<inline>", []byte("rules: []\n"), taxonomy.Taxonomy{})
	if !errors.Is(err, taxonomy.ErrConfig) {
		t.Errorf("expected ErrConfig for empty label space, got %v", err)
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	taxPath := filepath.Join(dir, "taxonomy.yaml")
	rulesPath := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(taxPath, []byte(taxonomyYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rulesPath, []byte("rules:\n  - {id: r1, label: LIST, keywords: [list]}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tax, err := taxonomy.LoadTaxonomy(taxPath)
	if err != nil {
		t.Fatalf("LoadTaxonomy: %v", err)
	}
	if tax.Path != taxPath {
		t.Errorf("expected path %q, got %q", taxPath, tax.Path)
	}
	rs, err := taxonomy.LoadRuleSet(rulesPath, tax)
	if err != nil {
		t.Fatalf("LoadRuleSet: %v", err)
	}
	if rs.Path != rulesPath || len(rs.Rules) != 1 {
		t.Errorf("unexpected rule set: %+v", rs)
	}

	if _, err := taxonomy.LoadTaxonomy(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("expected error for missing taxonomy file")
	}
}
