package fingerprint_test

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"intent-audit/internal/fingerprint"
	"intent-audit/internal/model"
)

func TestCanonicalizeSortsKeys(t *testing.T) {
	got, err := fingerprint.Canonicalize(map[string]any{
		"b": 1,
		"a": map[string]any{"z": "<x>", "y": []int{2, 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"a":{"y":[2,1],"z":"<x>"},"b":1}`
	if string(got) != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestComputeStableUnderKeyReordering(t *testing.T) {
	docA := `
thresholds:
  multi_label_threshold: 0.6
  ambiguous_margin: 0.15
  min_confidence: 0.4
rules:
  - {id: r1, label: LIST, weight: 1}
`
	docB := `
rules:
  - {weight: 1, label: LIST, id: r1}
thresholds:
  min_confidence: 0.4
  ambiguous_margin: 0.15
  multi_label_threshold: 0.6
`
	var a, b map[string]any
	if err := yaml.Unmarshal([]byte(docA), &a); err != nil {
		t.Fatal(err)
	}
	if err := yaml.Unmarshal([]byte(docB), &b); err != nil {
		t.Fatal(err)
	}

	fpA, err := fingerprint.Compute(a)
	if err != nil {
		t.Fatal(err)
	}
	fpB, err := fingerprint.Compute(b)
	if err != nil {
		t.Fatal(err)
	}
	if fpA != fpB {
		t.Errorf("expected identical fingerprints, got %s vs %s", fpA, fpB)
	}
	if len(fpA) != fingerprint.Length {
		t.Errorf("expected %d chars, got %d", fingerprint.Length, len(fpA))
	}
}

func TestComputeChangesWithAnyThreshold(t *testing.T) {
	base := model.EffectiveConfig{
		Version:    model.EffectiveConfigVersion,
		LabelSpace: []string{"FACTOID", "LIST"},
		Thresholds: model.Thresholds{MultiLabelThreshold: 0.6, AmbiguousMargin: 0.15, MinConfidence: 0.4},
	}
	baseFP, err := fingerprint.Compute(base)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*model.EffectiveConfig)
	}{
		{"multi_label_threshold", func(c *model.EffectiveConfig) { c.Thresholds.MultiLabelThreshold += 1e-9 }},
		{"ambiguous_margin", func(c *model.EffectiveConfig) { c.Thresholds.AmbiguousMargin = 0.150001 }},
		{"min_confidence", func(c *model.EffectiveConfig) { c.Thresholds.MinConfidence = 0.39 }},
		{"label order", func(c *model.EffectiveConfig) { c.LabelSpace = []string{"LIST", "FACTOID"} }},
		{"override", func(c *model.EffectiveConfig) { c.Overrides = []model.Override{{Key: "k", Value: "v"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.LabelSpace = append([]string{}, base.LabelSpace...)
			tt.mutate(&cfg)
			fp, err := fingerprint.Compute(cfg)
			if err != nil {
				t.Fatal(err)
			}
			if fp == baseFP {
				t.Errorf("expected fingerprint to change")
			}
		})
	}

	again, _ := fingerprint.Compute(base)
	if again != baseFP {
		t.Errorf("expected Compute to be deterministic")
	}
}

func TestCompareArtifacts(t *testing.T) {
	if w := fingerprint.CompareArtifacts("abc", map[string]string{"metrics.json": "abc", "config_snapshot.yaml": "abc"}); w != nil {
		t.Errorf("expected no warning, got %v", w)
	}

	w := fingerprint.CompareArtifacts("abc", map[string]string{"metrics.json": "abc", "config_snapshot.yaml": "def"})
	if w == nil {
		t.Fatal("expected a mismatch warning")
	}
	if _, ok := w.Found["config_snapshot.yaml"]; !ok || len(w.Found) != 1 {
		t.Errorf("expected only config_snapshot.yaml to be flagged, got %v", w.Found)
	}
	if !strings.Contains(w.Error(), "config_snapshot.yaml") {
		t.Errorf("expected artifact name in message, got %q", w.Error())
	}

	if w := fingerprint.CompareArtifacts("", map[string]string{"a": "x", "b": "y"}); w == nil || w.Expected != "x" {
		t.Errorf("expected reference taken from first artifact, got %v", w)
	}
}

func TestShort(t *testing.T) {
	if got := fingerprint.Short("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("unexpected short form %q", got)
	}
	if got := fingerprint.Short("abc"); got != "abc" {
		t.Errorf("unexpected short form %q", got)
	}
}
