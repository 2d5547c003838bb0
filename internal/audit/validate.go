package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"intent-audit/internal/fingerprint"
)

// Validate re-opens every artifact in runDir and checks that it exists, is
// non-empty and parses. It cross-checks the config fingerprint recorded by
// the manifest, the snapshot and the metrics against expected (or against
// each other when expected is empty). A missing or broken artifact returns
// an *ArtifactIncompleteError; a fingerprint disagreement is only reported
// in Validation.Mismatch.
func Validate(runDir, expected string) (Validation, error) {
	v := Validation{RunDir: runDir, Fingerprints: make(map[string]string)}

	contents := make(map[string][]byte, len(RequiredArtifacts))
	for _, name := range RequiredArtifacts {
		data, err := os.ReadFile(filepath.Join(runDir, name))
		switch {
		case errors.Is(err, os.ErrNotExist):
			v.Missing = append(v.Missing, name)
			continue
		case err != nil:
			v.Invalid = append(v.Invalid, fmt.Sprintf("%s: %v", name, err))
			continue
		case len(bytes.TrimSpace(data)) == 0:
			v.Invalid = append(v.Invalid, name+": empty")
			continue
		}
		contents[name] = data
	}

	if data, ok := contents[ManifestFile]; ok {
		var m struct {
			ConfigFingerprint string `json:"config_fingerprint"`
		}
		v.check(ManifestFile, json.Unmarshal(data, &m), m.ConfigFingerprint)
	}
	if data, ok := contents[SnapshotFile]; ok {
		var s struct {
			EffectiveConfig map[string]any `yaml:"effective_config"`
			Audit           struct {
				ConfigFingerprint string `yaml:"config_fingerprint"`
			} `yaml:"audit"`
		}
		err := yaml.Unmarshal(data, &s)
		if err == nil && len(s.EffectiveConfig) == 0 {
			err = errors.New("effective_config is empty")
		}
		v.check(SnapshotFile, err, s.Audit.ConfigFingerprint)
	}

	metricsSamples := -1
	if data, ok := contents[MetricsFile]; ok {
		var m Metrics
		err := json.Unmarshal(data, &m)
		if err == nil {
			metricsSamples = m.Overall.NSamples
		}
		v.check(MetricsFile, err, m.Audit.ConfigFingerprint)
	}

	if data, ok := contents[PerSampleFile]; ok {
		n, err := countJSONL(data)
		if err != nil {
			v.Invalid = append(v.Invalid, fmt.Sprintf("%s: %v", PerSampleFile, err))
		} else if metricsSamples >= 0 && n != metricsSamples {
			v.Invalid = append(v.Invalid, fmt.Sprintf("%s: %d records, metrics report %d samples", PerSampleFile, n, metricsSamples))
		}
	}

	if len(v.Fingerprints) > 0 {
		v.Mismatch = fingerprint.CompareArtifacts(expected, v.Fingerprints)
	}

	if !v.Complete() {
		return v, &ArtifactIncompleteError{RunID: filepath.Base(runDir), Missing: v.Missing, Invalid: v.Invalid}
	}
	return v, nil
}

func (v *Validation) check(name string, parseErr error, fp string) {
	if parseErr != nil {
		v.Invalid = append(v.Invalid, fmt.Sprintf("%s: %v", name, parseErr))
		return
	}
	if fp == "" {
		v.Invalid = append(v.Invalid, name+": missing config_fingerprint")
		return
	}
	v.Fingerprints[name] = fp
}

func countJSONL(data []byte) (int, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)

	n, line := 0, 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		if !json.Valid(text) {
			return 0, fmt.Errorf("line %d is not valid JSON", line)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
