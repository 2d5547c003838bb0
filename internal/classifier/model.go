package classifier

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Score implements intent.Scorer: the per-label probability of question.
func (m *Model) Score(question string) map[string]float64 {
	x := m.vectorize(question)
	out := make(map[string]float64, len(m.Labels))
	for j, l := range m.Labels {
		out[l] = sigmoid(dot(m.Weights[j], x) + m.Bias[j])
	}
	return out
}

// Save writes the model and its manifest into dir and returns the model
// file's SHA-256, which is also recorded in the manifest.
func Save(dir string, m *Model, manifest Manifest) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("classifier.Save: %w", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("classifier.Save: %w", err)
	}
	sum := sha256.Sum256(data)
	manifest.ModelSHA256 = hex.EncodeToString(sum[:])

	if err := os.WriteFile(filepath.Join(dir, ModelFile), data, 0o644); err != nil {
		return "", fmt.Errorf("classifier.Save: %w", err)
	}
	mdata, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("classifier.Save: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), append(mdata, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("classifier.Save: %w", err)
	}
	return manifest.ModelSHA256, nil
}

// Load reads a model saved by Save and checks it against its manifest.
func Load(dir string) (*Model, Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ModelFile))
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("classifier.Load: %w", err)
	}
	mdata, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("classifier.Load: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(mdata, &manifest); err != nil {
		return nil, Manifest{}, fmt.Errorf("classifier.Load: manifest: %w", err)
	}
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != manifest.ModelSHA256 {
		return nil, Manifest{}, fmt.Errorf("%w: model sha256 %s, manifest says %s", ErrManifestMismatch, got, manifest.ModelSHA256)
	}

	var m Model
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, Manifest{}, fmt.Errorf("%w: %v", ErrModelCorrupt, err)
	}
	if !slices.Equal(m.Labels, manifest.LabelOrder) {
		return nil, Manifest{}, fmt.Errorf("%w: label order %v, manifest says %v", ErrManifestMismatch, m.Labels, manifest.LabelOrder)
	}
	if err := m.check(); err != nil {
		return nil, Manifest{}, err
	}
	m.buildIndex()
	return &m, manifest, nil
}

func (m *Model) check() error {
	if len(m.IDF) != len(m.Terms) {
		return fmt.Errorf("%w: %d terms, %d idf values", ErrModelCorrupt, len(m.Terms), len(m.IDF))
	}
	if len(m.Weights) != len(m.Labels) || len(m.Bias) != len(m.Labels) {
		return fmt.Errorf("%w: %d labels, %d weight rows, %d biases", ErrModelCorrupt, len(m.Labels), len(m.Weights), len(m.Bias))
	}
	for j, row := range m.Weights {
		if len(row) != len(m.Terms) {
			return fmt.Errorf("%w: label %s has %d weights, want %d", ErrModelCorrupt, m.Labels[j], len(row), len(m.Terms))
		}
	}
	return nil
}
