package classifier_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"intent-audit/internal/classifier"
	"intent-audit/internal/model"
)

func trainingSamples() []model.Sample {
	return []model.Sample{
		{ID: "1", Question: "list all rivers in France", GoldLabels: []string{"LIST"}},
		{ID: "2", Question: "list the members of the band", GoldLabels: []string{"LIST"}},
		{ID: "3", Question: "name all countries in Europe", GoldLabels: []string{"LIST"}},
		{ID: "4", Question: "who wrote Hamlet", GoldLabels: []string{"FACTOID"}},
		{ID: "5", Question: "when was the Eiffel tower built", GoldLabels: []string{"FACTOID"}},
		{ID: "6", Question: "who painted the Mona Lisa", GoldLabels: []string{"FACTOID"}},
		{ID: "7", Question: "compare Paris and Rome", GoldLabels: []string{"COMPARISON"}},
		{ID: "8", Question: "no gold for this one"},
		{ID: "9", Question: "", GoldLabels: []string{"LIST"}},
	}
}

func mustTrain(t *testing.T) (*classifier.Model, classifier.Manifest) {
	t.Helper()
	m, manifest, err := classifier.Train(context.Background(), trainingSamples(), classifier.TrainOptions{
		DataHashes: map[string]string{"train.jsonl": "abc"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m, manifest
}

func TestTrain(t *testing.T) {
	m, manifest := mustTrain(t)

	wantLabels := []string{"COMPARISON", "FACTOID", "LIST"}
	if !reflect.DeepEqual(manifest.LabelOrder, wantLabels) {
		t.Errorf("expected label order %v, got %v", wantLabels, manifest.LabelOrder)
	}
	if manifest.NSamples != 7 {
		t.Errorf("expected 7 usable samples, got %d", manifest.NSamples)
	}
	if manifest.NGramRange != [2]int{1, 2} {
		t.Errorf("expected ngram range (1,2), got %v", manifest.NGramRange)
	}
	if manifest.DataHashes["train.jsonl"] != "abc" {
		t.Errorf("expected data hashes to be carried, got %v", manifest.DataHashes)
	}

	list := m.Score("list the rivers of Spain")
	if list["LIST"] <= list["FACTOID"] {
		t.Errorf("expected LIST to outscore FACTOID, got %v", list)
	}
	who := m.Score("who discovered penicillin")
	if who["FACTOID"] <= who["LIST"] {
		t.Errorf("expected FACTOID to outscore LIST, got %v", who)
	}
	for label, p := range list {
		if p < 0 || p > 1 {
			t.Errorf("probability of %s out of range: %v", label, p)
		}
	}
}

func TestTrainDeterministic(t *testing.T) {
	a, _ := mustTrain(t)
	b, _ := mustTrain(t)
	if !reflect.DeepEqual(a.Weights, b.Weights) || !reflect.DeepEqual(a.Bias, b.Bias) {
		t.Errorf("expected identical weights across runs")
	}
}

func TestTrainErrors(t *testing.T) {
	t.Run("No labelled data", func(t *testing.T) {
		_, _, err := classifier.Train(context.Background(), []model.Sample{{Question: "x"}}, classifier.TrainOptions{})
		if !errors.Is(err, classifier.ErrNoTrainingData) {
			t.Errorf("expected ErrNoTrainingData, got %v", err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := classifier.Train(ctx, trainingSamples(), classifier.TrainOptions{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestMaxFeatures(t *testing.T) {
	m, manifest, err := classifier.Train(context.Background(), trainingSamples(), classifier.TrainOptions{MaxFeatures: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Terms) != 5 || manifest.NFeatures != 5 {
		t.Errorf("expected 5 features, got %d", len(m.Terms))
	}
}

func TestSaveLoad(t *testing.T) {
	m, manifest := mustTrain(t)
	dir := t.TempDir()

	sha, err := classifier.Save(dir, m, manifest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sha) != 64 {
		t.Errorf("expected sha256 hex, got %q", sha)
	}

	loaded, lm, err := classifier.Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lm.ModelSHA256 != sha {
		t.Errorf("expected manifest sha %s, got %s", sha, lm.ModelSHA256)
	}
	q := "list rivers who compare"
	if !reflect.DeepEqual(m.Score(q), loaded.Score(q)) {
		t.Errorf("expected loaded model to score identically")
	}
}

func TestLoadDetectsTampering(t *testing.T) {
	m, manifest := mustTrain(t)
	dir := t.TempDir()
	if _, err := classifier.Save(dir, m, manifest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(dir, classifier.ModelFile)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, append(data, ' '), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := classifier.Load(dir); !errors.Is(err, classifier.ErrManifestMismatch) {
		t.Errorf("expected ErrManifestMismatch, got %v", err)
	}
}
