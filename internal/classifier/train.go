package classifier

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"intent-audit/internal/model"
)

// Train fits a one-vs-rest logistic regression over TF-IDF features. Only
// samples with a non-empty question and at least one gold label are used.
// Labels are trained in parallel; each goroutine owns one row of the weight
// matrix, so the result does not depend on scheduling.
func Train(ctx context.Context, samples []model.Sample, opts TrainOptions) (*Model, Manifest, error) {
	opts = opts.withDefaults()

	var docs [][]string
	var golds [][]string
	labelSet := make(map[string]bool)
	for _, s := range samples {
		if s.Question == "" || len(s.GoldLabels) == 0 {
			continue
		}
		docs = append(docs, terms(s.Question))
		golds = append(golds, s.GoldLabels)
		for _, l := range s.GoldLabels {
			labelSet[l] = true
		}
	}
	if len(docs) == 0 {
		return nil, Manifest{}, ErrNoTrainingData
	}

	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	m := &Model{Labels: labels}
	m.Terms, m.IDF = fitVocabulary(docs, opts.MaxFeatures)
	m.buildIndex()

	xs := make([]vector, 0, len(docs))
	for _, s := range samples {
		if s.Question == "" || len(s.GoldLabels) == 0 {
			continue
		}
		xs = append(xs, m.vectorize(s.Question))
	}

	m.Weights = make([][]float64, len(labels))
	m.Bias = make([]float64, len(labels))

	g, gctx := errgroup.WithContext(ctx)
	for j, label := range labels {
		ys := make([]float64, len(golds))
		for i, gl := range golds {
			for _, l := range gl {
				if l == label {
					ys[i] = 1
					break
				}
			}
		}
		g.Go(func() error {
			w, b, err := fitBinary(gctx, xs, ys, len(m.Terms), opts)
			if err != nil {
				return fmt.Errorf("label %s: %w", label, err)
			}
			m.Weights[j], m.Bias[j] = w, b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Manifest{}, err
	}

	hashes := make(map[string]string, len(opts.DataHashes))
	for k, v := range opts.DataHashes {
		hashes[k] = v
	}
	return m, Manifest{
		LabelOrder:   append([]string{}, labels...),
		NSamples:     len(docs),
		NFeatures:    len(m.Terms),
		DataHashes:   hashes,
		Iterations:   opts.Iterations,
		LearningRate: opts.LearningRate,
		L2:           opts.L2,
		MaxFeatures:  opts.MaxFeatures,
		NGramRange:   [2]int{1, maxNGram},
	}, nil
}

// fitBinary runs full-batch gradient descent from zero weights.
func fitBinary(ctx context.Context, xs []vector, ys []float64, nFeatures int, opts TrainOptions) ([]float64, float64, error) {
	w := make([]float64, nFeatures)
	grad := make([]float64, nFeatures)
	var b float64
	n := float64(len(xs))

	for it := 0; it < opts.Iterations; it++ {
		if it%32 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}

		for k := range grad {
			grad[k] = opts.L2 * w[k]
		}
		var gradB float64
		for i, x := range xs {
			diff := sigmoid(dot(w, x)+b) - ys[i]
			for _, f := range x {
				grad[f.idx] += diff * f.val / n
			}
			gradB += diff / n
		}

		for k := range w {
			w[k] -= opts.LearningRate * grad[k]
		}
		b -= opts.LearningRate * gradB
	}
	return w, b, nil
}

func dot(w []float64, x vector) float64 {
	var s float64
	for _, f := range x {
		s += w[f.idx] * f.val
	}
	return s
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
