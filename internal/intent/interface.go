package intent

import "intent-audit/internal/model"

// Predictor classifies a single question.
type Predictor interface {
	// Predict scores every label of the label space and decides the
	// multi-intent and ambiguity status of question.
	Predict(question string) model.PredictionResult
}

// Scorer is a trained model whose per-label probabilities are fused with
// rule scores. Labels missing from the returned map score 0.
type Scorer interface {
	Score(question string) map[string]float64
}
