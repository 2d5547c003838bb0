package intent

import "intent-audit/internal/model"

var _ Predictor = (*Engine)(nil)

// Predict implements Predictor.
func (e *Engine) Predict(question string) model.PredictionResult {
	ev := e.matcher.Evaluate(question)

	var modelScores map[string]float64
	if e.scorer != nil {
		modelScores = e.scorer.Score(question)
	}

	scores := make(map[string]float64, len(e.cfg.LabelSpace))
	for _, l := range e.cfg.LabelSpace {
		rule := e.normalize(l, ev.Raw[l])
		scores[l] = clamp01(e.fuse(rule, modelScores[l]))
	}

	ranked := e.rank(scores)
	top1, top2 := e.tops(ranked)

	intents := make([]model.ScoredIntent, 0, len(ranked))
	for _, it := range ranked {
		if it.Score > 0 {
			intents = append(intents, it)
		}
	}

	reasons := e.ambiguity(top1, top2)
	res := model.PredictionResult{
		Intents:       intents,
		Top1:          top1,
		Top2:          top2,
		IsMultiIntent: e.isMultiIntent(ranked),
		IsAmbiguous:   reasons.Any(),
		Ambiguity:     reasons,
		RulesFired:    ev.Fired,
	}

	if res.IsAmbiguous {
		text, opts := e.clarify(question, ranked, top1, top2)
		res.ClarificationQuestion = &text
		res.ClarificationOptions = opts
	}
	return res
}
