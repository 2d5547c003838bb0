package intent

import (
	"sort"

	"intent-audit/internal/model"
)

// rank returns every label with its score, highest first. Ties keep
// label-space order.
func (e *Engine) rank(scores map[string]float64) []model.ScoredIntent {
	ranked := make([]model.ScoredIntent, 0, len(e.cfg.LabelSpace))
	for _, l := range e.cfg.LabelSpace {
		ranked = append(ranked, model.ScoredIntent{Label: l, Score: scores[l]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// tops picks the two best labels. A slot without a positive score holds the
// unknown label.
func (e *Engine) tops(ranked []model.ScoredIntent) (model.ScoredIntent, model.ScoredIntent) {
	unknown := model.ScoredIntent{Label: e.cfg.UnknownLabel, Score: 0}
	top1, top2 := unknown, unknown
	if len(ranked) > 0 && ranked[0].Score > 0 {
		top1 = ranked[0]
	}
	if len(ranked) > 1 && ranked[1].Score > 0 {
		top2 = ranked[1]
	}
	return top1, top2
}

// isMultiIntent holds when at least two labels reach the multi-label threshold.
// Zero scores never count, even with a zero threshold.
func (e *Engine) isMultiIntent(ranked []model.ScoredIntent) bool {
	th := e.cfg.Thresholds.MultiLabelThreshold
	n := 0
	for _, it := range ranked {
		if it.Score > 0 && it.Score >= th-ScoreEpsilon {
			n++
		}
	}
	return n >= 2
}

func (e *Engine) ambiguity(top1, top2 model.ScoredIntent) model.AmbiguityReasons {
	th := e.cfg.Thresholds
	gap := top1.Score - top2.Score

	var reasons model.AmbiguityReasons
	reasons.Margin = gap <= th.AmbiguousMargin+ScoreEpsilon
	reasons.LowConfidence = top1.Score < th.MinConfidence-ScoreEpsilon

	if top1.Score > 0 && top2.Score > 0 {
		if pair, ok := e.conflicts[model.PairKey(top1.Label, top2.Label)]; ok {
			reasons.Conflict = gap <= pair.Margin+ScoreEpsilon
		}
	}
	return reasons
}
