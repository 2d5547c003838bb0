package intent

import (
	"strings"

	"intent-audit/internal/model"
)

// clarify builds the clarification question and options for an ambiguous
// prediction.
func (e *Engine) clarify(question string, ranked []model.ScoredIntent, top1, top2 model.ScoredIntent) (string, []string) {
	if top1.Score <= 0 {
		tpl, ok := e.template(model.TemplateNoMatch, model.TemplateGeneric)
		if !ok {
			tpl.Question = DefaultNoMatchTemplate
		}
		text := render(tpl.Question, question, nil, "", "")
		return text, append([]string{}, tpl.Options...)
	}

	candidates := e.candidates(ranked, top1)
	labelB := ""
	if top2.Score > 0 {
		labelB = top2.Label
	}

	keys := []string{model.TemplateGeneric}
	if labelB != "" {
		keys = append([]string{model.PairKey(top1.Label, labelB)}, keys...)
	}
	tpl, ok := e.template(keys...)
	if !ok {
		tpl.Question = DefaultGenericTemplate
	}

	text := render(tpl.Question, question, candidates, top1.Label, labelB)
	if len(tpl.Options) > 0 {
		return text, append([]string{}, tpl.Options...)
	}
	return text, candidates
}

// candidates returns top1, top2 and any further positive label within the
// ambiguous margin of top1, capped at MaxClarificationOptions.
func (e *Engine) candidates(ranked []model.ScoredIntent, top1 model.ScoredIntent) []string {
	limit := e.cfg.MaxClarificationOptions
	if limit < 2 {
		limit = 2
	}
	floor := top1.Score - e.cfg.Thresholds.AmbiguousMargin

	out := make([]string, 0, limit)
	for i, it := range ranked {
		if len(out) == limit || it.Score <= 0 {
			break
		}
		if i < 2 || it.Score >= floor-ScoreEpsilon {
			out = append(out, it.Label)
		}
	}
	return out
}

// template returns the first configured template among keys.
func (e *Engine) template(keys ...string) (model.ClarificationTemplate, bool) {
	for _, k := range keys {
		if tpl, ok := e.cfg.ClarificationTemplates[k]; ok && tpl.Question != "" {
			return tpl, true
		}
	}
	return model.ClarificationTemplate{}, false
}

func render(text, question string, candidates []string, labelA, labelB string) string {
	r := strings.NewReplacer(
		placeholderCandidates, strings.Join(candidates, ", "),
		placeholderLabelA, labelA,
		placeholderLabelB, labelB,
		placeholderQuestion, strings.TrimSpace(question),
	)
	return r.Replace(text)
}
