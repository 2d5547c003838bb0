package intent

import (
	"fmt"

	"intent-audit/internal/model"
)

// normalizer maps a label's raw rule weight into [0,1].
type normalizer func(label string, raw float64) float64

// fusion combines a rule score and a model score into the final score.
type fusion func(rule, modelScore float64) float64

func newNormalizer(sc model.Scoring, m *Matcher) (normalizer, error) {
	switch sc.Normalization {
	case model.NormalizationMaxPossible, "":
		return func(label string, raw float64) float64 {
			ceiling := m.MaxPossible(label)
			if ceiling <= 0 || raw <= 0 {
				return 0
			}
			return clamp01(raw / ceiling)
		}, nil
	case model.NormalizationSaturating:
		k := sc.SaturationK
		if k <= 0 {
			return nil, fmt.Errorf("%w: saturation_k must be > 0, got %v", ErrUnknownNormalize, k)
		}
		return func(_ string, raw float64) float64 {
			if raw <= 0 {
				return 0
			}
			return clamp01(raw / (raw + k))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNormalize, sc.Normalization)
	}
}

func newFusion(f model.Fusion, scorer Scorer) (fusion, error) {
	switch f.Mode {
	case model.FusionRuleOnly, "":
		return func(rule, _ float64) float64 { return rule }, nil
	case model.FusionLinear:
		if scorer == nil {
			return nil, ErrScorerRequired
		}
		alpha := f.AlphaRule
		return func(rule, modelScore float64) float64 {
			return clamp01(alpha*rule + (1-alpha)*clamp01(modelScore))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFusion, f.Mode)
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
