package sweep

import (
	"intent-audit/internal/intent"
	"intent-audit/internal/model"
)

// Grid lists the values tried for each threshold. Points are visited with
// multi_label_threshold outermost and min_confidence innermost.
type Grid struct {
	MultiLabelThresholds []float64
	AmbiguousMargins     []float64
	MinConfidences       []float64
}

// Size returns the number of grid points.
func (g Grid) Size() int {
	return len(g.MultiLabelThresholds) * len(g.AmbiguousMargins) * len(g.MinConfidences)
}

// Input is one sweep.
type Input struct {
	Config  model.EffectiveConfig
	Samples []model.Sample
	Grid    Grid
	Scorer  intent.Scorer // optional, required only for linear fusion
}

// Point is the outcome of one grid point.
type Point struct {
	Thresholds      model.Thresholds
	Fingerprint     string
	NSamples        int
	AmbiguousRate   float64
	MultiIntentRate float64
	CoverageRate    float64
	MacroF1         *float64
	MicroF1         *float64
}
