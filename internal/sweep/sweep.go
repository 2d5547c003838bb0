// Package sweep evaluates the engine over a grid of thresholds.
package sweep

import (
	"context"
	"fmt"

	"intent-audit/internal/audit"
	"intent-audit/internal/effective"
	"intent-audit/internal/intent"
	"intent-audit/internal/model"
	"intent-audit/pkg/log"
)

// Run evaluates every grid point in grid order. All points share one
// Matcher, so each question is matched against the rules once.
func Run(ctx context.Context, l log.Logger, in Input) ([]Point, error) {
	if in.Grid.Size() == 0 {
		return nil, ErrEmptyGrid
	}
	if len(in.Samples) == 0 {
		return nil, ErrNoSamples
	}

	matcher, err := intent.NewMatcher(in.Config.Rules, intent.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("sweep.Run: %w", err)
	}
	opts := []intent.Option{intent.WithMatcher(matcher)}
	if in.Scorer != nil {
		opts = append(opts, intent.WithScorer(in.Scorer))
	}

	points := make([]Point, 0, in.Grid.Size())
	for _, multi := range in.Grid.MultiLabelThresholds {
		for _, margin := range in.Grid.AmbiguousMargins {
			for _, minConf := range in.Grid.MinConfidences {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				th := model.Thresholds{MultiLabelThreshold: multi, AmbiguousMargin: margin, MinConfidence: minConf}
				p, err := evaluate(in, th, opts)
				if err != nil {
					return nil, err
				}
				l.Debugf(ctx, "sweep: %+v -> ambiguous_rate=%.4f multi_intent_rate=%.4f", th, p.AmbiguousRate, p.MultiIntentRate)
				points = append(points, p)
			}
		}
	}
	l.Infof(ctx, "sweep: evaluated %d grid points over %d samples", len(points), len(in.Samples))
	return points, nil
}

func evaluate(in Input, th model.Thresholds, opts []intent.Option) (Point, error) {
	cfg, err := effective.WithThresholds(in.Config, th)
	if err != nil {
		return Point{}, err
	}
	fp, err := effective.Fingerprint(cfg)
	if err != nil {
		return Point{}, err
	}
	engine, err := intent.New(cfg, opts...)
	if err != nil {
		return Point{}, fmt.Errorf("sweep.Run: %w", err)
	}

	c := audit.NewCollector(cfg)
	for _, s := range in.Samples {
		c.Add(s, engine.Predict(s.Question))
	}
	o := c.Metrics().Overall
	return Point{
		Thresholds:      th,
		Fingerprint:     fp,
		NSamples:        o.NSamples,
		AmbiguousRate:   o.AmbiguousRate,
		MultiIntentRate: o.MultiIntentRate,
		CoverageRate:    o.CoverageRate,
		MacroF1:         o.MacroF1,
		MicroF1:         o.MicroF1,
	}, nil
}
