package audit

import (
	"sort"

	"intent-audit/internal/intent"
	"intent-audit/internal/model"
)

// Metrics is metrics.json.
type Metrics struct {
	Overall          Overall                 `json:"overall"`
	AmbiguityReasons ReasonRates             `json:"ambiguity_reasons"`
	PerLabel         map[string]LabelMetrics `json:"per_label"`
	RuleStats        RuleStats               `json:"rule_stats"`
	Audit            MetricsAudit            `json:"audit"`
}

// Overall holds the headline rates. Gold-dependent values are null when no
// sample carries gold labels.
type Overall struct {
	NSamples            int      `json:"n_samples"`
	NWithGold           int      `json:"n_with_gold"`
	GoldAvailable       bool     `json:"gold_available"`
	AmbiguousRate       float64  `json:"ambiguous_rate"`
	MultiIntentRate     float64  `json:"multi_intent_rate"`
	CoverageRate        float64  `json:"coverage_rate"`
	MacroF1             *float64 `json:"macro_f1"`
	MicroF1             *float64 `json:"micro_f1"`
	MultiIntentAccuracy *float64 `json:"multi_intent_accuracy"`
}

// ReasonRates is the share of samples flagged by each ambiguity condition.
type ReasonRates struct {
	MarginRate        float64 `json:"margin_rate"`
	LowConfidenceRate float64 `json:"low_confidence_rate"`
	ConflictRate      float64 `json:"conflict_rate"`
}

// LabelMetrics scores one label against gold. Support and the P/R/F1
// values only count samples with gold; Predicted counts every sample.
type LabelMetrics struct {
	Precision *float64 `json:"precision"`
	Recall    *float64 `json:"recall"`
	F1        *float64 `json:"f1"`
	Support   int      `json:"support"`
	Predicted int      `json:"predicted"`
}

// RuleStats counts rule activity.
type RuleStats struct {
	NSamples     int            `json:"n_samples"`
	NWithAnyRule int            `json:"n_with_any_rule"`
	FireCounts   map[string]int `json:"fire_counts"`
}

// MetricsAudit ties the metrics to a configuration and an input.
type MetricsAudit struct {
	ConfigFingerprint string `json:"config_fingerprint"`
	InputPath         string `json:"input_path"`
	InputHash         string `json:"input_hash"`
	RunDir            string `json:"run_dir"`
}

// KeyMetrics returns the index-line subset of m.
func (m Metrics) KeyMetrics() map[string]any {
	return map[string]any{
		"macro_f1":          m.Overall.MacroF1,
		"micro_f1":          m.Overall.MicroF1,
		"ambiguous_rate":    m.Overall.AmbiguousRate,
		"multi_intent_rate": m.Overall.MultiIntentRate,
		"coverage_rate":     m.Overall.CoverageRate,
	}
}

// PredictedLabels is the label set scored against gold: every label at or
// above the multi-label threshold, plus top1 when it scored at all.
func PredictedLabels(res model.PredictionResult, th model.Thresholds) []string {
	out := []string{}
	for _, it := range res.Intents {
		if it.Score >= th.MultiLabelThreshold-intent.ScoreEpsilon || it.Label == res.Top1.Label {
			out = append(out, it.Label)
		}
	}
	return out
}

type counts struct {
	tp, fp, fn, support, predicted int
}

// Collector accumulates metrics over a sequence of predictions.
type Collector struct {
	cfg model.EffectiveConfig

	n, nGold, ambiguous, multi, covered int
	margin, lowConf, conflict           int
	anyRule                             int
	multiCorrect                        int
	fires                               map[string]int
	labels                              map[string]*counts
}

// NewCollector starts an empty collection for cfg.
func NewCollector(cfg model.EffectiveConfig) *Collector {
	c := &Collector{
		cfg:    cfg,
		fires:  make(map[string]int, len(cfg.Rules)),
		labels: make(map[string]*counts, len(cfg.LabelSpace)),
	}
	for _, r := range cfg.Rules {
		c.fires[r.RuleID] = 0
	}
	for _, l := range cfg.LabelSpace {
		c.labels[l] = &counts{}
	}
	return c
}

// Add records one prediction and returns the predicted label set.
func (c *Collector) Add(s model.Sample, res model.PredictionResult) []string {
	pred := PredictedLabels(res, c.cfg.Thresholds)

	c.n++
	if res.IsAmbiguous {
		c.ambiguous++
	}
	if res.IsMultiIntent {
		c.multi++
	}
	if len(res.Intents) > 0 {
		c.covered++
	}
	if res.Ambiguity.Margin {
		c.margin++
	}
	if res.Ambiguity.LowConfidence {
		c.lowConf++
	}
	if res.Ambiguity.Conflict {
		c.conflict++
	}
	if len(res.RulesFired) > 0 {
		c.anyRule++
	}
	for _, f := range res.RulesFired {
		c.fires[f.RuleID]++
	}
	for _, l := range pred {
		c.label(l).predicted++
	}

	if !s.HasGold() {
		return pred
	}
	c.nGold++
	if (len(s.GoldLabels) >= 2) == res.IsMultiIntent {
		c.multiCorrect++
	}

	gold := make(map[string]bool, len(s.GoldLabels))
	for _, l := range s.GoldLabels {
		gold[l] = true
		c.label(l).support++
	}
	for _, l := range pred {
		if gold[l] {
			c.label(l).tp++
			delete(gold, l)
		} else {
			c.label(l).fp++
		}
	}
	for l := range gold {
		c.label(l).fn++
	}
	return pred
}

func (c *Collector) label(l string) *counts {
	ct, ok := c.labels[l]
	if !ok {
		ct = &counts{}
		c.labels[l] = ct
	}
	return ct
}

// Metrics computes the aggregate. Audit fields are left for the caller.
func (c *Collector) Metrics() Metrics {
	m := Metrics{
		Overall: Overall{
			NSamples:        c.n,
			NWithGold:       c.nGold,
			GoldAvailable:   c.nGold > 0,
			AmbiguousRate:   rate(c.ambiguous, c.n),
			MultiIntentRate: rate(c.multi, c.n),
			CoverageRate:    rate(c.covered, c.n),
		},
		AmbiguityReasons: ReasonRates{
			MarginRate:        rate(c.margin, c.n),
			LowConfidenceRate: rate(c.lowConf, c.n),
			ConflictRate:      rate(c.conflict, c.n),
		},
		PerLabel: make(map[string]LabelMetrics, len(c.labels)),
		RuleStats: RuleStats{
			NSamples:     c.n,
			NWithAnyRule: c.anyRule,
			FireCounts:   make(map[string]int, len(c.fires)),
		},
	}
	for id, n := range c.fires {
		m.RuleStats.FireCounts[id] = n
	}

	names := make([]string, 0, len(c.labels))
	for l := range c.labels {
		names = append(names, l)
	}
	sort.Strings(names)

	var tp, fp, fn int
	var f1Sum float64
	active := 0
	for _, l := range names {
		ct := c.labels[l]
		lm := LabelMetrics{Support: ct.support, Predicted: ct.predicted}
		if m.Overall.GoldAvailable {
			p, r, f := prf(ct.tp, ct.fp, ct.fn)
			lm.Precision, lm.Recall, lm.F1 = &p, &r, &f
			if ct.tp+ct.fp+ct.fn > 0 {
				active++
				f1Sum += f
			}
			tp, fp, fn = tp+ct.tp, fp+ct.fp, fn+ct.fn
		}
		m.PerLabel[l] = lm
	}

	if m.Overall.GoldAvailable {
		macro := 0.0
		if active > 0 {
			macro = f1Sum / float64(active)
		}
		_, _, micro := prf(tp, fp, fn)
		acc := rate(c.multiCorrect, c.nGold)
		m.Overall.MacroF1 = &macro
		m.Overall.MicroF1 = &micro
		m.Overall.MultiIntentAccuracy = &acc
	}
	return m
}

// prf returns precision, recall and F1, with 0 for an empty denominator.
func prf(tp, fp, fn int) (float64, float64, float64) {
	p := rate(tp, tp+fp)
	r := rate(tp, tp+fn)
	if p+r == 0 {
		return p, r, 0
	}
	return p, r, 2 * p * r / (p + r)
}

func rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
