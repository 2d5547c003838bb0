package intent

import "intent-audit/internal/model"

// Engine is the rule-based intent classifier. It holds no mutable state
// besides the Matcher's evaluation cache, so one Engine may serve
// concurrent callers.
type Engine struct {
	cfg        model.EffectiveConfig
	matcher    *Matcher
	scorer     Scorer
	normalize  normalizer
	fuse       fusion
	conflicts  map[string]model.ConflictPair
	labelIndex map[string]int
}

// Option customizes Engine construction.
type Option func(*options)

type options struct {
	matcher   *Matcher
	scorer    Scorer
	cacheSize int
}

// WithMatcher reuses an existing Matcher (and its cache). The Matcher must
// have been built from the same rules as the configuration.
func WithMatcher(m *Matcher) Option {
	return func(o *options) { o.matcher = m }
}

// WithScorer sets the trained model used by linear fusion.
func WithScorer(s Scorer) Option {
	return func(o *options) { o.scorer = s }
}

// WithCacheSize sets the evaluation cache size of the Matcher built by New.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// Config returns the effective configuration the engine was built from.
func (e *Engine) Config() model.EffectiveConfig {
	return e.cfg
}

// Matcher returns the rule matcher so it can be shared with other engines.
func (e *Engine) Matcher() *Matcher {
	return e.matcher
}

// Scorer returns the model scorer, or nil when fusion is rule_only.
func (e *Engine) Scorer() Scorer {
	return e.scorer
}
