package intent

import (
	"fmt"

	"intent-audit/internal/model"
)

// New builds an Engine parameterized entirely by cfg.
func New(cfg model.EffectiveConfig, opts ...Option) (*Engine, error) {
	if len(cfg.LabelSpace) == 0 {
		return nil, ErrEmptyLabelSpace
	}

	o := options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	matcher := o.matcher
	if matcher == nil {
		m, err := NewMatcher(cfg.Rules, o.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("intent.New: %w", err)
		}
		matcher = m
	} else if !matcher.sameRules(cfg.Rules) {
		return nil, ErrMatcherMismatch
	}

	norm, err := newNormalizer(cfg.Scoring, matcher)
	if err != nil {
		return nil, err
	}
	fuse, err := newFusion(cfg.Fusion, o.scorer)
	if err != nil {
		return nil, err
	}

	conflicts := make(map[string]model.ConflictPair, len(cfg.ConflictPairs))
	for _, p := range cfg.ConflictPairs {
		conflicts[p.Key()] = p
	}
	labelIndex := make(map[string]int, len(cfg.LabelSpace))
	for i, l := range cfg.LabelSpace {
		labelIndex[l] = i
	}

	return &Engine{
		cfg:        cfg,
		matcher:    matcher,
		scorer:     o.scorer,
		normalize:  norm,
		fuse:       fuse,
		conflicts:  conflicts,
		labelIndex: labelIndex,
	}, nil
}
