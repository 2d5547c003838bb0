package intent

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"intent-audit/internal/model"
	"intent-audit/pkg/textnorm"
)

type compiledRule struct {
	rule     model.Rule
	keywords []string // normalized keywords and patterns
	regexes  []*regexp.Regexp
}

// Evaluation is the raw rule outcome for one question.
type Evaluation struct {
	Raw   map[string]float64 // label -> accumulated weight of fired rules
	Fired []model.FiredRule  // in rule file order
}

func (e Evaluation) clone() Evaluation {
	raw := make(map[string]float64, len(e.Raw))
	for k, v := range e.Raw {
		raw[k] = v
	}
	fired := make([]model.FiredRule, len(e.Fired))
	copy(fired, e.Fired)
	return Evaluation{Raw: raw, Fired: fired}
}

// Matcher applies a rule set to questions. Evaluations are cached by
// normalized question so repeated questions and threshold sweeps over the
// same input skip re-matching.
type Matcher struct {
	rules       []compiledRule
	maxPossible map[string]float64
	ruleIDs     string
	cache       *lru.Cache[string, Evaluation]
}

// NewMatcher compiles rules. cacheSize <= 0 disables the cache.
func NewMatcher(rules []model.Rule, cacheSize int) (*Matcher, error) {
	m := &Matcher{
		rules:       make([]compiledRule, 0, len(rules)),
		maxPossible: make(map[string]float64),
	}

	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{rule: r}
		for _, kw := range append(append([]string{}, r.Keywords...), r.Patterns...) {
			if n := textnorm.Normalize(kw); n != "" {
				cr.keywords = append(cr.keywords, n)
			}
		}
		for _, pat := range r.Regexes {
			rgx, err := regexp.Compile(pat)
			if err != nil {
				return nil, err
			}
			cr.regexes = append(cr.regexes, rgx)
		}
		m.rules = append(m.rules, cr)
		m.maxPossible[r.Label] += r.Weight
		ids = append(ids, r.RuleID)
	}
	m.ruleIDs = strings.Join(ids, "\x00")

	if cacheSize > 0 {
		cache, err := lru.New[string, Evaluation](cacheSize)
		if err != nil {
			return nil, err
		}
		m.cache = cache
	}
	return m, nil
}

// Evaluate returns the fired rules and raw label scores for question. The
// returned value is owned by the caller.
func (m *Matcher) Evaluate(question string) Evaluation {
	trimmed := strings.TrimSpace(question)
	normalized := textnorm.Normalize(trimmed)

	if m.cache != nil {
		if ev, ok := m.cache.Get(trimmed); ok {
			return ev.clone()
		}
	}

	ev := Evaluation{Raw: make(map[string]float64), Fired: []model.FiredRule{}}
	if normalized != "" {
		for _, cr := range m.rules {
			if !cr.matches(trimmed, normalized) {
				continue
			}
			ev.Raw[cr.rule.Label] += cr.rule.Weight
			ev.Fired = append(ev.Fired, model.FiredRule{
				RuleID: cr.rule.RuleID,
				Label:  cr.rule.Label,
				Weight: cr.rule.Weight,
			})
		}
	}

	if m.cache != nil {
		m.cache.Add(trimmed, ev.clone())
	}
	return ev
}

// MaxPossible returns the summed weight of every rule targeting label.
func (m *Matcher) MaxPossible(label string) float64 {
	return m.maxPossible[label]
}

// Keywords and patterns match as substrings of the normalized question;
// regexes run against the question as written.
func (cr compiledRule) matches(raw, normalized string) bool {
	for _, kw := range cr.keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	for _, rgx := range cr.regexes {
		if rgx.MatchString(raw) {
			return true
		}
	}
	return false
}

func (m *Matcher) sameRules(rules []model.Rule) bool {
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.RuleID)
	}
	return strings.Join(ids, "\x00") == m.ruleIDs
}
