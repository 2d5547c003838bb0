package intent

// ScoreEpsilon absorbs float subtraction error so that a gap equal to the
// margin on paper (1.00 - 0.85 vs 0.15) compares as equal.
const ScoreEpsilon = 1e-9

// DefaultCacheSize is the rule evaluation cache size used when none is given.
const DefaultCacheSize = 4096

// Built-in template texts, used when the configuration carries none.
const (
	DefaultGenericTemplate = "Your question could mean several things: {candidates}. Which one did you mean?"
	DefaultNoMatchTemplate = "I could not tell what {question} is asking for. Could you rephrase it?"
)

// Template placeholders.
const (
	placeholderCandidates = "{candidates}"
	placeholderLabelA     = "{label_a}"
	placeholderLabelB     = "{label_b}"
	placeholderQuestion   = "{question}"
)
