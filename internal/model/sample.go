package model

// Sample is one input question, optionally with gold labels.
type Sample struct {
	ID         string   `json:"id"`
	Question   string   `json:"question"`
	GoldLabels []string `json:"gold_labels"` // nil when no gold is available
}

// HasGold reports whether gold labels were supplied for the sample.
func (s Sample) HasGold() bool {
	return s.GoldLabels != nil
}

// RunIndexEntry is one line of the cross-run index.
type RunIndexEntry struct {
	RunID             string         `json:"run_id"`
	Datetime          string         `json:"datetime"`
	Mode              string         `json:"mode"`
	ConfigFingerprint string         `json:"config_fingerprint"`
	InputPath         string         `json:"input_path"`
	InputHash         string         `json:"input_hash"`
	KeyMetrics        map[string]any `json:"key_metrics"`
	Notes             string         `json:"notes"`
}

// Run modes.
const (
	ModeRulePredict = "rule_predict"
	ModeReport      = "report"
	ModeSweep       = "sweep"
	ModeTrain       = "train"
)
