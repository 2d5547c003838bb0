package audit

import (
	"fmt"
	"strings"

	"intent-audit/internal/fingerprint"
)

type summaryInput struct {
	RunID       string
	Mode        string
	Fingerprint string
	InputPath   string
	InputHash   string
	Metrics     Metrics
	Notes       string
	Warnings    []string
}

func renderSummary(in summaryInput) []byte {
	var b strings.Builder
	o := in.Metrics.Overall

	fmt.Fprintf(&b, "# Intent run %s\n\n", in.RunID)
	b.WriteString("Rule-based intent classification (multi-intent and ambiguity detection with clarification) ")
	b.WriteString("over a fixed input, recorded for reproducible comparison against other runs with the same config fingerprint.\n\n")

	b.WriteString("## Run\n\n")
	fmt.Fprintf(&b, "- Mode: `%s`\n", in.Mode)
	fmt.Fprintf(&b, "- Config fingerprint: `%s`\n", in.Fingerprint)
	fmt.Fprintf(&b, "- Input: `%s` (sha256 `%s`)\n", in.InputPath, fingerprint.Short(in.InputHash))
	fmt.Fprintf(&b, "- Samples: %d (with gold labels: %d)\n\n", o.NSamples, o.NWithGold)

	b.WriteString("## Metrics\n\n")
	b.WriteString("| metric | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| ambiguous_rate | %.4f |\n", o.AmbiguousRate)
	fmt.Fprintf(&b, "| multi_intent_rate | %.4f |\n", o.MultiIntentRate)
	fmt.Fprintf(&b, "| coverage_rate | %.4f |\n", o.CoverageRate)
	fmt.Fprintf(&b, "| macro_f1 | %s |\n", nullable(o.MacroF1))
	fmt.Fprintf(&b, "| micro_f1 | %s |\n", nullable(o.MicroF1))
	fmt.Fprintf(&b, "| multi_intent_accuracy | %s |\n\n", nullable(o.MultiIntentAccuracy))
	if !o.GoldAvailable {
		b.WriteString("No sample carries gold labels, so F1 and accuracy are null.\n\n")
	}

	r := in.Metrics.AmbiguityReasons
	b.WriteString("## Ambiguity reasons\n\n")
	fmt.Fprintf(&b, "- margin: %.4f\n", r.MarginRate)
	fmt.Fprintf(&b, "- low_confidence: %.4f\n", r.LowConfidenceRate)
	fmt.Fprintf(&b, "- conflict: %.4f\n\n", r.ConflictRate)

	rs := in.Metrics.RuleStats
	fmt.Fprintf(&b, "Rules fired on %d of %d samples.\n\n", rs.NWithAnyRule, rs.NSamples)

	b.WriteString("## Notes\n\n")
	if strings.TrimSpace(in.Notes) == "" {
		b.WriteString("-\n")
	} else {
		b.WriteString(strings.TrimSpace(in.Notes) + "\n")
	}

	if len(in.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range in.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return []byte(b.String())
}

func nullable(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.4f", *v)
}
