package sweep

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Header is the first CSV row written by WriteCSV.
var Header = []string{
	"multi_label_threshold",
	"ambiguous_margin",
	"min_confidence",
	"config_fingerprint",
	"n_samples",
	"ambiguous_rate",
	"multi_intent_rate",
	"coverage_rate",
	"macro_f1",
	"micro_f1",
}

// WriteCSV writes points in the order given. Null F1 values are empty cells.
func WriteCSV(w io.Writer, points []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			num(p.Thresholds.MultiLabelThreshold),
			num(p.Thresholds.AmbiguousMargin),
			num(p.Thresholds.MinConfidence),
			p.Fingerprint,
			strconv.Itoa(p.NSamples),
			num(p.AmbiguousRate),
			num(p.MultiIntentRate),
			num(p.CoverageRate),
			optional(p.MacroF1),
			optional(p.MicroF1),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optional(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 6, 64)
}
