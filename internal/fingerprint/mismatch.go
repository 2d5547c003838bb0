package fingerprint

import (
	"fmt"
	"sort"
	"strings"
)

// MismatchWarning reports artifacts that disagree on config_fingerprint.
// It is not fatal, but runs carrying one must not be used for comparisons.
type MismatchWarning struct {
	Expected string
	Found    map[string]string // artifact name -> fingerprint found in it
}

func (w *MismatchWarning) Error() string {
	names := make([]string, 0, len(w.Found))
	for name := range w.Found {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, Short(w.Found[name])))
	}
	return fmt.Sprintf("config_fingerprint mismatch: expected %s, got %s", Short(w.Expected), strings.Join(parts, ", "))
}

// CompareArtifacts checks that every artifact carries expected. When expected
// is empty the first artifact in name order is taken as the reference.
func CompareArtifacts(expected string, found map[string]string) *MismatchWarning {
	if len(found) == 0 {
		return nil
	}
	if expected == "" {
		names := make([]string, 0, len(found))
		for name := range found {
			names = append(names, name)
		}
		sort.Strings(names)
		expected = found[names[0]]
	}

	bad := make(map[string]string)
	for name, fp := range found {
		if fp != expected {
			bad[name] = fp
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return &MismatchWarning{Expected: expected, Found: bad}
}
