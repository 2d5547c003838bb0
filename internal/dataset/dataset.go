// Package dataset reads question samples from JSON Lines files.
package dataset

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"intent-audit/internal/model"
)

// maxLineSize bounds a single JSONL record.
const maxLineSize = 4 << 20

// Set is a loaded input file.
type Set struct {
	Path    string
	SHA256  string
	Samples []model.Sample
}

// GoldCount returns the number of samples that carry gold labels.
func (s Set) GoldCount() int {
	n := 0
	for _, sm := range s.Samples {
		if sm.HasGold() {
			n++
		}
	}
	return n
}

type rawSample struct {
	ID          json.RawMessage `json:"id"`
	Question    *string         `json:"question"`
	GoldLabels  []string        `json:"gold_labels"`
	GoldIntents []string        `json:"gold_intents"`
	Labels      []string        `json:"labels"`
}

// Load reads path. Blank lines are skipped; any other unparsable line is an
// error. Samples without an id get "line-<n>".
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("dataset.Load: %w", err)
	}
	samples, err := Parse(path, data)
	if err != nil {
		return Set{}, err
	}
	return Set{Path: path, SHA256: Hash(data), Samples: samples}, nil
}

// Parse decodes JSONL content. source is only used in error messages.
func Parse(source string, data []byte) ([]model.Sample, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var samples []model.Sample
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}

		var raw rawSample
		if err := json.Unmarshal(text, &raw); err != nil {
			return nil, &LineError{Path: source, Line: line, Err: fmt.Errorf("%w: %v", ErrMalformedSample, err)}
		}
		if raw.Question == nil {
			return nil, &LineError{Path: source, Line: line, Err: fmt.Errorf("%w: missing question", ErrMalformedSample)}
		}

		samples = append(samples, model.Sample{
			ID:         sampleID(raw.ID, line),
			Question:   *raw.Question,
			GoldLabels: gold(raw),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, &LineError{Path: source, Line: line + 1, Err: err}
	}
	return samples, nil
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// gold picks the first present gold field. An explicit empty list is kept as
// "gold says no intent"; an absent field means no gold.
func gold(raw rawSample) []string {
	for _, g := range [][]string{raw.GoldLabels, raw.GoldIntents, raw.Labels} {
		if g != nil {
			return dedupe(g)
		}
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, l := range in {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func sampleID(raw json.RawMessage, line int) string {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Sprintf("line-%d", line)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return fmt.Sprintf("line-%d", line)
		}
		return s
	}
	// numeric ids keep their literal form
	return string(raw)
}
