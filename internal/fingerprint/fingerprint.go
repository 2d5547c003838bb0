// Package fingerprint canonicalizes a configuration and hashes it so two runs
// can assert "same configuration" by comparing one short string.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Length is the length of a fingerprint string (hex SHA-256).
const Length = 64

// Canonicalize serializes v to JSON with sorted object keys, no HTML escaping
// and no whitespace. Numbers keep their literal text.
func Canonicalize(v any) ([]byte, error) {
	raw, err := marshal(v)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: marshal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("fingerprint: decode: %w", err)
	}

	// encoding/json writes map keys in sorted order.
	out, err := marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: re-encode: %w", err)
	}
	return out, nil
}

// Compute returns the hex SHA-256 of the canonical form of v.
func Compute(v any) (string, error) {
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	return Sum(canonical), nil
}

// Sum returns the hex SHA-256 of b.
func Sum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Short returns a prefix of fp suitable for run ids and log lines.
func Short(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12]
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
