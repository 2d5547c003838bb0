// Package textnorm normalizes user questions before matching and vectorizing.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC, Unicode case folding and trims surrounding space.
// Full-width and half-width forms therefore compare equal.
func Normalize(s string) string {
	// A Caser keeps state; one per call keeps Normalize safe for concurrent use.
	return strings.TrimSpace(cases.Fold().String(norm.NFKC.String(s)))
}

// Tokenize splits normalized text into terms. Runs of letters and digits form
// word tokens; Han, Hiragana, Katakana and Hangul characters are emitted one
// per token since those scripts are not space separated.
func Tokenize(s string) []string {
	s = Normalize(s)
	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, r := range s {
		switch {
		case isCJK(r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			word.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// NGrams returns the unigrams of tokens followed by adjacent bigrams joined by a space.
func NGrams(tokens []string, maxN int) []string {
	out := make([]string, 0, len(tokens)*maxN)
	out = append(out, tokens...)
	if maxN < 2 {
		return out
	}
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
