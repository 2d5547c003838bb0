package classifier

import (
	"math"
	"sort"

	"intent-audit/pkg/textnorm"
)

func terms(question string) []string {
	return textnorm.NGrams(textnorm.Tokenize(textnorm.Normalize(question)), maxNGram)
}

// fitVocabulary keeps the maxFeatures most frequent terms (ties broken
// lexicographically) and computes smoothed IDF: ln((1+n)/(1+df)) + 1.
func fitVocabulary(docs [][]string, maxFeatures int) ([]string, []float64) {
	total := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, t := range doc {
			total[t]++
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	all := make([]string, 0, len(total))
	for t := range total {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool {
		if total[all[i]] != total[all[j]] {
			return total[all[i]] > total[all[j]]
		}
		return all[i] < all[j]
	})
	if len(all) > maxFeatures {
		all = all[:maxFeatures]
	}
	sort.Strings(all)

	n := float64(len(docs))
	idf := make([]float64, len(all))
	for i, t := range all {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return all, idf
}

// vectorize returns the L2-normalized TF-IDF vector of question, sorted by
// feature index.
func (m *Model) vectorize(question string) vector {
	counts := make(map[int]float64)
	for _, t := range terms(question) {
		if idx, ok := m.index[t]; ok {
			counts[idx]++
		}
	}

	v := make(vector, 0, len(counts))
	var norm float64
	for idx, tf := range counts {
		val := tf * m.IDF[idx]
		v = append(v, feature{idx: idx, val: val})
		norm += val * val
	}
	sort.Slice(v, func(i, j int) bool { return v[i].idx < v[j].idx })

	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range v {
			v[i].val /= norm
		}
	}
	return v
}

func (m *Model) buildIndex() {
	m.index = make(map[string]int, len(m.Terms))
	for i, t := range m.Terms {
		m.index[t] = i
	}
}
