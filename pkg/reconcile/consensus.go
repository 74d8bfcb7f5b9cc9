package reconcile

import (
	"sort"
	"strings"
)

// Consensus chooses the best transcription from a set of variants using a
// reference vocabulary for the no-majority case. It is read-only after
// construction and safe for concurrent use.
type Consensus struct {
	vocab *Vocab
}

// NewConsensus returns a consensus builder over the given vocabulary.
func NewConsensus(v *Vocab) *Consensus {
	return &Consensus{vocab: v}
}

// Reconcile returns the single best string for a list of variant
// transcriptions of the same line. Empty input yields an empty string.
//
// Identical OCR errors rarely repeat across engines, so an exact repeat is
// strong evidence: if the most common normalized string accounts for at
// least half the inputs it wins. Otherwise every variant is scored by the
// fraction of its words that hit the vocabulary (or look like a number or a
// date), and the best-scoring variant wins.
func (c *Consensus) Reconcile(texts []string) string {
	return c.ReconcileDetail(texts).Text
}

// ReconcileDetail is Reconcile plus the method that produced the result.
func (c *Consensus) ReconcileDetail(texts []string) ConsensusText {
	if len(texts) == 0 {
		return ConsensusText{Method: MethodEmpty}
	}

	normed := make([]string, len(texts))
	for i, t := range texts {
		normed[i] = normalize(t)
	}

	if best, ok := majority(normed); ok {
		return ConsensusText{Text: best, Method: MethodMajority}
	}

	best := 0
	bestRatio := -1.0
	bestWords := -1
	for i, text := range normed {
		words := len(strings.Fields(text))
		if words == 0 {
			continue
		}
		ratio := float64(c.vocab.Hits(text)) / float64(words)
		if ratio > bestRatio || (ratio == bestRatio && words > bestWords) {
			best, bestRatio, bestWords = i, ratio, words
		}
	}
	return ConsensusText{Text: normed[best], Method: MethodVocabulary}
}

// majority finds the most common string among the top three distinct
// variants, breaking frequency ties by longer then lexicographically later
// strings. It reports whether that string covers at least half the inputs.
func majority(texts []string) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, t := range texts {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	// Top three by frequency, first seen first on ties.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	top := order
	if len(top) > 3 {
		top = top[:3]
	}

	sort.SliceStable(top, func(i, j int) bool {
		ci, cj := counts[top[i]], counts[top[j]]
		if ci != cj {
			return ci > cj
		}
		if len(top[i]) != len(top[j]) {
			return len(top[i]) > len(top[j])
		}
		return top[i] > top[j]
	})

	best := top[0]
	return best, 2*counts[best] >= len(texts)
}
