// Package stralign aligns and scores noisy transcriptions of the same text.
//
// The package has two layers. The plain layer treats every character edit as
// equally bad: Distance is the classic Levenshtein distance and DistanceAll
// scores every pair in a set of strings, which is how a reconciled
// transcription is compared against an independent reference. The weighted
// layer knows that OCR confusions are not all equal: an Aligner scores
// substitutions with a character substitution matrix, so "PROVIDENCE" and
// "PROVTDENCE" align almost perfectly while genuinely different text does
// not. Aligned output pads the inputs with the gap rune so every variant of
// a line has the same printable length, ready for column-wise consensus.
//
// Main entry points:
//
// - Distance / DistanceAll: unit-cost edit distances
// - Aligner.Align: weighted alignment of two strings
// - Aligner.AlignAll: progressive alignment of N variants of one line
package stralign

import "sort"

// Gap is the rune used to mark alignment gaps in output strings. Gaps never
// match each other.
const Gap = '⋄'

// Distance returns the Levenshtein distance between two strings, counted
// over runes with unit costs. It is symmetric, zero only for identical
// strings, and equals the other string's length when one side is empty.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	dist := make([]int, len(rb)+1)
	for i := range dist {
		dist[i] = i
	}

	for r := 0; r < len(ra); r++ {
		prev := dist[0]
		dist[0] = r + 1
		for c := 0; c < len(rb); c++ {
			subst := prev
			if ra[r] != rb[c] {
				subst++
			}
			prev = dist[c+1]
			dist[c+1] = min3(subst, dist[c]+1, dist[c+1]+1)
		}
	}
	return dist[len(rb)]
}

// PairDistance is the distance between the strings at indices I and J of a
// DistanceAll input, with I < J.
type PairDistance struct {
	Dist int
	I, J int
}

// DistanceAll computes the Levenshtein distance for every unordered pair in
// the slice, each pair exactly once, ordered by ascending distance. Pairs
// with equal distances keep their generation order (row-major by indices),
// so the output is deterministic.
func DistanceAll(strings []string) []PairDistance {
	var results []PairDistance
	for i := 0; i < len(strings)-1; i++ {
		for j := i + 1; j < len(strings); j++ {
			results = append(results, PairDistance{
				Dist: Distance(strings[i], strings[j]),
				I:    i,
				J:    j,
			})
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Dist < results[b].Dist
	})
	return results
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
