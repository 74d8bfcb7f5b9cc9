// Package charsub builds and serves character substitution matrices for
// OCR text alignment.
//
// Different OCR engines confuse different characters, but the confusions are
// not random: characters that look alike ("l" and "1", "O" and "0") are
// swapped far more often than characters that don't. This package renders
// every character of an alphabet to a fixed-size bitmap and derives a
// substitution weight for every character pair from how well the two bitmaps
// overlap. Aligners can then score a substitution of visually similar
// characters as nearly free while keeping dissimilar substitutions expensive.
//
// The matrix is built once per character set (see Build), persisted as a
// flat table (see Save/Load), and is read-only afterwards. Because the build
// is incremental, extending an alphabet only computes scores for pairs that
// involve a new character.
//
// Key Types:
//
// - Matrix: substitution weights keyed by canonically ordered rune pairs
// - Entry: the raw similarity score and discrete substitution level of a pair
// - Glyph: one character rendered to a boolean pixel mask
// - Config: canvas, font, and discretization settings for a build
//
// Main Functions:
//
// - Build: computes or extends a Matrix for a character set
// - Load / Save: flat-table persistence of a Matrix
package charsub

import (
	"sort"
	"sync/atomic"
)

// Substitution levels, from identical to unrelated. The values double as
// alignment weights where a higher weight means a cheaper substitution.
const (
	Same      = 2.0
	Near      = 1.0
	Far       = 0.0
	Marginal  = -1.0
	Unrelated = -2.0
)

// Pair is a canonically ordered character pair: C1 is never greater than C2,
// so each unordered pair has exactly one key.
type Pair struct {
	C1, C2 rune
}

// PairKey returns the canonical Pair for two runes in either order.
func PairKey(a, b rune) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{C1: a, C2: b}
}

// Entry holds the similarity score and the discrete substitution level for
// one character pair. Identity pairs carry no score.
type Entry struct {
	Score    float64
	HasScore bool
	Sub      float64
}

// Matrix maps canonically ordered character pairs to substitution entries
// for one character set. It is immutable after Build and safe for
// concurrent readers.
type Matrix struct {
	CharSet string

	entries map[Pair]Entry
	misses  atomic.Int64
}

// NewMatrix returns an empty matrix for a character set.
func NewMatrix(charSet string) *Matrix {
	return &Matrix{
		CharSet: charSet,
		entries: make(map[Pair]Entry),
	}
}

// Len reports how many pairs the matrix holds.
func (m *Matrix) Len() int { return len(m.entries) }

// Entry looks up the entry for a character pair in either order.
func (m *Matrix) Entry(a, b rune) (Entry, bool) {
	e, ok := m.entries[PairKey(a, b)]
	return e, ok
}

// Weight returns the substitution weight for a character pair. A pair that
// is not in the matrix falls back to the Unrelated weight; the fallback is
// counted so callers can monitor how often their alphabet is incomplete.
func (m *Matrix) Weight(a, b rune) float64 {
	if e, ok := m.entries[PairKey(a, b)]; ok {
		return e.Sub
	}
	m.misses.Add(1)
	return Unrelated
}

// Misses reports how many Weight lookups fell back to the Unrelated weight.
func (m *Matrix) Misses() int64 { return m.misses.Load() }

// Chars returns every character that appears in the matrix, sorted.
func (m *Matrix) Chars() []rune {
	seen := make(map[rune]bool)
	for p := range m.entries {
		seen[p.C1] = true
		seen[p.C2] = true
	}
	chars := make([]rune, 0, len(seen))
	for c := range seen {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return chars
}

// set stores an entry under the canonical key. Only the builder and the
// loader write to a matrix.
func (m *Matrix) set(a, b rune, e Entry) {
	m.entries[PairKey(a, b)] = e
}
