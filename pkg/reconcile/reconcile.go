// Package reconcile collapses redundant, noisy OCR output into single
// best-estimate records.
//
// A label image is transcribed by several independent OCR pipelines, and a
// sheet may be marked up by an automated detector plus several human
// annotators. Every source is noisy in its own way, so the package treats
// agreement as signal: texts that repeat win outright, texts that don't are
// judged by how much of their content looks like real vocabulary, and boxes
// that pile up on the same spot are merged into one.
//
// Main entry points:
//
// - Consensus.Reconcile: one best string from N variant transcriptions
// - MergeBoxes: clusters of overlapping boxes merged into single envelopes
// - Sheet.Reconcile: crowd-annotation votes applied to a detector's boxes
package reconcile

import "regexp"

// Method records how a consensus string was chosen.
type Method int

// Consensus methods.
const (
	MethodEmpty      Method = iota // no input texts
	MethodMajority                 // an exact string repeated often enough
	MethodVocabulary               // vocabulary scoring of non-repeating variants
)

func (m Method) String() string {
	switch m {
	case MethodMajority:
		return "majority"
	case MethodVocabulary:
		return "vocabulary"
	default:
		return "empty"
	}
}

// ConsensusText is one reconciled string plus how it was chosen and which
// sources contributed.
type ConsensusText struct {
	Text    string
	Method  Method
	Sources []string
}

var spaceBeforePunct = regexp.MustCompile(`\s([.,:])`)

// normalize collapses a space before sentence punctuation, a cosmetic
// artifact OCR engines disagree on ("MTS ." vs "MTS.").
func normalize(text string) string {
	return spaceBeforePunct.ReplaceAllString(text, "$1")
}
