package reconcile

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

//go:embed vocab.txt
var defaultVocab string

var (
	nonWord   = regexp.MustCompile(`\W`)
	numberPat = regexp.MustCompile(`^\d+[.,]?\d*$`)
	datePat   = regexp.MustCompile(`^\d\d?[/-]\d\d?[/-]\d\d$`)
)

// Vocab is a reference word list used to judge how corrupted a
// transcription is. Lookups are case-insensitive.
type Vocab struct {
	words map[string]bool
}

// DefaultVocab returns the bundled word list.
func DefaultVocab() *Vocab {
	v, _ := ReadVocab(strings.NewReader(defaultVocab))
	return v
}

// ReadVocab builds a vocabulary from a reader with one word per line.
// Blank lines and lines starting with '#' are skipped.
func ReadVocab(r io.Reader) (*Vocab, error) {
	v := &Vocab{words: make(map[string]bool)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		v.words[strings.ToLower(word)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	return v, nil
}

// LoadVocab reads a vocabulary file and merges it over the bundled list.
func LoadVocab(path string) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary: %w", err)
	}
	defer f.Close()

	v, err := ReadVocab(f)
	if err != nil {
		return nil, err
	}
	for w := range DefaultVocab().words {
		v.words[w] = true
	}
	return v, nil
}

// Len reports the vocabulary size.
func (v *Vocab) Len() int { return len(v.words) }

// Contains reports whether a word, lowercased and stripped of non-word
// characters, is in the vocabulary.
func (v *Vocab) Contains(word string) bool {
	return v.words[nonWord.ReplaceAllString(strings.ToLower(word), "")]
}

// Hits counts the words of a text that look trustworthy: a direct
// vocabulary match, a number like 99.99, or a date like 1/22/34 or 11-2-34.
func (v *Vocab) Hits(text string) int {
	hits := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if v.words[nonWord.ReplaceAllString(word, "")] {
			hits++
		}
		if numberPat.MatchString(word) {
			hits++
		}
		if datePat.MatchString(word) {
			hits++
		}
	}
	return hits
}
