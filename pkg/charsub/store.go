package charsub

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"unicode/utf8"
)

// The flat-table columns, in storage order.
var storeHeader = []string{"char1", "char2", "char_set", "score", "sub"}

// Save writes the matrix as a flat table with one row per canonical pair.
// Identity pairs are written with an empty score column.
func Save(w io.Writer, m *Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(storeHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	pairs := make([]Pair, 0, m.Len())
	for p := range m.entries {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].C1 != pairs[j].C1 {
			return pairs[i].C1 < pairs[j].C1
		}
		return pairs[i].C2 < pairs[j].C2
	})

	for _, p := range pairs {
		e := m.entries[p]
		score := ""
		if e.HasScore {
			score = strconv.FormatFloat(e.Score, 'g', -1, 64)
		}
		row := []string{
			string(p.C1),
			string(p.C2),
			m.CharSet,
			score,
			strconv.FormatFloat(e.Sub, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write pair %q %q: %w", p.C1, p.C2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads a flat table and returns the matrix for one character set,
// skipping rows that belong to other sets. Reversed pairs are normalized to
// canonical order on the way in.
func Load(r io.Reader, charSet string) (*Matrix, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("matrix table is empty")
	}

	m := NewMatrix(charSet)
	for i, row := range rows[1:] {
		if len(row) != len(storeHeader) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i+2, len(row), len(storeHeader))
		}
		if row[2] != charSet {
			continue
		}
		c1, n1 := utf8.DecodeRuneInString(row[0])
		c2, n2 := utf8.DecodeRuneInString(row[1])
		if n1 == 0 || n2 == 0 || c1 == utf8.RuneError || c2 == utf8.RuneError {
			return nil, fmt.Errorf("row %d has an invalid character pair", i+2)
		}

		var e Entry
		if row[3] != "" {
			score, err := strconv.ParseFloat(row[3], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d has a bad score: %w", i+2, err)
			}
			e.Score = score
			e.HasScore = true
		}
		sub, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d has a bad substitution level: %w", i+2, err)
		}
		e.Sub = sub

		m.set(c1, c2, e)
	}
	return m, nil
}
