package stralign

import "math"

// Scorer supplies the substitution weight for a character pair. Higher
// weights mean cheaper substitutions; identical characters score highest.
// charsub.Matrix satisfies this interface.
type Scorer interface {
	Weight(a, b rune) float64
}

// Aligner performs global alignments weighted by character shape
// similarity. The gap penalties follow the affine scheme: opening a gap
// costs GapOpen and every additional column of the same gap costs
// GapExtend. Both are negative; a larger score is a better alignment.
type Aligner struct {
	scores    Scorer
	gapOpen   float64
	gapExtend float64
}

// NewAligner returns an aligner over the given substitution scores with the
// default gap penalties.
func NewAligner(scores Scorer) *Aligner {
	return &Aligner{scores: scores, gapOpen: -3.0, gapExtend: -0.5}
}

// WithGaps overrides the gap open and extend penalties.
func (a *Aligner) WithGaps(open, extend float64) *Aligner {
	a.gapOpen = open
	a.gapExtend = extend
	return a
}

// Alignment is the result of aligning two strings: both inputs padded with
// the Gap rune to the same printable length, plus the total score of the
// alignment path.
type Alignment struct {
	A, B  string
	Score float64
}

// Op classifies one column of an alignment.
type Op int

// Alignment column operations.
const (
	OpMatch Op = iota // same rune on both sides
	OpSub             // different runes substituted
	OpIns             // rune only in B, gap in A
	OpDel             // rune only in A, gap in B
)

// Column is one aligned position: the runes from each side, with Gap
// standing in for a missing rune.
type Column struct {
	Op   Op
	A, B rune
}

// Columns expands the alignment into per-column operations.
func (al Alignment) Columns() []Column {
	ra := []rune(al.A)
	rb := []rune(al.B)
	cols := make([]Column, 0, len(ra))
	for i := range ra {
		col := Column{A: ra[i], B: rb[i]}
		switch {
		case col.A == Gap:
			col.Op = OpIns
		case col.B == Gap:
			col.Op = OpDel
		case col.A == col.B:
			col.Op = OpMatch
		default:
			col.Op = OpSub
		}
		cols = append(cols, col)
	}
	return cols
}

// Align globally aligns two strings. Either side may be empty, in which
// case the other side aligns against all gaps.
func (a *Aligner) Align(s1, s2 string) Alignment {
	aligned, score := a.alignNext([][]rune{[]rune(s1)}, []rune(s2))
	return Alignment{A: string(aligned[0]), B: string(aligned[1]), Score: score}
}

// AlignAll progressively aligns every variant of one line. The first string
// seeds the profile and each following string is aligned against all the
// strings aligned so far, scoring a column by the best substitution weight
// across the profile. The result has one gap-padded string per input, all
// of equal rune length.
func (a *Aligner) AlignAll(strings []string) []string {
	if len(strings) == 0 {
		return nil
	}

	results := [][]rune{[]rune(strings[0])}
	for _, s := range strings[1:] {
		results, _ = a.alignNext(results, []rune(s))
	}

	out := make([]string, len(results))
	for i, r := range results {
		out[i] = string(r)
	}
	return out
}

// trace cell directions.
const (
	dirNone = iota
	dirDiag
	dirUp
	dirLeft
)

type traceCell struct {
	val  float64
	up   float64
	left float64
	dir  int
}

// alignNext aligns one more string against the profile of already aligned
// strings and returns the extended profile plus the final alignment score.
func (a *Aligner) alignNext(results [][]rune, next []rune) ([][]rune, float64) {
	rows := len(results[0])
	cols := len(next)

	trace := make([][]traceCell, rows+1)
	for r := range trace {
		trace[r] = make([]traceCell, cols+1)
	}

	g := a.gapOpen
	for r := 1; r <= rows; r++ {
		trace[r][0] = traceCell{val: g, up: g, left: g, dir: dirUp}
		g += a.gapExtend
	}
	g = a.gapOpen
	for c := 1; c <= cols; c++ {
		trace[0][c] = traceCell{val: g, up: g, left: g, dir: dirLeft}
		g += a.gapExtend
	}

	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			cell := &trace[r][c]
			up := trace[r-1][c]
			left := trace[r][c-1]

			cell.up = math.Max(up.up+a.gapExtend, up.val+a.gapOpen)
			cell.left = math.Max(left.left+a.gapExtend, left.val+a.gapOpen)

			// Score the column by the best weight against any
			// profile member; gaps in the profile do not vote.
			diag := math.Inf(-1)
			for k := range results {
				pc := results[k][r-1]
				if pc == Gap {
					continue
				}
				if w := a.scores.Weight(pc, next[c-1]); w > diag {
					diag = w
				}
			}
			diag += trace[r-1][c-1].val

			cell.val = math.Max(diag, math.Max(cell.up, cell.left))

			// Prefer the diagonal on ties so output is stable.
			switch {
			case cell.val == diag:
				cell.dir = dirDiag
			case cell.val == cell.up:
				cell.dir = dirUp
			default:
				cell.dir = dirLeft
			}
		}
	}

	newResults := make([][]rune, len(results)+1)
	r, c := rows, cols
	for {
		cell := trace[r][c]
		if cell.dir == dirNone {
			break
		}
		switch cell.dir {
		case dirDiag:
			for k := range results {
				newResults[k] = append(newResults[k], results[k][r-1])
			}
			newResults[len(results)] = append(newResults[len(results)], next[c-1])
			r--
			c--
		case dirUp:
			for k := range results {
				newResults[k] = append(newResults[k], results[k][r-1])
			}
			newResults[len(results)] = append(newResults[len(results)], Gap)
			r--
		case dirLeft:
			for k := range results {
				newResults[k] = append(newResults[k], Gap)
			}
			newResults[len(results)] = append(newResults[len(results)], next[c-1])
			c--
		}
	}

	score := trace[rows][cols].val
	for k := range newResults {
		reverse(newResults[k])
	}
	return newResults, score
}

func reverse(r []rune) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
