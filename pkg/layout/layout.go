// Package layout rebuilds clean label geometry from merged OCR boxes.
//
// Merged boxes carry the coordinates of the original, often skewed and
// unevenly spaced, label photograph. This package groups the boxes into
// rows of text, straightens each row so its members share one vertical
// band, and re-packs rows and words into compact coordinates with fixed
// gutters. The output is suitable for rendering a readable reconstruction
// of the label; text content is never reordered, only geometry changes.
// The original geometry of every box is kept alongside the new one for
// reference.
package layout

import (
	"sort"

	"github.com/rafelafrance/digi-leap/pkg/reconcile"
)

// DefaultGutter is the pixel gap used between rows and at the left margin
// when none is configured.
const DefaultGutter = 12

// Placed is a box with a row assignment and, after Arrange, new compacted
// coordinates. The Orig fields preserve the geometry the box arrived with.
type Placed struct {
	reconcile.Box
	Row int

	OrigLeft, OrigTop, OrigRight, OrigBottom int
}

// rowOverlap reports whether two boxes share enough vertical extent to sit
// on the same text row: the overlap must cover more than half of the
// shorter box's height.
func rowOverlap(a, b reconcile.Box) bool {
	overlap := min(a.Bottom, b.Bottom) - max(a.Top, b.Top)
	if overlap <= 0 {
		return false
	}
	return 2*overlap > min(a.Height(), b.Height())
}

// AssignRows groups boxes into rows of text by vertical overlap and
// numbers the rows top to bottom. Boxes within a row are ordered left to
// right.
func AssignRows(boxes []reconcile.Box) []Placed {
	if len(boxes) == 0 {
		return nil
	}

	parent := make([]int, len(boxes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	for i := 0; i < len(boxes)-1; i++ {
		for j := i + 1; j < len(boxes); j++ {
			if rowOverlap(boxes[i], boxes[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	// Order the row groups by their topmost member.
	rowTop := make(map[int]int)
	for i, b := range boxes {
		root := find(i)
		if top, ok := rowTop[root]; !ok || b.Top < top {
			rowTop[root] = b.Top
		}
	}
	roots := make([]int, 0, len(rowTop))
	for root := range rowTop {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return rowTop[roots[i]] < rowTop[roots[j]] })
	rowOf := make(map[int]int, len(roots))
	for i, root := range roots {
		rowOf[root] = i + 1
	}

	placed := make([]Placed, 0, len(boxes))
	for i, b := range boxes {
		placed = append(placed, Placed{
			Box: b,
			Row: rowOf[find(i)],

			OrigLeft:   b.Left,
			OrigTop:    b.Top,
			OrigRight:  b.Right,
			OrigBottom: b.Bottom,
		})
	}
	sort.SliceStable(placed, func(i, j int) bool {
		if placed[i].Row != placed[j].Row {
			return placed[i].Row < placed[j].Row
		}
		return placed[i].Left < placed[j].Left
	})
	return placed
}

// Straighten gives every box in a row the row's full vertical extent, so a
// row renders as one even band of text.
func Straighten(placed []Placed) []Placed {
	out := make([]Placed, len(placed))
	copy(out, placed)

	tops := make(map[int]int)
	bottoms := make(map[int]int)
	for _, p := range out {
		if top, ok := tops[p.Row]; !ok || p.Top < top {
			tops[p.Row] = p.Top
		}
		if bottom, ok := bottoms[p.Row]; !ok || p.Bottom > bottom {
			bottoms[p.Row] = p.Bottom
		}
	}
	for i := range out {
		out[i].Top = tops[out[i].Row]
		out[i].Bottom = bottoms[out[i].Row]
	}
	return out
}

// MergeRows collapses each row into a single box, joining the texts left
// to right.
func MergeRows(placed []Placed) []Placed {
	var out []Placed
	for _, p := range placed {
		if n := len(out); n > 0 && out[n-1].Row == p.Row {
			last := &out[n-1]
			last.Left = min(last.Left, p.Left)
			last.Top = min(last.Top, p.Top)
			last.Right = max(last.Right, p.Right)
			last.Bottom = max(last.Bottom, p.Bottom)
			last.OrigLeft = min(last.OrigLeft, p.OrigLeft)
			last.OrigTop = min(last.OrigTop, p.OrigTop)
			last.OrigRight = max(last.OrigRight, p.OrigRight)
			last.OrigBottom = max(last.OrigBottom, p.OrigBottom)
			if p.Text != "" {
				if last.Text != "" {
					last.Text += " "
				}
				last.Text += p.Text
			}
			continue
		}
		out = append(out, p)
	}
	return out
}

// Arrange re-packs straightened rows into compact coordinates: rows stack
// below each other separated by the gutter, and the words of a row line up
// left to right separated by an approximate single character width. Text
// content and order are untouched.
func Arrange(placed []Placed, gutter int) []Placed {
	if gutter <= 0 {
		gutter = DefaultGutter
	}
	out := make([]Placed, len(placed))
	copy(out, placed)

	prevBottom := gutter
	for start := 0; start < len(out); {
		end := start
		for end < len(out) && out[end].Row == out[start].Row {
			end++
		}
		row := out[start:end]

		top, bottom := row[0].Top, row[0].Bottom
		for _, p := range row[1:] {
			top = min(top, p.Top)
			bottom = max(bottom, p.Bottom)
		}
		height := bottom - top

		prevRight := gutter
		margin := 0
		for i := range row {
			width := row[i].Right - row[i].Left
			if i == 0 {
				if n := len(row[i].Text); n > 0 {
					margin = width / n // ~= one character width
				}
				row[i].Left = gutter
			} else {
				row[i].Left = prevRight + margin
			}

			row[i].Top = prevBottom + gutter
			row[i].Bottom = prevBottom + height + gutter
			row[i].Right = row[i].Left + width
			prevRight = row[i].Right
		}
		prevBottom += height + gutter

		start = end
	}
	return out
}
