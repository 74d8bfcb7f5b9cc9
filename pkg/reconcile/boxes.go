package reconcile

import "sort"

// Box is an axis-aligned rectangle on a sheet or label image, tagged with
// the source that produced it and, optionally, the text read inside it.
type Box struct {
	Left   int    // Left coordinate
	Top    int    // Top coordinate
	Right  int    // Right coordinate
	Bottom int    // Bottom coordinate
	Source string // Detector, annotator, or OCR pipeline tag
	Text   string // Text payload, may be empty
	Class  string // Optional class label
}

// Width of the box; non-positive means degenerate geometry.
func (b Box) Width() int { return b.Right - b.Left }

// Height of the box; non-positive means degenerate geometry.
func (b Box) Height() int { return b.Bottom - b.Top }

// Area of the box.
func (b Box) Area() int { return b.Width() * b.Height() }

// Degenerate reports whether the box has no usable extent.
func (b Box) Degenerate() bool { return b.Width() <= 0 || b.Height() <= 0 }

// Contains reports whether the point (x, y) lies inside the box, borders
// included.
func (b Box) Contains(x, y int) bool {
	return b.Left <= x && x <= b.Right && b.Top <= y && y <= b.Bottom
}

// intersection returns the overlap area of two boxes, zero when disjoint.
func intersection(a, b Box) int {
	w := min(a.Right, b.Right) - max(a.Left, b.Left)
	h := min(a.Bottom, b.Bottom) - max(a.Top, b.Top)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// OverlapRatio is the intersection area over the smaller box's area, so a
// small box mostly covered by a large one counts as overlapping even when
// the symmetric IoU would be tiny.
func OverlapRatio(a, b Box) float64 {
	inter := intersection(a, b)
	if inter == 0 {
		return 0
	}
	smaller := min(a.Area(), b.Area())
	return float64(inter) / float64(smaller)
}

// IoU is the symmetric intersection-over-union of two boxes, used when
// near-duplicates are the only thing that should merge.
func IoU(a, b Box) float64 {
	inter := intersection(a, b)
	if inter == 0 {
		return 0
	}
	return float64(inter) / float64(a.Area()+b.Area()-inter)
}

// Relation scores how strongly two boxes overlap, in 0..1. OverlapRatio
// and IoU both satisfy it.
type Relation func(a, b Box) float64

// MergeBoxes clusters boxes whose pairwise overlap ratio reaches the
// threshold and merges every cluster into one box. Within a cluster the
// members of each source are joined left to right into one text, and the
// per-source texts are then reconciled into a single consensus text.
// Singleton clusters pass through unchanged. Boxes with degenerate
// geometry never merge; they are returned separately for reporting.
//
// The overlap relation is OverlapRatio, which lets a small fragment merge
// into the larger line that covers it. Use MergeBoxesBy with IoU and a
// threshold near 1 to collapse only near-duplicates, as when de-duplicating
// annotations.
func MergeBoxes(boxes []Box, threshold float64, cons *Consensus) (merged, degenerate []Box) {
	return MergeBoxesBy(boxes, OverlapRatio, threshold, cons)
}

// MergeBoxesBy is MergeBoxes with a caller-chosen overlap relation.
func MergeBoxesBy(boxes []Box, rel Relation, threshold float64, cons *Consensus) (merged, degenerate []Box) {
	valid := make([]Box, 0, len(boxes))
	for _, b := range boxes {
		if b.Degenerate() {
			degenerate = append(degenerate, b)
			continue
		}
		valid = append(valid, b)
	}
	if len(valid) == 0 {
		return nil, degenerate
	}

	uf := newUnionFind(len(valid))
	for i := 0; i < len(valid)-1; i++ {
		for j := i + 1; j < len(valid); j++ {
			if rel(valid[i], valid[j]) >= threshold {
				uf.union(i, j)
			}
		}
	}

	groups := uf.groups()
	merged = make([]Box, 0, len(groups))
	for _, group := range groups {
		if len(group) == 1 {
			merged = append(merged, valid[group[0]])
			continue
		}
		merged = append(merged, mergeGroup(valid, group, cons))
	}
	return merged, degenerate
}

// mergeGroup folds one overlap cluster into a single box.
func mergeGroup(boxes []Box, group []int, cons *Consensus) Box {
	out := boxes[group[0]]

	bySource := make(map[string][]Box)
	var sources []string
	for _, idx := range group {
		b := boxes[idx]
		if _, ok := bySource[b.Source]; !ok {
			sources = append(sources, b.Source)
		}
		bySource[b.Source] = append(bySource[b.Source], b)

		out.Left = min(out.Left, b.Left)
		out.Top = min(out.Top, b.Top)
		out.Right = max(out.Right, b.Right)
		out.Bottom = max(out.Bottom, b.Bottom)
	}

	// One joined text per source: redundant fragments from the same
	// source are a reading order, not independent confirmations.
	texts := make([]string, 0, len(sources))
	for _, src := range sources {
		members := bySource[src]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Left < members[j].Left
		})
		parts := make([]string, 0, len(members))
		for _, m := range members {
			if m.Text != "" {
				parts = append(parts, m.Text)
			}
		}
		texts = append(texts, joinWords(parts))
	}

	detail := cons.ReconcileDetail(texts)
	detail.Sources = sources
	out.Text = detail.Text
	return out
}

func joinWords(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
