package layout

import (
	"testing"

	"github.com/rafelafrance/digi-leap/pkg/reconcile"
)

func sampleBoxes() []reconcile.Box {
	return []reconcile.Box{
		// Row two, listed first to prove ordering is by geometry.
		{Left: 10, Top: 52, Right: 90, Bottom: 70, Text: "PROVIDENCE"},
		{Left: 100, Top: 50, Right: 140, Bottom: 68, Text: "MTS."},
		// Row one, slightly ragged tops.
		{Left: 12, Top: 10, Right: 80, Bottom: 30, Text: "MOJAVE"},
		{Left: 90, Top: 12, Right: 160, Bottom: 32, Text: "DESERT"},
		// Row three.
		{Left: 8, Top: 90, Right: 150, Bottom: 110, Text: "canyon above"},
	}
}

func TestAssignRows(t *testing.T) {
	placed := AssignRows(sampleBoxes())
	if len(placed) != 5 {
		t.Fatalf("got %d boxes, want 5", len(placed))
	}

	wantRows := []int{1, 1, 2, 2, 3}
	wantTexts := []string{"MOJAVE", "DESERT", "PROVIDENCE", "MTS.", "canyon above"}
	for i, p := range placed {
		if p.Row != wantRows[i] {
			t.Errorf("box %d row = %d, want %d", i, p.Row, wantRows[i])
		}
		if p.Text != wantTexts[i] {
			t.Errorf("box %d text = %q, want %q (rows ordered top-down, boxes left-right)",
				i, p.Text, wantTexts[i])
		}
	}
}

func TestStraightenSharedExtents(t *testing.T) {
	placed := Straighten(AssignRows(sampleBoxes()))

	byRow := make(map[int][]Placed)
	for _, p := range placed {
		byRow[p.Row] = append(byRow[p.Row], p)
	}
	for row, members := range byRow {
		for _, m := range members[1:] {
			if m.Top != members[0].Top || m.Bottom != members[0].Bottom {
				t.Errorf("row %d members disagree on extent: %+v vs %+v", row, members[0], m)
			}
		}
	}

	// Row one spans the raggedest member tops and bottoms.
	if byRow[1][0].Top != 10 || byRow[1][0].Bottom != 32 {
		t.Errorf("row 1 extent = [%d, %d], want [10, 32]", byRow[1][0].Top, byRow[1][0].Bottom)
	}
}

func TestStraightenKeepsOriginalGeometry(t *testing.T) {
	placed := Straighten(AssignRows(sampleBoxes()))
	for _, p := range placed {
		if p.Text == "DESERT" && (p.OrigTop != 12 || p.OrigBottom != 32) {
			t.Errorf("original geometry lost: %+v", p)
		}
	}
}

func TestMergeRows(t *testing.T) {
	merged := MergeRows(Straighten(AssignRows(sampleBoxes())))
	if len(merged) != 3 {
		t.Fatalf("got %d rows, want 3", len(merged))
	}
	if merged[0].Text != "MOJAVE DESERT" {
		t.Errorf("row 1 text = %q, want texts joined left to right", merged[0].Text)
	}
	if merged[0].Left != 12 || merged[0].Right != 160 {
		t.Errorf("row 1 envelope = %+v, want the union of members", merged[0])
	}
}

func TestArrangeStacksRows(t *testing.T) {
	placed := Straighten(AssignRows(sampleBoxes()))
	arranged := Arrange(placed, 12)

	// Rows are disjoint vertical bands separated by the gutter.
	var prevBottom, prevRow int
	for _, p := range arranged {
		if p.Row != prevRow {
			if prevRow > 0 && p.Top != prevBottom+12 {
				t.Errorf("row %d top = %d, want %d (previous bottom + gutter)",
					p.Row, p.Top, prevBottom+12)
			}
			prevRow = p.Row
		}
		prevBottom = p.Bottom

		if p.Left < 12 {
			t.Errorf("box %+v starts left of the gutter", p)
		}
	}

	// Widths survive the re-pack.
	for i, p := range arranged {
		if got, want := p.Right-p.Left, placed[i].Right-placed[i].Left; got != want {
			t.Errorf("box %d width = %d, want %d", i, got, want)
		}
	}

	// Same-row boxes still share their extents after arranging.
	byRow := make(map[int][]Placed)
	for _, p := range arranged {
		byRow[p.Row] = append(byRow[p.Row], p)
	}
	for row, members := range byRow {
		for _, m := range members[1:] {
			if m.Top != members[0].Top || m.Bottom != members[0].Bottom {
				t.Errorf("row %d not straight after Arrange: %+v vs %+v", row, members[0], m)
			}
		}
	}
}

func TestArrangePreservesTextOrder(t *testing.T) {
	arranged := Arrange(Straighten(AssignRows(sampleBoxes())), 12)
	var prev *Placed
	for i := range arranged {
		p := &arranged[i]
		if prev != nil && p.Row == prev.Row && p.Left <= prev.Left {
			t.Errorf("words out of order after Arrange: %q then %q", prev.Text, p.Text)
		}
		prev = p
	}
}

func TestAssignRowsEmpty(t *testing.T) {
	if got := AssignRows(nil); got != nil {
		t.Errorf("AssignRows(nil) = %v, want nil", got)
	}
}
