package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Box classes toggled by crowd votes.
const (
	PrimaryClass   = "Typewritten"
	SecondaryClass = "Other"
)

// Point is one annotator mark on a sheet image.
type Point struct {
	X, Y int
}

// Marks holds every annotator's markup for one sheet: votes on existing
// boxes and outlines for boxes the detector missed.
type Marks struct {
	Correct   []Point
	Incorrect []Point
	Missing   []Box
}

// The column-name suffixes that identify point types in the crowd export.
// A column like "Point 3 Correct: x" carries the x coordinate of point 3.
const (
	missingTag   = " missing:"
	correctTag   = " Correct:"
	incorrectTag = " Incorrect:"
)

// ReadMarks parses a crowd-annotation export, one row per annotator per
// sheet, keyed by the Filename column. Coordinates are multiplied by scale
// (annotations are made on downsized images). Points with unparseable or
// incomplete coordinates are skipped, never fatal.
func ReadMarks(r io.Reader, scale float64) (map[string]*Marks, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read crowd annotations: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("crowd annotation table is empty")
	}

	header := rows[0]
	fileCol := -1
	for i, name := range header {
		if name == "Filename" {
			fileCol = i
			break
		}
	}
	if fileCol < 0 {
		return nil, fmt.Errorf("crowd annotation table has no Filename column")
	}

	marks := make(map[string]*Marks)
	for _, row := range rows[1:] {
		if fileCol >= len(row) || row[fileCol] == "" {
			continue
		}
		m := marks[row[fileCol]]
		if m == nil {
			m = &Marks{}
			marks[row[fileCol]] = m
		}

		m.Correct = append(m.Correct, rowPoints(header, row, correctTag, scale)...)
		m.Incorrect = append(m.Incorrect, rowPoints(header, row, incorrectTag, scale)...)
		m.Missing = append(m.Missing, rowBoxes(header, row, missingTag, scale)...)
	}
	return marks, nil
}

// rowCoords gathers the coordinate sub-columns of one point type, grouped
// by point identifier.
func rowCoords(header, row []string, tag string, scale float64) map[string]map[string]int {
	points := make(map[string]map[string]int)
	for i, name := range header {
		if i >= len(row) || row[i] == "" || !strings.Contains(name, tag) {
			continue
		}
		id, coord, ok := strings.Cut(name, ":")
		if !ok {
			continue
		}
		val, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			continue // unparseable coordinate, skip the value
		}
		if points[id] == nil {
			points[id] = make(map[string]int)
		}
		points[id][strings.TrimSpace(coord)] = int(math.Round(val * scale))
	}
	return points
}

func rowPoints(header, row []string, tag string, scale float64) []Point {
	var out []Point
	for _, coords := range rowCoords(header, row, tag, scale) {
		x, okX := coords["x"]
		y, okY := coords["y"]
		if !okX || !okY {
			continue
		}
		out = append(out, Point{X: x, Y: y})
	}
	return out
}

func rowBoxes(header, row []string, tag string, scale float64) []Box {
	var out []Box
	for _, coords := range rowCoords(header, row, tag, scale) {
		left, okL := coords["left"]
		top, okT := coords["top"]
		right, okR := coords["right"]
		bottom, okB := coords["bottom"]
		if !okL || !okT || !okR || !okB {
			continue
		}
		out = append(out, Box{Left: left, Top: top, Right: right, Bottom: bottom})
	}
	return out
}

// Sheet is one physical specimen sheet: its image size and the label boxes
// currently known for it.
type Sheet struct {
	Path          string
	Width, Height int
	Boxes         []Box
}

// Reconcile applies one sheet's crowd marks to its boxes. Each Correct
// point inside a box adds a vote, each Incorrect point subtracts one, and
// the net sign toggles the box class: positive keeps or promotes the box to
// the primary class, zero or negative demotes it. Missing marks that
// cluster (two or more overlapping) become new candidate boxes spanning the
// cluster; an isolated missing mark is annotator noise and is dropped.
func (s *Sheet) Reconcile(m *Marks) []Box {
	votes := make([]int, len(s.Boxes))
	for _, p := range m.Correct {
		if i := s.findBox(p); i >= 0 {
			votes[i]++
		}
	}
	for _, p := range m.Incorrect {
		if i := s.findBox(p); i >= 0 {
			votes[i]--
		}
	}

	out := make([]Box, 0, len(s.Boxes))
	for i, b := range s.Boxes {
		if votes[i] > 0 {
			b.Class = PrimaryClass
		} else {
			b.Class = SecondaryClass
		}
		out = append(out, s.clamp(b))
	}

	for _, b := range s.missingClusters(m.Missing) {
		out = append(out, s.clamp(b))
	}
	return out
}

// findBox returns the index of the first box containing the point, or -1.
func (s *Sheet) findBox(p Point) int {
	for i, b := range s.Boxes {
		if b.Contains(p.X, p.Y) {
			return i
		}
	}
	return -1
}

// missingClusters merges overlapping missing marks into new candidate
// boxes.
func (s *Sheet) missingClusters(missing []Box) []Box {
	if len(missing) < 2 {
		return nil
	}

	uf := newUnionFind(len(missing))
	for i := 0; i < len(missing)-1; i++ {
		for j := i + 1; j < len(missing); j++ {
			if intersection(missing[i], missing[j]) > 0 {
				uf.union(i, j)
			}
		}
	}

	var out []Box
	for _, group := range uf.groups() {
		if len(group) < 2 {
			continue // a single annotator's mark is not enough
		}
		b := missing[group[0]]
		b.Class = PrimaryClass
		b.Source = "crowd"
		for _, idx := range group[1:] {
			b.Left = min(b.Left, missing[idx].Left)
			b.Top = min(b.Top, missing[idx].Top)
			b.Right = max(b.Right, missing[idx].Right)
			b.Bottom = max(b.Bottom, missing[idx].Bottom)
		}
		out = append(out, b)
	}
	return out
}

// clamp keeps a box inside the sheet image.
func (s *Sheet) clamp(b Box) Box {
	b.Left = max(0, b.Left)
	b.Top = max(0, b.Top)
	b.Right = min(s.Width-1, b.Right)
	b.Bottom = min(s.Height-1, b.Bottom)
	return b
}
