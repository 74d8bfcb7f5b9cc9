package charsub

import "testing"

// maskGlyph builds a glyph straight from a pixel mask, bypassing font
// rendering, so overlap scoring can be tested against hand-counted values.
func maskGlyph(char rune, size int, on [][2]int) *Glyph {
	g := &Glyph{Char: char, Size: size, pix: make([]bool, size*size)}
	for _, p := range on {
		g.pix[p[1]*size+p[0]] = true
	}
	return g
}

func TestRollWrapsAround(t *testing.T) {
	g := maskGlyph('x', 4, [][2]int{{3, 3}})
	rolled := roll(g.pix, 4, 1, 1)
	if !rolled[0] {
		t.Error("pixel at (3,3) should wrap to (0,0)")
	}
	if rolled[3*4+3] {
		t.Error("source pixel should have moved")
	}
}

func TestMaxIoUIdenticalShapes(t *testing.T) {
	a := maskGlyph('a', 6, [][2]int{{1, 1}, {2, 1}, {1, 2}})
	b := maskGlyph('b', 6, [][2]int{{3, 4}, {4, 4}, {3, 5}})
	// Same shape at a different position: some shift lines them up exactly.
	if got := maxIoU(a, b); got != 1.0 {
		t.Errorf("maxIoU = %v, want 1.0", got)
	}
}

func TestMaxIoUDisjointSizes(t *testing.T) {
	a := maskGlyph('a', 6, [][2]int{{0, 0}})
	b := maskGlyph('b', 6, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}})
	// One pixel against four: best case is 1 overlapping of 4 united.
	if got := maxIoU(a, b); got != 0.25 {
		t.Errorf("maxIoU = %v, want 0.25", got)
	}
}

func TestRenderCentersInk(t *testing.T) {
	face, err := DefaultFace(20)
	if err != nil {
		t.Fatalf("DefaultFace: %v", err)
	}
	g, err := Render('I', 24, face)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if g.Ink() == 0 {
		t.Fatal("rendered glyph has no ink")
	}

	minX, maxX := g.Size, -1
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.At(x, y) {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
			}
		}
	}
	left := minX
	right := g.Size - 1 - maxX
	if diff := left - right; diff < -1 || diff > 1 {
		t.Errorf("ink is not horizontally centered: %d px left, %d px right", left, right)
	}
}

func TestRenderBlankSpace(t *testing.T) {
	face, err := DefaultFace(20)
	if err != nil {
		t.Fatalf("DefaultFace: %v", err)
	}
	g, err := Render(' ', 24, face)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if g.Ink() != 0 {
		t.Errorf("space glyph has %d ink pixels, want 0", g.Ink())
	}
}
