package charsub

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrCanvasTooSmall reports a glyph whose rendered ink does not fit the
// configured canvas. This is a configuration error: clipping the glyph
// would silently corrupt every score computed against it.
type ErrCanvasTooSmall struct {
	Char rune
	W, H int
	Size int
}

func (e *ErrCanvasTooSmall) Error() string {
	return fmt.Sprintf("glyph %q is %dx%d px but the canvas is only %dx%d",
		e.Char, e.W, e.H, e.Size, e.Size)
}

// Glyph is one character rendered onto a square boolean pixel mask.
type Glyph struct {
	Char rune
	Size int
	pix  []bool
}

// DefaultFace returns a font face for the bundled Go Regular font at the
// given point size. It is the face used when a Config names no font file.
func DefaultFace(points float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundled font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// ParseFace builds a font face from raw OTF/TTF data.
func ParseFace(data []byte, points float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// Render draws one character onto a size x size canvas and thresholds the
// coverage into a boolean mask. The glyph is then centered on the canvas so
// shifted-overlap scores start from a common reference position.
func Render(c rune, size int, face font.Face) (*Glyph, error) {
	bounds, _, ok := face.GlyphBounds(c)
	if ok {
		w := (bounds.Max.X - bounds.Min.X).Ceil()
		h := (bounds.Max.Y - bounds.Min.Y).Ceil()
		if w > size || h > size {
			return nil, &ErrCanvasTooSmall{Char: c, W: w, H: h, Size: size}
		}
	}

	img := image.NewAlpha(image.Rect(0, 0, size, size))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: face.Metrics().Ascent},
	}
	d.DrawString(string(c))

	g := &Glyph{Char: c, Size: size, pix: make([]bool, size*size)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if img.AlphaAt(x, y).A > 128 {
				g.pix[y*size+x] = true
			}
		}
	}
	g.center()
	return g, nil
}

// Ink counts the foreground pixels of the glyph.
func (g *Glyph) Ink() int {
	n := 0
	for _, p := range g.pix {
		if p {
			n++
		}
	}
	return n
}

// At reports the pixel at (x, y).
func (g *Glyph) At(x, y int) bool { return g.pix[y*g.Size+x] }

// center rolls the ink to the middle of the canvas.
func (g *Glyph) center() {
	minX, minY := g.Size, g.Size
	maxX, maxY := -1, -1
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.At(x, y) {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < 0 {
		return // blank glyph, nothing to center
	}
	w := maxX - minX + 1
	h := maxY - minY + 1
	dx := (g.Size-w)/2 - minX
	dy := (g.Size-h)/2 - minY
	g.pix = roll(g.pix, g.Size, dy, dx)
}

// roll shifts a mask by (dy, dx) with wrap-around, like rotating each row
// and column of the canvas.
func roll(pix []bool, size, dy, dx int) []bool {
	out := make([]bool, len(pix))
	dy = ((dy % size) + size) % size
	dx = ((dx % size) + size) % size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if pix[y*size+x] {
				ny := (y + dy) % size
				nx := (x + dx) % size
				out[ny*size+nx] = true
			}
		}
	}
	return out
}

// maxIoU finds the best intersection-over-union between two glyphs across
// every wrap-around pixel shift of the second glyph.
func maxIoU(a, b *Glyph) float64 {
	best := 0.0
	size := a.Size
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			rolled := roll(b.pix, size, dy, dx)
			inter, union := 0, 0
			for i, p := range a.pix {
				switch {
				case p && rolled[i]:
					inter++
					union++
				case p || rolled[i]:
					union++
				}
			}
			if union > 0 {
				if iou := float64(inter) / float64(union); iou > best {
					best = iou
				}
			}
		}
	}
	return best
}
