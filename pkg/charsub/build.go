package charsub

import (
	"fmt"
	"sort"

	"golang.org/x/image/font"
)

// Config holds the settings for building a substitution matrix.
type Config struct {
	CharSet    string  // Character set identifier the matrix is scoped to
	CanvasSize int     // Square canvas edge in pixels
	FontSize   float64 // Point size used to render glyphs
	FontData   []byte  // Raw OTF/TTF data; bundled Go Regular when empty

	// Breakpoints discretize a pair's best overlap score into the Near,
	// Far, and Marginal levels; anything below the last breakpoint is
	// Unrelated. These are empirically chosen tunables, not derived
	// constants, so they are part of the configuration.
	Breakpoints [3]float64

	// SparseInk is the ink count below which a glyph is cheap to
	// substitute with a space.
	SparseInk int
}

// DefaultConfig returns the build settings used for the default character set.
func DefaultConfig() Config {
	return Config{
		CharSet:     "default",
		CanvasSize:  24,
		FontSize:    20,
		Breakpoints: [3]float64{0.7, 0.5, 0.4},
		SparseInk:   20,
	}
}

// Build computes the substitution matrix for the union of the given
// characters and the characters already present in existing. The update is
// incremental: a pair whose members are both already known carries its entry
// over unchanged, so extending an alphabet only scores the new pairs.
// Passing a nil existing matrix builds from scratch.
func Build(chars []rune, existing *Matrix, cfg Config) (*Matrix, error) {
	face, err := buildFace(cfg)
	if err != nil {
		return nil, err
	}

	oldChars := make(map[rune]bool)
	if existing != nil {
		for _, c := range existing.Chars() {
			oldChars[c] = true
		}
	}
	newChars := make(map[rune]bool)
	for _, c := range chars {
		if !oldChars[c] {
			newChars[c] = true
		}
	}

	all := make([]rune, 0, len(oldChars)+len(newChars))
	for c := range oldChars {
		all = append(all, c)
	}
	for c := range newChars {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	glyphs := make(map[rune]*Glyph, len(all))
	for _, c := range all {
		g, err := Render(c, cfg.CanvasSize, face)
		if err != nil {
			return nil, fmt.Errorf("failed to render %q: %w", c, err)
		}
		glyphs[c] = g
	}

	out := NewMatrix(cfg.CharSet)
	for i, c1 := range all {
		for _, c2 := range all[i:] {
			switch {
			case !newChars[c1] && !newChars[c2]:
				// Both characters were already scored.
				if e, ok := existing.Entry(c1, c2); ok {
					out.set(c1, c2, e)
					continue
				}
				out.set(c1, c2, scorePair(glyphs[c1], glyphs[c2], cfg))
			default:
				out.set(c1, c2, scorePair(glyphs[c1], glyphs[c2], cfg))
			}
		}
	}
	return out, nil
}

func buildFace(cfg Config) (font.Face, error) {
	if len(cfg.FontData) > 0 {
		return ParseFace(cfg.FontData, cfg.FontSize)
	}
	return DefaultFace(cfg.FontSize)
}

// scorePair produces the entry for a single glyph pair.
func scorePair(g1, g2 *Glyph, cfg Config) Entry {
	if g1.Char == g2.Char {
		return Entry{Sub: Same}
	}

	if g1.Char == ' ' || g2.Char == ' ' {
		other := g1
		if g1.Char == ' ' {
			other = g2
		}
		ink := other.Ink()
		sub := Unrelated
		if ink < cfg.SparseInk {
			sub = Marginal
		}
		return Entry{Score: float64(ink), HasScore: true, Sub: sub}
	}

	score := maxIoU(g1, g2)
	return Entry{Score: score, HasScore: true, Sub: levelFor(score, cfg.Breakpoints)}
}

func levelFor(score float64, breaks [3]float64) float64 {
	switch {
	case score >= breaks[0]:
		return Near
	case score >= breaks[1]:
		return Far
	case score >= breaks[2]:
		return Marginal
	default:
		return Unrelated
	}
}
