// Package render draws reconciled label text into a clean, single page
// PDF. The input is the arranged box list produced by the layout package;
// each box becomes one word drawn at its final position, scaled so the
// text fills the box width.
package render

import (
	"bytes"
	"fmt"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/rafelafrance/digi-leap/pkg/layout"
)

// FontConfig contains font settings for the rendered label text.
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont is Helvetica, which carries the full Latin-1 range.
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}

// Config holds rendering options.
type Config struct {
	Debug  bool    // Outline each word box
	Margin float64 // Page margin around the text envelope, in points
	Font   FontConfig
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Debug:  false,
		Margin: 12,
		Font:   DefaultFont,
	}
}

// Label renders the arranged boxes as a one page PDF. The page is sized
// to the text envelope plus the configured margin. Words that cannot be
// encoded as Latin-1 are drawn from their raw bytes; when more than a
// tenth of the words have encoding trouble the render fails.
func Label(placed []layout.Placed, cfg Config) ([]byte, error) {
	if len(placed) == 0 {
		return nil, fmt.Errorf("no boxes to render")
	}

	maxRight, maxBottom := 0, 0
	for _, p := range placed {
		maxRight = max(maxRight, p.Right)
		maxBottom = max(maxBottom, p.Bottom)
	}
	w := float64(maxRight) + cfg.Margin
	h := float64(maxBottom) + cfg.Margin

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	pdf.SetFont(cfg.Font.Name, cfg.Font.Style, cfg.Font.Size)

	encodingErrors := 0
	for _, p := range placed {
		drawWord(pdf, p, cfg, &encodingErrors)
	}
	if encodingErrors > len(placed)/10 {
		return nil, fmt.Errorf("character encoding issues in %d of %d words",
			encodingErrors, len(placed))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteLabel renders the boxes and writes the PDF to path.
func WriteLabel(path string, placed []layout.Placed, cfg Config) error {
	data, err := Label(placed, cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write label PDF: %w", err)
	}
	return nil
}

// drawWord renders a single word into its box.
func drawWord(pdf *fpdf.Fpdf, p layout.Placed, cfg Config, encodingErrors *int) {
	x := float64(p.Left)
	boxWidth := float64(p.Width())
	boxHeight := float64(p.Height())

	// Convert text to ISO-8859-1 to avoid PDF encoding issues
	latin1, err := charmap.ISO8859_1.NewEncoder().String(p.Text)
	if err != nil {
		*encodingErrors++
		latin1 = p.Text
	}

	strWidth := pdf.GetStringWidth(latin1)
	if strWidth > 0 {
		scale := boxWidth / strWidth
		pdf.SetFontSize(cfg.Font.Size * scale)
	}

	fontSize, _ := pdf.GetFontSize()
	y := float64(p.Top) + fontSize*cfg.Font.AscentRatio

	pdf.Text(x, y, latin1)
	pdf.SetFontSize(cfg.Font.Size)

	if cfg.Debug {
		pdf.Rect(x, float64(p.Top), boxWidth, boxHeight, "D")
	}
}
