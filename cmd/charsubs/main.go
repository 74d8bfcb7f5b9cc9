// charsubs builds the glyph substitution matrix used to align variant
// OCR transcriptions.
//
// Every pair of characters in the alphabet is rendered with the same font
// and scored by how much their shapes overlap; the scores are discretized
// into substitution levels and stored as a flat CSV table. Extending an
// existing table only scores the pairs involving new characters.
//
// Usage:
//
//	charsubs -chars "abc..." -output matrix.csv [options]
//
// Required flags:
//
//	-output string    Output CSV path
//
// Options:
//
//	-chars string     Characters to score (default: printable ASCII)
//	-char-set string  Character set name stored with each pair (default "default")
//	-matrix string    Existing matrix table to extend
//	-font string      TTF/OTF font file (default: bundled Go Regular)
//	-canvas int       Square canvas edge in pixels (default 24)
//	-font-size float  Point size used to render glyphs (default 20)
//	-overwrite        Overwrite the output file if it exists
//
// Examples:
//
// Build a matrix for the default alphabet:
//
//	charsubs -output matrix.csv
//
// Extend an existing matrix with accented characters:
//
//	charsubs -matrix matrix.csv -chars "éèêñ" -output matrix.csv -overwrite
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rafelafrance/digi-leap/pkg/charsub"
)

// defaultChars is the printable ASCII range plus space.
func defaultChars() []rune {
	var chars []rune
	for c := rune(' '); c <= '~'; c++ {
		chars = append(chars, c)
	}
	return chars
}

func main() {
	chars := flag.String("chars", "", "Characters to score (default: printable ASCII)")
	charSet := flag.String("char-set", "default", "Character set name stored with each pair")
	matrixPath := flag.String("matrix", "", "Existing matrix table to extend")
	fontPath := flag.String("font", "", "TTF/OTF font file (default: bundled Go Regular)")
	canvas := flag.Int("canvas", 24, "Square canvas edge in pixels")
	fontSize := flag.Float64("font-size", 20, "Point size used to render glyphs")
	output := flag.String("output", "", "Output CSV path")
	overwrite := flag.Bool("overwrite", false, "Overwrite the output file if it exists")
	flag.Parse()

	if *output == "" {
		fmt.Println("Error: Must provide -output path")
		os.Exit(1)
	}
	if _, err := os.Stat(*output); err == nil && !*overwrite && *output != *matrixPath {
		fmt.Printf("Output file %s already exists. Use -overwrite to overwrite.\n", *output)
		os.Exit(1)
	}

	cfg := charsub.DefaultConfig()
	cfg.CharSet = *charSet
	cfg.CanvasSize = *canvas
	cfg.FontSize = *fontSize
	if *fontPath != "" {
		data, err := os.ReadFile(*fontPath)
		if err != nil {
			fmt.Printf("Failed to read font file: %v\n", err)
			os.Exit(1)
		}
		cfg.FontData = data
	}

	var existing *charsub.Matrix
	if *matrixPath != "" {
		f, err := os.Open(*matrixPath)
		if err != nil {
			fmt.Printf("Failed to open existing matrix: %v\n", err)
			os.Exit(1)
		}
		existing, err = charsub.Load(f, *charSet)
		f.Close()
		if err != nil {
			fmt.Printf("Failed to load existing matrix: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Extending matrix with %d pairs for char set %q\n", existing.Len(), *charSet)
	}

	alphabet := []rune(*chars)
	if len(alphabet) == 0 {
		alphabet = defaultChars()
	}

	matrix, err := charsub.Build(alphabet, existing, cfg)
	if err != nil {
		fmt.Printf("Failed to build matrix: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(*output)
	if err != nil {
		fmt.Printf("Failed to create output file: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := charsub.Save(out, matrix); err != nil {
		fmt.Printf("Failed to write matrix: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d pairs for %d characters to %s\n",
		matrix.Len(), len(matrix.Chars()), *output)
}
