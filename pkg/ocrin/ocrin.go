// Package ocrin reads OCR candidate records from the formats the
// reconciliation pipeline consumes.
//
// Every supported input produces the same flat Record: one transcribed
// fragment with its bounding box, confidence, and provenance. Readers
// exist for the ensemble's own CSV result files, for hOCR HTML produced by
// engines like Tesseract, and for stored Google Document AI responses.
// The package only adapts records; it never invokes an OCR engine.
package ocrin

import (
	"fmt"
	"strings"
)

// Record is one pipeline's transcription of one fragment of a label.
type Record struct {
	Engine   string  // OCR engine identifier
	Pipeline string  // Bracketed pipeline tag, e.g. "[deskew,tesseract]"
	LabelID  string  // Identifier of the physical label
	Text     string  // Transcribed text
	Conf     float64 // Engine confidence in 0..1, 0 when unknown
	Left     int
	Top      int
	Right    int
	Bottom   int
	Source   string // Provenance tag used when merging boxes
}

// Pipeline identifies one processing chain: zero or more image filters
// followed by an OCR engine.
type Pipeline struct {
	Filters []string
	Engine  string
}

// ParsePipeline parses the bracketed-list convention: "[deskew,tesseract]"
// is the deskew filter followed by Tesseract, "[,easyocr]" is EasyOCR with
// no filter.
func ParsePipeline(tag string) (Pipeline, error) {
	trimmed := strings.TrimSpace(tag)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return Pipeline{}, fmt.Errorf("pipeline tag %q is not bracketed", tag)
	}
	parts := strings.Split(trimmed[1:len(trimmed)-1], ",")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Pipeline{}, fmt.Errorf("pipeline tag %q names no engine", tag)
	}

	p := Pipeline{Engine: parts[len(parts)-1]}
	for _, f := range parts[:len(parts)-1] {
		if f != "" {
			p.Filters = append(p.Filters, f)
		}
	}
	return p, nil
}

// String renders the tag in the bracketed-list convention; it round-trips
// through ParsePipeline.
func (p Pipeline) String() string {
	return "[" + strings.Join(p.Filters, ",") + "," + p.Engine + "]"
}
