package ocrin

import (
	"fmt"
	"math"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/protobuf/encoding/protojson"
)

// DocAIPipeline is the pipeline tag recorded for Document AI input.
const DocAIPipeline = "[,documentai]"

// ReadDocumentAI converts a stored Document AI response (the Document
// proto serialized as JSON) into one record per recognized token. The
// adapter consumes responses fetched elsewhere; it never calls the API.
func ReadDocumentAI(data []byte, labelID string) ([]Record, error) {
	var doc documentaipb.Document
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := opts.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode Document AI response: %w", err)
	}
	return RecordsFromDocument(&doc, labelID), nil
}

// RecordsFromDocument extracts token records from a decoded Document AI
// document. Tokens without usable geometry are skipped.
func RecordsFromDocument(doc *documentaipb.Document, labelID string) []Record {
	var records []Record
	text := []rune(doc.GetText())

	for _, page := range doc.GetPages() {
		for _, token := range page.GetTokens() {
			layout := token.GetLayout()
			word := strings.TrimSpace(anchorText(layout.GetTextAnchor(), text))
			if word == "" {
				continue
			}

			left, top, right, bottom, ok := polyBounds(layout.GetBoundingPoly(), page.GetDimension())
			if !ok {
				continue
			}

			records = append(records, Record{
				Engine:   "documentai",
				Pipeline: DocAIPipeline,
				LabelID:  labelID,
				Text:     word,
				Conf:     float64(layout.GetConfidence()),
				Left:     left,
				Top:      top,
				Right:    right,
				Bottom:   bottom,
				Source:   "documentai",
			})
		}
	}
	return records
}

// anchorText resolves a text anchor's segments against the document text.
func anchorText(anchor *documentaipb.Document_TextAnchor, text []rune) string {
	if anchor == nil {
		return ""
	}
	var b strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start := int(seg.GetStartIndex())
		end := int(seg.GetEndIndex())
		if start < 0 {
			start = 0
		}
		if end > len(text) {
			end = len(text)
		}
		if start > end {
			start = end
		}
		b.WriteString(string(text[start:end]))
	}
	return b.String()
}

// polyBounds reduces a bounding polygon to an axis-aligned box. Absolute
// vertices win; normalized vertices are scaled by the page dimension.
func polyBounds(
	poly *documentaipb.BoundingPoly,
	dim *documentaipb.Document_Page_Dimension,
) (left, top, right, bottom int, ok bool) {
	if poly == nil {
		return 0, 0, 0, 0, false
	}

	if verts := poly.GetVertices(); len(verts) > 0 {
		minX, minY := math.MaxInt32, math.MaxInt32
		maxX, maxY := math.MinInt32, math.MinInt32
		for _, v := range verts {
			minX = min(minX, int(v.GetX()))
			minY = min(minY, int(v.GetY()))
			maxX = max(maxX, int(v.GetX()))
			maxY = max(maxY, int(v.GetY()))
		}
		return minX, minY, maxX, maxY, true
	}

	norm := poly.GetNormalizedVertices()
	if len(norm) == 0 || dim == nil {
		return 0, 0, 0, 0, false
	}
	w := float64(dim.GetWidth())
	h := float64(dim.GetHeight())
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range norm {
		x := float64(v.GetX()) * w
		y := float64(v.GetY()) * h
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return int(math.Round(minX)), int(math.Round(minY)),
		int(math.Round(maxX)), int(math.Round(maxY)), true
}
