package ocrin

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

func segment(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
			{StartIndex: start, EndIndex: end},
		},
	}
}

func TestRecordsFromDocument(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "MOJAVE DESERT\n",
		Pages: []*documentaipb.Document_Page{{
			Dimension: &documentaipb.Document_Page_Dimension{Width: 800, Height: 600},
			Tokens: []*documentaipb.Document_Page_Token{
				{
					Layout: &documentaipb.Document_Page_Layout{
						TextAnchor: segment(0, 7),
						Confidence: 0.97,
						BoundingPoly: &documentaipb.BoundingPoly{
							Vertices: []*documentaipb.Vertex{
								{X: 10, Y: 10}, {X: 80, Y: 10},
								{X: 80, Y: 30}, {X: 10, Y: 30},
							},
						},
					},
				},
				{
					Layout: &documentaipb.Document_Page_Layout{
						TextAnchor: segment(7, 14),
						Confidence: 0.91,
						BoundingPoly: &documentaipb.BoundingPoly{
							NormalizedVertices: []*documentaipb.NormalizedVertex{
								{X: 0.125, Y: 0.05}, {X: 0.25, Y: 0.05},
								{X: 0.25, Y: 0.1}, {X: 0.125, Y: 0.1},
							},
						},
					},
				},
			},
		}},
	}

	records := RecordsFromDocument(doc, "label-17")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Text != "MOJAVE" {
		t.Errorf("text = %q, want MOJAVE (anchor text trimmed)", first.Text)
	}
	if first.Left != 10 || first.Top != 10 || first.Right != 80 || first.Bottom != 30 {
		t.Errorf("bbox = %d %d %d %d", first.Left, first.Top, first.Right, first.Bottom)
	}
	if first.Pipeline != DocAIPipeline || first.LabelID != "label-17" {
		t.Errorf("provenance = %+v", first)
	}

	second := records[1]
	if second.Text != "DESERT" {
		t.Errorf("text = %q, want DESERT", second.Text)
	}
	// Normalized vertices scale by the page dimension.
	if second.Left != 100 || second.Top != 30 || second.Right != 200 || second.Bottom != 60 {
		t.Errorf("bbox = %d %d %d %d", second.Left, second.Top, second.Right, second.Bottom)
	}
}

func TestRecordsFromDocumentSkipsUnusable(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "  x",
		Pages: []*documentaipb.Document_Page{{
			Tokens: []*documentaipb.Document_Page_Token{
				// Whitespace-only anchor text.
				{
					Layout: &documentaipb.Document_Page_Layout{
						TextAnchor: segment(0, 2),
						BoundingPoly: &documentaipb.BoundingPoly{
							Vertices: []*documentaipb.Vertex{{X: 0, Y: 0}, {X: 5, Y: 5}},
						},
					},
				},
				// No geometry at all.
				{
					Layout: &documentaipb.Document_Page_Layout{
						TextAnchor: segment(2, 3),
					},
				},
			},
		}},
	}
	if records := RecordsFromDocument(doc, "label-1"); len(records) != 0 {
		t.Errorf("records = %+v, want none", records)
	}
}

func TestReadDocumentAI(t *testing.T) {
	data := []byte(`{
		"text": "Providence Mts.\n",
		"pages": [{
			"pageNumber": 1,
			"tokens": [{
				"layout": {
					"textAnchor": {"textSegments": [{"endIndex": "10"}]},
					"confidence": 0.95,
					"boundingPoly": {
						"vertices": [
							{"x": 12, "y": 8}, {"x": 110, "y": 8},
							{"x": 110, "y": 32}, {"x": 12, "y": 32}
						]
					}
				}
			}]
		}]
	}`)

	records, err := ReadDocumentAI(data, "label-9")
	if err != nil {
		t.Fatalf("ReadDocumentAI: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Text != "Providence" || r.Engine != "documentai" {
		t.Errorf("record = %+v", r)
	}
	if r.Conf < 0.94 || r.Conf > 0.96 {
		t.Errorf("conf = %v, want about 0.95", r.Conf)
	}
	if r.Left != 12 || r.Top != 8 || r.Right != 110 || r.Bottom != 32 {
		t.Errorf("bbox = %d %d %d %d", r.Left, r.Top, r.Right, r.Bottom)
	}
}

func TestReadDocumentAIBadJSON(t *testing.T) {
	if _, err := ReadDocumentAI([]byte("{not json"), "label-1"); err == nil {
		t.Fatal("ReadDocumentAI succeeded on malformed JSON")
	}
}
