package ocrin

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// ReadHOCR extracts one word record per ocrx_word element from an hOCR
// document. Word confidence comes from the x_wconf title property (an
// 0-100 percentage, scaled to 0..1); words without a bounding box are
// skipped. Every record is tagged with the given source.
func ReadHOCR(data []byte, source string) ([]Record, error) {
	decoded, err := decodeCharset(data)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	var records []Record
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			if rec, ok := wordRecord(n, source); ok {
				records = append(records, rec)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(records) == 0 {
		return nil, fmt.Errorf("no ocrx_word elements found in hOCR data")
	}
	return records, nil
}

// decodeCharset sniffs the meta charset declaration and converts legacy
// Latin-1 documents to UTF-8.
func decodeCharset(data []byte) ([]byte, error) {
	content := strings.ToLower(string(data))
	idx := strings.Index(content, "charset=")
	if idx < 0 {
		return data, nil
	}
	enc := content[idx+len("charset="):]
	enc = strings.FieldsFunc(enc, func(r rune) bool {
		return r == '"' || r == '\'' || r == ';' || r == '>' || r == ' '
	})[0]
	if enc == "" || enc == "utf-8" {
		return data, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s hOCR: %w", enc, err)
	}
	return decoded, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, class) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// parseTitle breaks an hOCR title attribute into its properties, e.g.
// "bbox 100 200 300 400; x_wconf 95".
func parseTitle(title string) map[string][]string {
	props := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(strings.TrimSpace(part))
		if len(items) > 0 {
			props[items[0]] = items[1:]
		}
	}
	return props
}

// wordRecord converts one ocrx_word element into a Record.
func wordRecord(n *html.Node, source string) (Record, bool) {
	text := strings.TrimSpace(nodeText(n))
	if text == "" {
		return Record{}, false
	}

	props := parseTitle(attr(n, "title"))
	bbox, ok := props["bbox"]
	if !ok || len(bbox) < 4 {
		return Record{}, false
	}

	rec := Record{Text: text, Source: source}
	coords := []*int{&rec.Left, &rec.Top, &rec.Right, &rec.Bottom}
	for i, dst := range coords {
		v, err := strconv.Atoi(bbox[i])
		if err != nil {
			return Record{}, false
		}
		*dst = v
	}

	if wconf, ok := props["x_wconf"]; ok && len(wconf) > 0 {
		if conf, err := strconv.ParseFloat(wconf[0], 64); err == nil {
			rec.Conf = conf / 100.0
		}
	}
	return rec, true
}

// nodeText concatenates the text nodes under an element.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
