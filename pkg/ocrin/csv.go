package ocrin

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadResults reads an OCR result table. Rows whose text is blank after
// trimming are dropped; every surviving record is tagged with the given
// source. The expected columns are engine, pipeline, label_id, text, conf,
// left, top, right, bottom; extra columns are ignored.
func ReadResults(r io.Reader, source string) ([]Record, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR results: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("OCR result table is empty")
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"text", "left", "top", "right", "bottom"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("OCR result table has no %q column", name)
		}
	}

	field := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	var records []Record
	for n, row := range rows[1:] {
		text := strings.TrimSpace(field(row, "text"))
		if text == "" {
			continue
		}

		rec := Record{
			Engine:   field(row, "engine"),
			Pipeline: field(row, "pipeline"),
			LabelID:  field(row, "label_id"),
			Text:     text,
			Source:   source,
		}
		if c := field(row, "conf"); c != "" {
			conf, err := strconv.ParseFloat(c, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d has a bad confidence: %w", n+2, err)
			}
			rec.Conf = conf
		}
		for _, coord := range []struct {
			name string
			dst  *int
		}{
			{"left", &rec.Left},
			{"top", &rec.Top},
			{"right", &rec.Right},
			{"bottom", &rec.Bottom},
		} {
			v, err := strconv.Atoi(strings.TrimSpace(field(row, coord.name)))
			if err != nil {
				return nil, fmt.Errorf("row %d has a bad %s: %w", n+2, coord.name, err)
			}
			*coord.dst = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadResultsFile reads one OCR result file, using the parent directory
// name as the source tag. Result directories hold identically named files
// for the same labels, one directory per pipeline, so the directory is the
// provenance.
func ReadResultsFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OCR results: %w", err)
	}
	defer f.Close()
	return ReadResults(f, filepath.Base(filepath.Dir(path)))
}
