// labelbuild reconciles OCR output from several engine pipelines into
// clean, readable labels.
//
// The input files hold OCR records for one or more labels: CSV result
// tables (grouped by their label_id column) or hOCR files (one label per
// file, named after the file). Records for the same label are merged
// across pipelines into consensus text boxes, the text rows are rebuilt
// with straight, evenly spaced geometry, and each label is written as a
// text file and, optionally, a rendered PDF.
//
// Usage:
//
//	labelbuild -text-dir ./out results1.csv results2.csv ...
//
// Required flags:
//
//	-text-dir string  Directory for the reconciled text files
//
// Options:
//
//	-config string       YAML config file (thresholds, workers, matrix, vocabulary)
//	-pdf-dir string      Also render each label as a PDF into this directory
//	-image-height int    Label image height in pixels, drives the oversized box cut
//	-debug               Outline the word boxes in the rendered PDFs
//
// Examples:
//
// Reconcile two pipelines' CSV results into text files:
//
//	labelbuild -text-dir ./out deskew_tesseract/labels.csv easyocr/labels.csv
//
// Render PDFs as well, with a custom config:
//
//	labelbuild -config ensemble.yaml -text-dir ./out -pdf-dir ./pdf results.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rafelafrance/digi-leap/pkg/ensemble"
	"github.com/rafelafrance/digi-leap/pkg/ocrin"
	"github.com/rafelafrance/digi-leap/pkg/render"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	textDir := flag.String("text-dir", "", "Directory for the reconciled text files")
	pdfDir := flag.String("pdf-dir", "", "Also render each label as a PDF into this directory")
	imageHeight := flag.Int("image-height", 0, "Label image height in pixels (0 = unknown)")
	debug := flag.Bool("debug", false, "Outline the word boxes in the rendered PDFs")
	flag.Parse()

	if *textDir == "" {
		fmt.Println("Error: Must provide -text-dir path")
		os.Exit(1)
	}
	if flag.NArg() == 0 {
		fmt.Println("Error: Must provide at least one OCR result file")
		os.Exit(1)
	}

	cfg := ensemble.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = ensemble.LoadConfig(*configPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	builder, err := ensemble.New(cfg)
	if err != nil {
		fmt.Printf("Failed to set up the builder: %v\n", err)
		os.Exit(1)
	}

	byLabel := make(map[string][]ocrin.Record)
	for _, path := range flag.Args() {
		records, err := readInput(path)
		if err != nil {
			fmt.Printf("Failed to read %s: %v\n", path, err)
			os.Exit(1)
		}
		for _, r := range records {
			id := r.LabelID
			if id == "" {
				id = labelID(path)
			}
			byLabel[id] = append(byLabel[id], r)
		}
	}

	ids := make([]string, 0, len(byLabel))
	for id := range byLabel {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tasks := make([]ensemble.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, ensemble.Task{
			ID:          id,
			Records:     byLabel[id],
			ImageHeight: *imageHeight,
		})
	}
	fmt.Printf("Reconciling %d labels from %d files\n", len(tasks), flag.NArg())

	if err := os.MkdirAll(*textDir, 0o755); err != nil {
		fmt.Printf("Failed to create text directory: %v\n", err)
		os.Exit(1)
	}
	if *pdfDir != "" {
		if err := os.MkdirAll(*pdfDir, 0o755); err != nil {
			fmt.Printf("Failed to create PDF directory: %v\n", err)
			os.Exit(1)
		}
	}

	renderCfg := render.DefaultConfig()
	renderCfg.Debug = *debug

	failures := 0
	for _, result := range builder.BuildAll(context.Background(), tasks) {
		if result.Err != nil {
			fmt.Printf("Skipping %s: %v\n", result.ID, result.Err)
			failures++
			continue
		}
		label := result.Label

		textPath := filepath.Join(*textDir, label.ID+".txt")
		if err := os.WriteFile(textPath, []byte(label.Text+"\n"), 0o644); err != nil {
			fmt.Printf("Failed to write %s: %v\n", textPath, err)
			os.Exit(1)
		}

		if len(label.Degenerate) > 0 {
			fmt.Printf("Warning: %s had %d boxes with unusable geometry\n",
				label.ID, len(label.Degenerate))
		}

		if *pdfDir != "" {
			pdfPath := filepath.Join(*pdfDir, label.ID+".pdf")
			if err := render.WriteLabel(pdfPath, label.Words, renderCfg); err != nil {
				fmt.Printf("Failed to render %s: %v\n", pdfPath, err)
				os.Exit(1)
			}
		}
	}

	fmt.Printf("Done: %d labels written, %d skipped\n", len(tasks)-failures, failures)
	if failures > 0 {
		os.Exit(1)
	}
}

// readInput reads one OCR result file, picking the reader by extension.
func readInput(path string) ([]ocrin.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hocr", ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ocrin.ReadHOCR(data, filepath.Base(filepath.Dir(path)))
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ocrin.ReadDocumentAI(data, labelID(path))
	default:
		return ocrin.ReadResultsFile(path)
	}
}

// labelID is the file name without its extension.
func labelID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
