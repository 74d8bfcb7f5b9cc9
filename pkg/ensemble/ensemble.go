// Package ensemble drives the full label reconciliation pipeline: clean
// up the OCR records from several engine pipelines, merge overlapping
// fragments into consensus boxes, rebuild the text rows, and emit a
// readable label.
//
// Key Types:
//   - Config: tunables loaded from YAML
//   - Builder: holds the loaded vocabulary, substitution matrix, and
//     consensus machinery; safe for concurrent use
//   - Label: one reconciled label with its final geometry and text
//
// Main Functions:
//   - New: construct a Builder from a Config
//   - Builder.BuildLabel: reconcile one label's OCR records
//   - Builder.BuildAll: reconcile many labels on a worker pool
package ensemble

import (
	"fmt"
	"os"
	"strings"

	"github.com/rafelafrance/digi-leap/pkg/charsub"
	"github.com/rafelafrance/digi-leap/pkg/layout"
	"github.com/rafelafrance/digi-leap/pkg/ocrin"
	"github.com/rafelafrance/digi-leap/pkg/reconcile"
	"github.com/rafelafrance/digi-leap/pkg/stralign"
)

// Builder reconciles OCR ensembles into labels. It is read-only after
// construction and safe for concurrent use.
type Builder struct {
	cfg     Config
	cons    *reconcile.Consensus
	aligner *stralign.Aligner
}

// Label is one reconciled label.
type Label struct {
	ID string

	// Words are the merged word boxes, straightened and re-packed into
	// clean coordinates, ready for rendering.
	Words []layout.Placed

	// Rows are the words of each row collapsed into one box per line.
	Rows []layout.Placed

	// Text is the reconciled transcription, one line per row.
	Text string

	// Degenerate lists input boxes with unusable geometry, kept for
	// reporting.
	Degenerate []reconcile.Box
}

// New builds the reconciliation machinery from a config: the vocabulary
// (the bundled list, plus the configured word list when given) and, when a
// matrix path is configured, the glyph substitution matrix backing
// sequence alignment.
func New(cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	vocab := reconcile.DefaultVocab()
	if cfg.VocabPath != "" {
		v, err := reconcile.LoadVocab(cfg.VocabPath)
		if err != nil {
			return nil, err
		}
		vocab = v
	}

	b := &Builder{
		cfg:  cfg,
		cons: reconcile.NewConsensus(vocab),
	}

	if cfg.MatrixPath != "" {
		f, err := os.Open(cfg.MatrixPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open substitution matrix: %w", err)
		}
		defer f.Close()
		matrix, err := charsub.Load(f, cfg.CharSet)
		if err != nil {
			return nil, err
		}
		b.aligner = stralign.NewAligner(matrix)
	}
	return b, nil
}

// Consensus exposes the builder's consensus machinery, for callers that
// reconcile texts outside the box pipeline.
func (b *Builder) Consensus() *reconcile.Consensus { return b.cons }

// AlignVariants aligns variant transcriptions of the same line into equal
// length strings, gap characters marking insertions. It requires a
// configured substitution matrix.
func (b *Builder) AlignVariants(texts []string) ([]string, error) {
	if b.aligner == nil {
		return nil, fmt.Errorf("no substitution matrix configured")
	}
	return b.aligner.AlignAll(texts), nil
}

// BuildLabel reconciles one label's OCR records. The image height drives
// the oversized-box cut; pass zero when unknown to skip that cut.
func (b *Builder) BuildLabel(id string, records []ocrin.Record, imageHeight int) (*Label, error) {
	kept := ocrin.Filter(records, imageHeight, b.cfg.filterOptions())
	if len(kept) == 0 {
		return nil, fmt.Errorf("label %s has no usable OCR records", id)
	}

	boxes := make([]reconcile.Box, len(kept))
	for i, r := range kept {
		boxes[i] = reconcile.Box{
			Left:   r.Left,
			Top:    r.Top,
			Right:  r.Right,
			Bottom: r.Bottom,
			Source: r.Source,
			Text:   r.Text,
		}
	}

	merged, degenerate := reconcile.MergeBoxes(boxes, b.cfg.OverlapThreshold, b.cons)

	placed := layout.Straighten(layout.AssignRows(merged))
	words := layout.Arrange(placed, b.cfg.Gutter)
	rows := layout.Arrange(layout.MergeRows(placed), b.cfg.Gutter)

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.Text)
	}

	return &Label{
		ID:         id,
		Words:      words,
		Rows:       rows,
		Text:       strings.Join(lines, "\n"),
		Degenerate: degenerate,
	}, nil
}
