package ocrin

import "math"

// FilterOptions control which OCR records survive cleanup before merging.
type FilterOptions struct {
	MinConf        float64 // Drop records at or below this confidence
	HeightFraction float64 // Drop boxes taller than this fraction of the label
	StdDevs        float64 // Drop boxes this many std devs thinner/shorter than the mean
}

// DefaultFilterOptions mirrors the cleanup used for label ensembles.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{MinConf: 0.25, HeightFraction: 0.25, StdDevs: 2.0}
}

// Filter removes problem records before box merging: blank text, low
// engine confidence, boxes too tall relative to the label image, and boxes
// far thinner or shorter than their peers (usually speckle picked up as
// text). The width/height statistics are computed over the records that
// survive the earlier cuts.
func Filter(records []Record, imageHeight int, opts FilterOptions) []Record {
	kept := make([]Record, 0, len(records))
	maxHeight := int(math.Round(float64(imageHeight) * opts.HeightFraction))
	for _, r := range records {
		if r.Text == "" {
			continue
		}
		if r.Conf <= opts.MinConf {
			continue
		}
		if imageHeight > 0 && r.Bottom-r.Top+1 >= maxHeight {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return kept
	}

	widths := make([]float64, len(kept))
	heights := make([]float64, len(kept))
	for i, r := range kept {
		widths[i] = float64(r.Right - r.Left + 1)
		heights[i] = float64(r.Bottom - r.Top + 1)
	}
	minWidth := mean(widths) - opts.StdDevs*stddev(widths)
	minHeight := mean(heights) - opts.StdDevs*stddev(heights)

	out := kept[:0]
	for i, r := range kept {
		if widths[i] > minWidth && heights[i] > minHeight {
			out = append(out, r)
		}
	}
	return out
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation, zero for fewer than two values.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
