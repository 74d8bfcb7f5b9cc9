package ensemble

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rafelafrance/digi-leap/pkg/ocrin"
)

// Config holds the knobs for building labels from OCR ensembles.
type Config struct {
	// CharSet selects which substitution matrix rows apply.
	CharSet string `yaml:"char_set"`

	// MatrixPath is the substitution matrix table; alignment of variant
	// transcriptions is unavailable when empty.
	MatrixPath string `yaml:"matrix"`

	// VocabPath is an extra word list merged over the bundled vocabulary.
	VocabPath string `yaml:"vocab"`

	// OverlapThreshold is the box overlap ratio at which OCR fragments
	// from different pipelines are considered the same text.
	OverlapThreshold float64 `yaml:"overlap_threshold"`

	// Gutter is the pixel gap between rows in the rebuilt layout.
	Gutter int `yaml:"gutter"`

	// Workers bounds the number of labels processed concurrently.
	Workers int `yaml:"workers"`

	// Pipelines lists the bracketed pipeline tags expected in the input,
	// e.g. "[deskew,tesseract]". Used only for validation and reporting.
	Pipelines []string `yaml:"pipelines"`

	// MinConf, HeightFraction, and StdDevs control the record cleanup
	// applied before merging; see ocrin.FilterOptions.
	MinConf        float64 `yaml:"min_conf"`
	HeightFraction float64 `yaml:"height_fraction"`
	StdDevs        float64 `yaml:"std_devs"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	filter := ocrin.DefaultFilterOptions()
	return Config{
		CharSet:          "default",
		OverlapThreshold: 0.50,
		Gutter:           12,
		Workers:          4,
		MinConf:          filter.MinConf,
		HeightFraction:   filter.HeightFraction,
		StdDevs:          filter.StdDevs,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configs that cannot drive a build.
func (c Config) Validate() error {
	if c.OverlapThreshold <= 0 || c.OverlapThreshold > 1 {
		return fmt.Errorf("overlap_threshold %g is not in (0, 1]", c.OverlapThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	for _, tag := range c.Pipelines {
		if _, err := ocrin.ParsePipeline(tag); err != nil {
			return fmt.Errorf("bad pipeline in config: %w", err)
		}
	}
	return nil
}

// filterOptions maps the config's cleanup knobs onto ocrin.FilterOptions.
func (c Config) filterOptions() ocrin.FilterOptions {
	return ocrin.FilterOptions{
		MinConf:        c.MinConf,
		HeightFraction: c.HeightFraction,
		StdDevs:        c.StdDevs,
	}
}
