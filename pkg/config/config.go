// Package config loads the YAML configuration of the ocrgt tool.
//
// A configuration file only needs the keys it changes:
//
//	log_level: info
//	normalization: NFKD
//	workers: 8
//	removable:
//	  ALTO_V3: [SP, HYP]
//	overlay:
//	  debug: true
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocreval/internal/log"
	"github.com/gardar/ocreval/pkg/alto"
	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/frame"
	"github.com/gardar/ocreval/pkg/overlay"
	"github.com/gardar/ocreval/pkg/text"
)

// ErrInvalid is returned for configurations that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the tool configuration.
type Config struct {
	LogLevel      string              `yaml:"log_level"`
	Normalization string              `yaml:"normalization"`
	OutputInfix   string              `yaml:"output_infix"`
	Workers       int                 `yaml:"workers"`
	Removable     map[string][]string `yaml:"removable"`
	Overlay       Overlay             `yaml:"overlay"`
}

// Overlay configures the PDF preview.
type Overlay struct {
	Debug     bool    `yaml:"debug"`
	FontName  string  `yaml:"font_name"`
	FontSize  float64 `yaml:"font_size"`
	LineWidth float64 `yaml:"line_width"`
}

// Default returns the built-in configuration.
func Default() *Config {
	ov := overlay.DefaultConfig()
	return &Config{
		LogLevel:      log.LevelWarn,
		Normalization: "NFC",
		OutputInfix:   doctree.DefaultInfix,
		Workers:       text.DefaultWorkers,
		Removable: map[string][]string{
			doctree.FormatALTO.String(): slices.Clone(alto.Removable),
		},
		Overlay: Overlay{
			FontName:  ov.Font.Name,
			FontSize:  ov.Font.Size,
			LineWidth: ov.LineWidth,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError:
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	if _, err := text.ParseForm(c.Normalization); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !strings.HasPrefix(c.OutputInfix, ".") || len(c.OutputInfix) < 2 {
		return fmt.Errorf("%w: output_infix %q must start with a dot", ErrInvalid, c.OutputInfix)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	for name := range c.Removable {
		if doctree.ParseFileFormat(name) == doctree.FormatUnknown {
			return fmt.Errorf("%w: removable: unknown format %q", ErrInvalid, name)
		}
	}
	if c.Overlay.FontSize <= 0 {
		return fmt.Errorf("%w: overlay font_size must be positive", ErrInvalid)
	}
	return nil
}

// Form returns the configured normalization form.
func (c *Config) Form() norm.Form {
	f, _ := text.ParseForm(c.Normalization)
	return f
}

// FilterOptions turns the removable lists into frame filter options.
func (c *Config) FilterOptions() []frame.Option {
	var opts []frame.Option
	for name, tags := range c.Removable {
		opts = append(opts, frame.WithRemovable(doctree.ParseFileFormat(name), tags...))
	}
	return opts
}

// OverlayConfig returns the preview settings.
func (c *Config) OverlayConfig() overlay.Config {
	cfg := overlay.DefaultConfig()
	cfg.Debug = c.Overlay.Debug
	if c.Overlay.FontName != "" {
		cfg.Font.Name = c.Overlay.FontName
	}
	cfg.Font.Size = c.Overlay.FontSize
	if c.Overlay.LineWidth > 0 {
		cfg.LineWidth = c.Overlay.LineWidth
	}
	return cfg
}
