// Package config handles configuration loading and validation for barcoder.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/barcoder/internal/core/salesorder"
	"github.com/hay-kot/barcoder/internal/core/selection"
	"github.com/hay-kot/barcoder/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Stickers  StickersConfig  `yaml:"stickers"`
	Selection SelectionConfig `yaml:"selection"`
	Sort      SortConfig      `yaml:"sort"`
	TUI       TUIConfig       `yaml:"tui"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
}

// StickersConfig controls sticker quantities and the batch output file.
type StickersConfig struct {
	DefaultExtra *int   `yaml:"default_extra"` // nil = built-in default, 0 is allowed
	Output       string `yaml:"output"`        // relative paths resolve against the data dir
}

// SelectionConfig tunes the type-ahead pickers.
type SelectionConfig struct {
	MaxVisible   int             `yaml:"max_visible"`
	PageStep     int             `yaml:"page_step"`
	ViewportRows int             `yaml:"viewport_rows"`
	Match        selection.Match `yaml:"match"`
}

// SortConfig is the initial order-line sort.
type SortConfig struct {
	Field     salesorder.SortField `yaml:"field"`
	Ascending *bool                `yaml:"ascending"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	extra := salesorder.DefaultExtraStickers
	asc := salesorder.DefaultSort.Ascending
	return Config{
		Stickers: StickersConfig{
			DefaultExtra: &extra,
			Output:       "stickers.jsonl",
		},
		Selection: SelectionConfig{
			MaxVisible:   selection.DefaultMaxVisible,
			PageStep:     selection.DefaultPageStep,
			ViewportRows: selection.DefaultViewportRows,
			Match:        selection.MatchContains,
		},
		Sort: SortConfig{
			Field:     salesorder.DefaultSort.Field,
			Ascending: &asc,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Stickers.DefaultExtra == nil {
		c.Stickers.DefaultExtra = defaults.Stickers.DefaultExtra
	}
	if c.Stickers.Output == "" {
		c.Stickers.Output = defaults.Stickers.Output
	}
	if c.Selection.MaxVisible == 0 {
		c.Selection.MaxVisible = defaults.Selection.MaxVisible
	}
	if c.Selection.PageStep == 0 {
		c.Selection.PageStep = defaults.Selection.PageStep
	}
	if c.Selection.ViewportRows == 0 {
		c.Selection.ViewportRows = defaults.Selection.ViewportRows
	}
	if c.Selection.Match == "" {
		c.Selection.Match = defaults.Selection.Match
	}
	if c.Sort.Field == "" {
		c.Sort.Field = defaults.Sort.Field
	}
	if c.Sort.Ascending == nil {
		c.Sort.Ascending = defaults.Sort.Ascending
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Stickers.DefaultExtra != nil && *c.Stickers.DefaultExtra < 0 {
		return fmt.Errorf("stickers.default_extra cannot be negative")
	}

	if c.Selection.MaxVisible < 1 {
		return fmt.Errorf("selection.max_visible must be at least 1")
	}

	if c.Selection.PageStep < 1 {
		return fmt.Errorf("selection.page_step must be at least 1")
	}

	if c.Selection.ViewportRows < 1 {
		return fmt.Errorf("selection.viewport_rows must be at least 1")
	}

	if !c.Selection.Match.IsValid() {
		return fmt.Errorf("selection.match %q is not one of contains, prefix, fuzzy", c.Selection.Match)
	}

	if !c.Sort.Field.IsValid() {
		return fmt.Errorf("sort.field %q is not a sortable field", c.Sort.Field)
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme", c.TUI.Theme)
	}

	return nil
}

// ExtraStickers returns the configured extra-stock sticker buffer.
func (c *Config) ExtraStickers() int {
	if c.Stickers.DefaultExtra == nil {
		return salesorder.DefaultExtraStickers
	}
	return *c.Stickers.DefaultExtra
}

// SortSpec returns the configured initial sort.
func (c *Config) SortSpec() salesorder.SortSpec {
	spec := salesorder.SortSpec{Field: c.Sort.Field, Ascending: true}
	if c.Sort.Ascending != nil {
		spec.Ascending = *c.Sort.Ascending
	}
	return spec
}

// OrdersDir returns the directory scanned for order files.
func (c *Config) OrdersDir() string {
	return filepath.Join(c.DataDir, "orders")
}

// CustomersDir returns the directory holding customer catalog files.
func (c *Config) CustomersDir() string {
	return filepath.Join(c.DataDir, "customers")
}

// StickersFile returns the path sticker batches are appended to.
func (c *Config) StickersFile() string {
	if filepath.IsAbs(c.Stickers.Output) {
		return c.Stickers.Output
	}
	return filepath.Join(c.DataDir, c.Stickers.Output)
}
