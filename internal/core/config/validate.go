package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility of the config file, the data directory and
// the sticker output location. The configPath argument specifies the config
// file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("stickers.output", c.StickersFile(), parentIsDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for _, dir := range []struct{ name, path string }{
		{"orders", c.OrdersDir()},
		{"customers", c.CustomersDir()},
	} {
		if _, err := os.Stat(dir.path); os.IsNotExist(err) {
			warnings = append(warnings, ValidationWarning{
				Category: "Data",
				Item:     dir.path,
				Message:  fmt.Sprintf("%s directory does not exist; nothing will load", dir.name),
			})
		}
	}

	if c.ExtraStickers() > 25 {
		warnings = append(warnings, ValidationWarning{
			Category: "Stickers",
			Item:     "stickers.default_extra",
			Message:  fmt.Sprintf("%d extra stickers per line is unusually high", c.ExtraStickers()),
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// parentIsDirectoryOrNotExist validates that a file path is not a directory
// and its parent can hold it.
func parentIsDirectoryOrNotExist(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return isDirectoryOrNotExist(filepath.Dir(path))
}
