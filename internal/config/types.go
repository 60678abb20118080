// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
var ErrInvalidColorScheme = errors.New("invalid color scheme")

type (
	// Config is the application configuration loaded from the config file
	// and FANSH_* environment variables.
	Config struct {
		// PreloadDirs are directory paths registered, in order, before the
		// first prompt and before any paths from the -r/--registry file.
		PreloadDirs []string `mapstructure:"preload_dirs" toml:"preload_dirs"`

		// HistoryFile is the readline history path. Empty means the default
		// location under the user data directory.
		HistoryFile string `mapstructure:"history_file" toml:"history_file"`

		// MaxParallel caps concurrent targets during a broadcast.
		// Zero means the number of available CPU cores.
		MaxParallel int `mapstructure:"max_parallel" toml:"max_parallel"`

		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui" toml:"ui"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// ColorScheme selects prompt/output coloring: auto, dark, or light.
		ColorScheme ColorScheme `mapstructure:"color_scheme" toml:"color_scheme"`

		// Verbose enables debug logging.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
	}

	// ColorScheme selects terminal coloring behavior.
	ColorScheme string
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxParallel: 0,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid returns whether the ColorScheme is one of the recognized values,
// and a validation error if it is not.
func (c ColorScheme) IsValid() (bool, error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	}
	return false, fmt.Errorf("%w: %q (expected auto, dark, or light)", ErrInvalidColorScheme, string(c))
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if ok, err := c.UI.ColorScheme.IsValid(); !ok {
		return err
	}
	if c.MaxParallel < 0 {
		return fmt.Errorf("max_parallel must not be negative, got %d", c.MaxParallel)
	}
	return nil
}
