// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"fansh-cli/internal/issue"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "fansh"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// HistoryFileName is the default history file name under DataDir.
	HistoryFileName = "history"
)

// ConfigDir returns the fansh configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application
// Support, and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DataDir returns the directory for session data such as the history file:
// %LOCALAPPDATA% on Windows, ~/Library/Application Support on macOS, and
// $XDG_DATA_HOME (defaulting to ~/.local/share) elsewhere.
func DataDir() (string, error) {
	if dataDirOverride != "" {
		return dataDirOverride, nil
	}

	var dataDir string

	switch runtime.GOOS {
	case "windows":
		dataDir = os.Getenv("LOCALAPPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, "Library", "Application Support")
	default:
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(dataDir, AppName), nil
}

// ConfigFilePath returns the path of the config file in use: the override
// set via --config when present, otherwise the default location.
func ConfigFilePath() (string, error) {
	if configFilePathOverride != "" {
		return configFilePathOverride, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the configuration file and FANSH_* environment variables.
// A missing config file is not an error: defaults apply. A present but
// unreadable or invalid file returns the defaults alongside the error so
// the caller can warn and continue.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("preload_dirs", defaults.PreloadDirs)
	v.SetDefault("history_file", defaults.HistoryFile)
	v.SetDefault("max_parallel", defaults.MaxParallel)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix("FANSH")
	// Nested keys map dots to underscores, so ui.verbose reads FANSH_UI_VERBOSE.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFilePathOverride != "" {
		v.SetConfigFile(configFilePathOverride)
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return defaults, err
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && configFilePathOverride == "" {
			return defaults, nil
		}
		return defaults, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(v.ConfigFileUsed()).
			WithSuggestion("Check the TOML syntax of the config file").
			WithSuggestion("Run 'fansh config path' to see which file is read").
			Wrap(err).
			BuildError()
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return defaults, issue.NewErrorContext().
			WithOperation("parse configuration").
			WithResource(v.ConfigFileUsed()).
			Wrap(err).
			BuildError()
	}

	if err := cfg.Validate(); err != nil {
		return defaults, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(v.ConfigFileUsed()).
			Wrap(err).
			BuildError()
	}

	return cfg, nil
}

// HistoryFilePath resolves the history file location: the configured path
// when set, otherwise HistoryFileName under DataDir.
func (c *Config) HistoryFilePath() (string, error) {
	if c.HistoryFile != "" {
		return c.HistoryFile, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, HistoryFileName), nil
}
