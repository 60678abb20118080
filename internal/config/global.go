// SPDX-License-Identifier: MPL-2.0

package config

var (
	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// dataDirOverride allows tests to override the data directory.
	dataDirOverride string

	// configFilePathOverride is the explicit config file set via --config.
	configFilePathOverride string
)

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	dataDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path, bypassing the
// platform lookup. Primarily intended for testing.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetDataDirOverride sets a custom data directory path. Primarily intended
// for testing.
func SetDataDirOverride(dir string) {
	dataDirOverride = dir
}

// SetConfigFilePathOverride sets an explicit config file path, as given by
// the --config flag. The file must exist when set.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}
