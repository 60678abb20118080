// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
package testutil

import (
	"os"
	"runtime"
	"testing"
)

// MustChdir changes the current working directory to dir.
// It returns a cleanup function that restores the original directory.
// The test fails immediately if the directory change fails.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to restore directory to %s: %v", originalWd, err)
		}
	}
}

// MustSetenv sets the environment variable key to value.
// It returns a cleanup function that restores the original value (or unsets it).
// The test fails immediately if the operation fails.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return func() {
		if hadValue {
			if err := os.Setenv(key, originalValue); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
		} else {
			if err := os.Unsetenv(key); err != nil {
				t.Errorf("failed to unset env %s: %v", key, err)
			}
		}
	}
}

// MustUnsetenv unsets the environment variable key.
// It returns a cleanup function that restores the original value (if any).
// The test fails immediately if the operation fails.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	return func() {
		if hadValue {
			if err := os.Setenv(key, originalValue); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
		}
	}
}

// SetHomeDir sets the appropriate home environment variable for the platform
// (USERPROFILE on Windows, HOME elsewhere) and returns a cleanup function
// restoring the original value.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}
