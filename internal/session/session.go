// SPDX-License-Identifier: MPL-2.0

// Package session holds the per-session interpreter state: the logical
// working directory, an environment overlay, and the pending buffer for
// continuation lines. Nothing in here mutates process-wide state: `cd` and
// `var` act on the session, and child processes inherit the merged view via
// Environ.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type (
	// Session is the mutable state threaded through one interactive session.
	Session struct {
		home    string
		cwd     string
		base    map[string]string
		overlay map[string]envEntry
		pending string
	}

	// envEntry records one overlay mutation. A deleted entry shadows any
	// value inherited from the process environment.
	envEntry struct {
		value   string
		deleted bool
	}
)

// New creates a session rooted at the current process working directory,
// with the process environment snapshotted as the base layer.
func New() (*Session, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	base := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			base[kv[:i]] = kv[i+1:]
		}
	}

	return &Session{
		home:    home,
		cwd:     cwd,
		base:    base,
		overlay: make(map[string]envEntry),
	}, nil
}

// HomeDir returns the invoking user's home directory.
func (s *Session) HomeDir() string { return s.home }

// Cwd returns the session's logical working directory.
func (s *Session) Cwd() string { return s.cwd }

// Chdir changes the session working directory. An empty path means the home
// directory. Relative paths resolve against the current session directory.
// The target must exist and be a directory; on failure the session directory
// is unchanged.
func (s *Session) Chdir(path string) error {
	if path == "" {
		path = s.home
	}
	abs := s.Resolve(path)

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("changing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("changing directory: %s is not a directory", abs)
	}

	s.cwd = abs
	return nil
}

// Resolve makes path absolute relative to the session working directory.
// Absolute paths are cleaned and returned as-is.
func (s *Session) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.cwd, path)
}

// Getenv returns the value of name, overlay first, then the base snapshot.
// A deleted overlay entry shadows the base value.
func (s *Session) Getenv(name string) (string, bool) {
	if e, ok := s.overlay[name]; ok {
		if e.deleted {
			return "", false
		}
		return e.value, true
	}
	v, ok := s.base[name]
	return v, ok
}

// Setenv stores name=value in the overlay.
func (s *Session) Setenv(name, value string) {
	s.overlay[name] = envEntry{value: value}
}

// Unsetenv marks name deleted in the overlay, shadowing any base value.
func (s *Session) Unsetenv(name string) {
	s.overlay[name] = envEntry{deleted: true}
}

// Environ returns the merged environment as KEY=VALUE pairs, sorted by key,
// for handing to child processes.
func (s *Session) Environ() []string {
	merged := make(map[string]string, len(s.base))
	for k, v := range s.base {
		merged[k] = v
	}
	for k, e := range s.overlay {
		if e.deleted {
			delete(merged, k)
		} else {
			merged[k] = e.value
		}
	}

	out := make([]string, 0, len(merged))
	for k, v := range merged {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// PushPending appends a partial line to the continuation buffer.
func (s *Session) PushPending(partial string) {
	s.pending += partial
}

// TakePending concatenates the buffered continuation lines with line,
// clearing the buffer. With an empty buffer it returns line unchanged.
func (s *Session) TakePending(line string) string {
	full := s.pending + line
	s.pending = ""
	return full
}

// HasPending reports whether a continuation is buffered.
func (s *Session) HasPending() bool { return s.pending != "" }
