// SPDX-License-Identifier: MPL-2.0

// Package registry maintains the set of directories a broadcast command
// executes against. Every stored entry is the canonical absolute form of a
// path that existed at registration time; canonicalization failures are
// reported and never stored.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry is a set of canonical directory paths. It is not safe for
// concurrent mutation; the REPL is single-threaded between commands and
// broadcasts only read it.
type Registry struct {
	dirs map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{dirs: make(map[string]struct{})}
}

// Register canonicalizes path and inserts it. It returns the canonical form
// and whether the entry is new; registering a path twice is idempotent.
// Paths that do not exist or cannot be resolved are rejected.
func (r *Registry) Register(path string) (string, bool, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return "", false, err
	}
	_, present := r.dirs[canon]
	r.dirs[canon] = struct{}{}
	return canon, !present, nil
}

// Unregister canonicalizes path and removes it. Removing an absent path is
// reported through the boolean, not as an error.
func (r *Registry) Unregister(path string) (string, bool, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return "", false, err
	}
	_, present := r.dirs[canon]
	delete(r.dirs, canon)
	return canon, present, nil
}

// Clear empties the registry unconditionally.
func (r *Registry) Clear() {
	r.dirs = make(map[string]struct{})
}

// Count returns the number of registered directories.
func (r *Registry) Count() int { return len(r.dirs) }

// Paths returns the registered directories sorted lexically. The slice is a
// copy; the set itself carries no order.
func (r *Registry) Paths() []string {
	paths := maps.Keys(r.dirs)
	slices.Sort(paths)
	return paths
}

// Dump renders the registry for the dump builtin.
func (r *Registry) Dump() string {
	var b strings.Builder
	b.WriteString("Registered directories:\n")
	for _, p := range r.Paths() {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// canonicalize resolves path to its canonical absolute form, following
// symlinks. It fails when the path does not exist.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("canonicalizing %s: %w", path, err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("canonicalizing %s: %w", path, err)
	}
	return canon, nil
}

// ReadFile reads a registry file: a flat word list whose whitespace-separated
// tokens are each one directory path. There is no quoting at this level.
func ReadFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file %s: %w", path, err)
	}
	return strings.Fields(string(raw)), nil
}
