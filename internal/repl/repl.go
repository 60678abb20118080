// SPDX-License-Identifier: MPL-2.0

// Package repl drives the interactive loop: it reads raw lines, hands them
// to the interpreter, and applies the resulting action to the session,
// registry, or broadcast engine. Everything algorithmic lives below this
// package; the repl owns only I/O and dispatch.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fansh-cli/internal/broadcast"
	"fansh-cli/internal/config"
	"fansh-cli/internal/interp"
	"fansh-cli/internal/registry"
	"fansh-cli/internal/session"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
)

// REPL wires the interactive loop's collaborators together.
type REPL struct {
	cfg    *config.Config
	sess   *session.Session
	reg    *registry.Registry
	engine *broadcast.Engine
	logger *log.Logger

	stdout io.Writer
	stderr io.Writer
}

// New creates a REPL writing to stdout/stderr. The engine is expected to
// share the same writers.
func New(cfg *config.Config, sess *session.Session, reg *registry.Registry, engine *broadcast.Engine, logger *log.Logger, stdout, stderr io.Writer) *REPL {
	return &REPL{
		cfg:    cfg,
		sess:   sess,
		reg:    reg,
		engine: engine,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}
}

// Preload registers the given directory paths in order, before the first
// prompt. Failures are reported per path and do not stop the rest.
func (r *REPL) Preload(paths []string) {
	r.registerPaths(paths)
}

// Run starts the read-interpret-apply loop and blocks until the session
// ends. History persistence degrades silently to an in-memory history when
// the history file cannot be used.
func (r *REPL) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            r.prompt(),
		HistoryFile:       r.historyFile(),
		AutoComplete:      r.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("initializing line editor: %w", err)
	}
	defer rl.Close()

	r.logger.Info("starting interactive loop")

	for {
		rl.SetPrompt(r.prompt())

		line, err := rl.Readline()
		if err != nil {
			switch {
			case errors.Is(err, readline.ErrInterrupt):
				fmt.Fprintln(r.stdout, "^C")
			case errors.Is(err, io.EOF):
				fmt.Fprintln(r.stdout, "^D")
			default:
				fmt.Fprintf(r.stderr, "read error: %v\n", err)
			}
			return nil
		}

		if done := r.apply(interp.Interpret(line, r.sess)); done {
			return nil
		}
	}
}

// apply performs one action and reports whether the session should end.
func (r *REPL) apply(action interp.Action) bool {
	switch a := action.(type) {
	case interp.Continue:

	case interp.BufferContinuation:
		r.sess.PushPending(a.Partial)

	case interp.UsageError:
		fmt.Fprintln(r.stderr, a.Message)

	case interp.Echo:
		fmt.Fprintln(r.stdout, strings.Join(a.Args, " "))

	case interp.PrintHelp:
		fmt.Fprintln(r.stdout, r.renderHelp())

	case interp.PrintRegistryDump:
		fmt.Fprint(r.stdout, r.reg.Dump())

	case interp.SetWorkingDir:
		if err := r.sess.Chdir(a.Dir); err != nil {
			fmt.Fprintf(r.stderr, "cd: %v\n", err)
		}

	case interp.SetEnv:
		r.sess.Setenv(a.Name, a.Value)

	case interp.UnsetEnv:
		r.sess.Unsetenv(a.Name)

	case interp.MutateRegistry:
		r.mutateRegistry(a)

	case interp.LoadRegistryFromFile:
		paths, err := registry.ReadFile(r.sess.Resolve(a.Path))
		if err != nil {
			fmt.Fprintln(r.stderr, err)
			return false
		}
		r.registerPaths(paths)

	case interp.ExecuteExternal:
		r.broadcast(a.Argv)

	case interp.Exit:
		if a.Farewell != "" {
			fmt.Fprintln(r.stdout, a.Farewell)
		}
		return true
	}
	return false
}

// mutateRegistry applies add, remove, and reset mutations.
func (r *REPL) mutateRegistry(a interp.MutateRegistry) {
	switch a.Op {
	case interp.RegistryAdd:
		r.registerPaths(a.Paths)
	case interp.RegistryRemove:
		r.unregisterPaths(a.Paths)
	case interp.RegistryReset:
		r.reg.Clear()
		r.registerPaths(a.Paths)
	}
}

// registerPaths registers each path, reporting per-path outcomes. A path
// that cannot be canonicalized is reported and skipped; the rest proceed.
func (r *REPL) registerPaths(paths []string) {
	for _, p := range paths {
		canon, isNew, err := r.reg.Register(r.sess.Resolve(p))
		if err != nil {
			fmt.Fprintf(r.stderr, "Cannot register path %s: %v\n", p, err)
			continue
		}
		if isNew {
			fmt.Fprintf(r.stdout, "Registered new path: %s\n", canon)
		} else {
			fmt.Fprintf(r.stdout, "Already registered: %s\n", canon)
		}
	}
}

// unregisterPaths removes each path, reporting per-path outcomes.
func (r *REPL) unregisterPaths(paths []string) {
	for _, p := range paths {
		canon, wasPresent, err := r.reg.Unregister(r.sess.Resolve(p))
		if err != nil {
			fmt.Fprintf(r.stderr, "Cannot unregister path %s: %v\n", p, err)
			continue
		}
		if wasPresent {
			fmt.Fprintf(r.stdout, "Removed path from registry: %s\n", canon)
		} else {
			fmt.Fprintf(r.stderr, "Path not registered, cannot remove: %s\n", canon)
		}
	}
}

// broadcast fans argv out across the registered directories. With an empty
// registry the command runs exactly once against the session working
// directory, which is NOT persisted into the registry.
func (r *REPL) broadcast(argv []string) {
	targets := r.reg.Paths()
	if len(targets) == 0 {
		r.logger.Debug("empty registry, targeting working directory", "dir", r.sess.Cwd())
		targets = []string{r.sess.Cwd()}
	}
	r.engine.Run(context.Background(), argv, targets, r.sess.Environ())
}

// historyFile resolves the history path, creating its parent directory.
// Any failure downgrades to no history persistence.
func (r *REPL) historyFile() string {
	path, err := r.cfg.HistoryFilePath()
	if err != nil {
		r.logger.Warn("cannot determine history file location", "err", err)
		return ""
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.logger.Warn("cannot create history directory", "path", path, "err", err)
		return ""
	}
	return path
}

// completer offers builtin names and directory arguments for the registry
// builtins.
func (r *REPL) completer() readline.AutoCompleter {
	dirs := readline.PcItemDynamic(r.listDirs)
	return readline.NewPrefixCompleter(
		readline.PcItem("exit"),
		readline.PcItem("quit"),
		readline.PcItem("help"),
		readline.PcItem("dump"),
		readline.PcItem("cd", dirs),
		readline.PcItem("echo"),
		readline.PcItem("var"),
		readline.PcItem("register", dirs),
		readline.PcItem("reg", dirs),
		readline.PcItem("unregister", dirs),
		readline.PcItem("unreg", dirs),
		readline.PcItem("register-file"),
		readline.PcItem("regfile"),
		readline.PcItem("clear-register", dirs),
		readline.PcItem("clreg", dirs),
	)
}

// listDirs returns subdirectories of the session working directory.
func (r *REPL) listDirs(string) []string {
	entries, err := os.ReadDir(r.sess.Cwd())
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
