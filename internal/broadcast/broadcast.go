// SPDX-License-Identifier: MPL-2.0

// Package broadcast fans one external command out across a set of target
// directories. Targets run concurrently on a bounded pool; each target's
// success or failure is independent, and the calling goroutine blocks until
// every target has completed.
package broadcast

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type (
	// Engine executes one argv across many directories. The zero value is
	// not usable; construct with NewEngine.
	Engine struct {
		// MaxParallel caps the number of concurrently running targets.
		// Zero or negative means the number of available CPU cores.
		MaxParallel int

		stdout io.Writer
		stderr io.Writer
		logger *log.Logger

		// mu serializes writes so each target emits one contiguous block.
		mu sync.Mutex
	}

	// Result is the outcome of one target execution.
	Result struct {
		// Dir is the target directory the command ran in.
		Dir string
		// Code is the exit status of the spawned process.
		Code ExitCode
		// Output is the captured standard output.
		Output string
		// ErrOutput is the captured standard error.
		ErrOutput string
		// Err is set when the process could not be spawned at all.
		Err error
	}
)

// NewEngine creates an Engine writing aggregated output to stdout and
// per-target diagnostics to stderr.
func NewEngine(stdout, stderr io.Writer, logger *log.Logger) *Engine {
	return &Engine{
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

// Run executes argv in every target directory concurrently and returns one
// Result per target, in target order. Output interleaving across targets is
// unspecified. A target whose process cannot be spawned gets a diagnostic on
// the error stream and does not disturb its siblings. Run blocks until all
// targets are done; argv must be non-empty (that is a caller bug, not a
// runtime condition).
func (e *Engine) Run(ctx context.Context, argv []string, targets []string, env []string) []Result {
	if len(argv) == 0 {
		panic("broadcast: empty argv")
	}

	limit := e.MaxParallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	e.logger.Debug("broadcasting command", "argv", argv, "targets", len(targets), "limit", limit)

	results := make([]Result, len(targets))
	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i, dir := range targets {
		g.Go(func() error {
			res := e.runOne(ctx, argv, dir, env)
			results[i] = res
			e.report(res)
			return nil
		})
	}
	_ = g.Wait()

	if failed := countFailed(results); failed > 0 {
		e.logger.Warn("command failed in some directories", "failed", failed, "total", len(targets))
	}

	return results
}

// runOne spawns argv in dir, capturing stdout and stderr.
func (e *Engine) runOne(ctx context.Context, argv []string, dir string, env []string) Result {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Dir:       dir,
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := ExitCode(exitErr.ExitCode())
			if valid, verrs := code.IsValid(); !valid {
				// Signal death carries no numeric status; store a plain
				// failure code instead of the -1 placeholder.
				e.logger.Debug("no exit status for target", "dir", dir, "err", verrs[0])
				code = 1
			}
			res.Code = code
		} else {
			res.Code = 1
			res.Err = err
		}
	}
	e.logger.Debug("target finished", "dir", dir, "code", res.Code.String())
	return res
}

// report prints one target's outcome: a diagnostic on spawn failure, or the
// captured output prefixed with the target path when non-empty.
func (e *Engine) report(res Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res.Err != nil {
		fmt.Fprintf(e.stderr, "Could not execute process in dir: %s, failed with error: %v\n", res.Dir, res.Err)
		return
	}
	if strings.TrimSpace(res.Output) != "" {
		fmt.Fprintf(e.stdout, "%s:\n%s\n", res.Dir, res.Output)
	}
}

func countFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil || !r.Code.IsSuccess() {
			n++
		}
	}
	return n
}
