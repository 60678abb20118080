// SPDX-License-Identifier: MPL-2.0

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"fansh-cli/internal/broadcast"
	"fansh-cli/internal/config"
	"fansh-cli/internal/interp"
	"fansh-cli/internal/registry"
	"fansh-cli/internal/session"
	"fansh-cli/internal/testutil"

	"github.com/charmbracelet/log"
)

// testREPL builds a REPL around buffers, without a line editor. apply() and
// the dispatch helpers never touch readline, so the whole action surface is
// testable headless.
func testREPL(t *testing.T) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	sess, err := session.New()
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}

	var stdout, stderr bytes.Buffer
	logger := log.New(io.Discard)
	engine := broadcast.NewEngine(&stdout, &stderr, logger)
	r := New(config.DefaultConfig(), sess, registry.New(), engine, logger, &stdout, &stderr)
	return r, &stdout, &stderr
}

func TestApplyRegistryLifecycle(t *testing.T) {
	r, stdout, stderr := testREPL(t)
	dir := t.TempDir()

	r.apply(interp.MutateRegistry{Op: interp.RegistryAdd, Paths: []string{dir}})
	if !strings.Contains(stdout.String(), "Registered new path: ") {
		t.Errorf("missing registration message:\n%s", stdout.String())
	}
	if r.reg.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.reg.Count())
	}

	stdout.Reset()
	r.apply(interp.MutateRegistry{Op: interp.RegistryAdd, Paths: []string{dir}})
	if !strings.Contains(stdout.String(), "Already registered: ") {
		t.Errorf("missing duplicate message:\n%s", stdout.String())
	}
	if r.reg.Count() != 1 {
		t.Errorf("duplicate registration changed Count to %d", r.reg.Count())
	}

	r.apply(interp.MutateRegistry{Op: interp.RegistryRemove, Paths: []string{dir}})
	if r.reg.Count() != 0 {
		t.Errorf("Count = %d after removal, want 0", r.reg.Count())
	}

	stderr.Reset()
	r.apply(interp.MutateRegistry{Op: interp.RegistryRemove, Paths: []string{dir}})
	if !strings.Contains(stderr.String(), "Path not registered, cannot remove: ") {
		t.Errorf("missing absent-path message:\n%s", stderr.String())
	}
}

func TestApplyRegistryAddReportsBadPathAndContinues(t *testing.T) {
	r, _, stderr := testREPL(t)
	good := t.TempDir()
	bad := filepath.Join(good, "missing")

	r.apply(interp.MutateRegistry{Op: interp.RegistryAdd, Paths: []string{bad, good}})

	if !strings.Contains(stderr.String(), "Cannot register path ") {
		t.Errorf("missing error for bad path:\n%s", stderr.String())
	}
	if r.reg.Count() != 1 {
		t.Errorf("good path after bad one not registered, Count = %d", r.reg.Count())
	}
}

func TestApplyRegistryReset(t *testing.T) {
	r, _, _ := testREPL(t)
	a, b, c := t.TempDir(), t.TempDir(), t.TempDir()

	r.apply(interp.MutateRegistry{Op: interp.RegistryAdd, Paths: []string{a, b}})
	r.apply(interp.MutateRegistry{Op: interp.RegistryReset, Paths: []string{c}})

	if r.reg.Count() != 1 {
		t.Fatalf("Count = %d after reset, want 1", r.reg.Count())
	}
	canon, isNew, err := r.reg.Register(c)
	if err != nil {
		t.Fatal(err)
	}
	if isNew {
		t.Errorf("reset did not register replacement %s", canon)
	}
}

func TestApplyLoadRegistryFromFile(t *testing.T) {
	r, _, stderr := testREPL(t)
	a, b := t.TempDir(), t.TempDir()

	listFile := filepath.Join(t.TempDir(), "dirs")
	if err := os.WriteFile(listFile, []byte(a+"\n"+b+" \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r.apply(interp.LoadRegistryFromFile{Path: listFile})
	if r.reg.Count() != 2 {
		t.Errorf("Count = %d after register-file, want 2", r.reg.Count())
	}

	r.apply(interp.LoadRegistryFromFile{Path: listFile + ".nope"})
	if stderr.Len() == 0 {
		t.Error("missing registry file produced no diagnostic")
	}
}

func TestApplyEchoAndUsageError(t *testing.T) {
	r, stdout, stderr := testREPL(t)

	r.apply(interp.Echo{Args: []string{"a", "b"}})
	if stdout.String() != "a b\n" {
		t.Errorf("echo output = %q", stdout.String())
	}

	r.apply(interp.UsageError{Message: "var: requires a variable name"})
	if !strings.Contains(stderr.String(), "var: requires a variable name") {
		t.Errorf("usage error not printed:\n%s", stderr.String())
	}
}

func TestApplyDump(t *testing.T) {
	r, stdout, _ := testREPL(t)
	dir := t.TempDir()

	r.apply(interp.MutateRegistry{Op: interp.RegistryAdd, Paths: []string{dir}})
	stdout.Reset()

	r.apply(interp.PrintRegistryDump{})
	if !strings.HasPrefix(stdout.String(), "Registered directories:\n") {
		t.Errorf("dump output = %q", stdout.String())
	}
}

func TestApplyEnvAndChdir(t *testing.T) {
	r, _, stderr := testREPL(t)
	dir := t.TempDir()

	r.apply(interp.SetEnv{Name: "FANSH_X", Value: "1"})
	if v, _ := r.sess.Getenv("FANSH_X"); v != "1" {
		t.Errorf("SetEnv not applied, got %q", v)
	}

	r.apply(interp.UnsetEnv{Name: "FANSH_X"})
	if _, ok := r.sess.Getenv("FANSH_X"); ok {
		t.Error("UnsetEnv not applied")
	}

	r.apply(interp.SetWorkingDir{Dir: dir})
	if r.sess.Cwd() != dir {
		t.Errorf("Cwd = %q, want %q", r.sess.Cwd(), dir)
	}

	r.apply(interp.SetWorkingDir{Dir: filepath.Join(dir, "missing")})
	if !strings.Contains(stderr.String(), "cd: ") {
		t.Errorf("failed cd produced no message:\n%s", stderr.String())
	}
	if r.sess.Cwd() != dir {
		t.Error("failed cd changed the working directory")
	}
}

func TestApplyExit(t *testing.T) {
	r, stdout, _ := testREPL(t)

	if done := r.apply(interp.Continue{}); done {
		t.Error("Continue ended the session")
	}
	if done := r.apply(interp.Exit{Farewell: "bye"}); !done {
		t.Error("Exit did not end the session")
	}
	if !strings.Contains(stdout.String(), "bye") {
		t.Error("farewell not printed")
	}
}

// With an empty registry a broadcast targets the working directory exactly
// once and must not leave it registered afterwards.
func TestBroadcastEmptyRegistryFallsBackToCwd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX sh")
	}
	r, stdout, _ := testREPL(t)
	dir := t.TempDir()

	if err := r.sess.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	r.apply(interp.ExecuteExternal{Argv: []string{"sh", "-c", "pwd"}})

	if !strings.HasPrefix(stdout.String(), dir+":\n") {
		t.Errorf("fallback did not target the working directory:\n%s", stdout.String())
	}
	if strings.Count(stdout.String(), ":\n") != 1 {
		t.Errorf("fallback ran more than once:\n%s", stdout.String())
	}
	if r.reg.Count() != 0 {
		t.Errorf("fallback persisted into the registry, Count = %d", r.reg.Count())
	}
}

func TestBroadcastRunsInEveryRegisteredDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX sh")
	}
	r, stdout, _ := testREPL(t)
	dirs := []string{t.TempDir(), t.TempDir(), t.TempDir()}

	r.apply(interp.MutateRegistry{Op: interp.RegistryAdd, Paths: dirs})
	stdout.Reset()

	r.apply(interp.ExecuteExternal{Argv: []string{"sh", "-c", "pwd"}})

	for _, d := range r.reg.Paths() {
		if !strings.Contains(stdout.String(), d+":\n") {
			t.Errorf("no output block for %s:\n%s", d, stdout.String())
		}
	}
}

// Session env mutations must be visible to broadcast children.
func TestBroadcastSeesSessionEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX sh")
	}
	r, stdout, _ := testREPL(t)

	r.apply(interp.SetEnv{Name: "FANSH_BROADCAST_PROBE", Value: "visible"})
	r.apply(interp.ExecuteExternal{Argv: []string{"sh", "-c", "echo $FANSH_BROADCAST_PROBE"}})

	if !strings.Contains(stdout.String(), "visible") {
		t.Errorf("session env not passed to child:\n%s", stdout.String())
	}
}

func TestHelpStyleFollowsColorScheme(t *testing.T) {
	tests := []struct {
		scheme config.ColorScheme
		want   string
	}{
		{config.ColorSchemeDark, "dark"},
		{config.ColorSchemeLight, "light"},
		{config.ColorSchemeAuto, "auto"},
		{config.ColorScheme(""), "auto"},
	}
	for _, tt := range tests {
		if got := helpStyle(tt.scheme); got != tt.want {
			t.Errorf("helpStyle(%q) = %q, want %q", tt.scheme, got, tt.want)
		}
	}
}

func TestRenderHelpUsesConfiguredScheme(t *testing.T) {
	r, _, _ := testREPL(t)

	for _, scheme := range []config.ColorScheme{config.ColorSchemeDark, config.ColorSchemeLight, config.ColorSchemeAuto} {
		r.cfg.UI.ColorScheme = scheme
		out := r.renderHelp()
		if !strings.Contains(out, "register-file") {
			t.Errorf("help rendered with %s scheme lost content:\n%s", scheme, out)
		}
	}
}

func TestPrompt(t *testing.T) {
	r, _, _ := testREPL(t)

	if !strings.Contains(r.prompt(), "(0) ") {
		t.Errorf("prompt = %q, want registry count", r.prompt())
	}
	if !strings.HasSuffix(r.prompt(), "> ") {
		t.Errorf("prompt = %q, want trailing '> '", r.prompt())
	}

	r.sess.PushPending("partial ")
	if r.prompt() != "... " {
		t.Errorf("continuation prompt = %q, want \"... \"", r.prompt())
	}
}

func TestPrettyCwdAbbreviatesHome(t *testing.T) {
	home := t.TempDir()
	cleanup := testutil.SetHomeDir(t, home)
	defer cleanup()

	r, _, _ := testREPL(t)

	sub := filepath.Join(home, "projects")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := r.sess.Chdir(sub); err != nil {
		t.Fatal(err)
	}
	if got := r.prettyCwd(); got != filepath.Join("~", "projects") {
		t.Errorf("prettyCwd = %q, want ~/projects", got)
	}
}
