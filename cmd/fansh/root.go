// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI surface for fansh. The root command starts
// the interactive loop; subcommands cover configuration inspection.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fansh-cli/internal/broadcast"
	"fansh-cli/internal/config"
	"fansh-cli/internal/issue"
	"fansh-cli/internal/registry"
	"fansh-cli/internal/repl"
	"fansh-cli/internal/session"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"

	// verbose enables debug logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// registryFile pre-loads registered directories
	registryFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "fansh",
		Short: "An interactive shell that broadcasts commands across directories",
		Long: TitleStyle.Render("fansh") + SubtitleStyle.Render(" - a fan-out shell") + `

fansh keeps a registry of working directories and runs each command line
in every registered directory concurrently, printing the output of each
directory separately. With nothing registered, commands run in the
current directory.

` + SubtitleStyle.Render("Examples:") + `
  fansh                         Start the interactive shell
  fansh -r dirs.txt             Start with directories pre-registered
                                from a whitespace-separated word list
  fansh config show             Show the effective configuration`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/fansh/config.toml)")
	rootCmd.Flags().StringVarP(&registryFile, "registry", "r", "", "whitespace-separated list of directories to register at startup")

	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// runShell assembles the session, registry, and engine, applies preloads,
// and enters the interactive loop.
func runShell() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("cannot accept piped input: fansh is interactive")
	}

	logger := newLogger()

	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}
	cfg, err := config.Load()
	if err != nil {
		// Config problems degrade to defaults, surfaced as a warning.
		fmt.Fprintln(os.Stderr, warningMessage(err))
	}
	if cfg.UI.Verbose || verbose {
		logger.SetLevel(log.DebugLevel)
	}

	sess, err := session.New()
	if err != nil {
		return issue.WrapWithOperation(err, "initialize session")
	}

	reg := registry.New()
	engine := broadcast.NewEngine(os.Stdout, os.Stderr, logger.WithPrefix("broadcast"))
	engine.MaxParallel = cfg.MaxParallel

	r := repl.New(cfg, sess, reg, engine, logger, os.Stdout, os.Stderr)

	r.Preload(cfg.PreloadDirs)
	if registryFile != "" {
		paths, err := registry.ReadFile(registryFile)
		if err != nil {
			logger.Warn("could not read registry file", "file", registryFile, "err", err)
		} else {
			r.Preload(paths)
		}
	}

	return r.Run()
}

// warningMessage renders a non-fatal startup problem. Actionable errors keep
// their suggestions; --verbose adds the full error chain.
func warningMessage(err error) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return WarningStyle.Render("Warning: ") + ae.Format(verbose)
	}
	return WarningStyle.Render("Warning: ") + err.Error()
}

// newLogger builds the root logger. Stderr only: stdout belongs to command
// output.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "fansh",
		Level:  log.WarnLevel,
	})
}
